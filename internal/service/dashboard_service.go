package service

import (
	"time"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"

	"github.com/shopspring/decimal"
)

const recentTransactionLimit = 5

type DashboardService interface {
	Overview() (*DashboardOverview, error)
}

// DashboardOverview aggregates the metrics shown on the landing page.
// Everything is recomputed from live rows on each request.
type DashboardOverview struct {
	TotalProducts      int64               `json:"total_products"`
	StockValue         decimal.Decimal     `json:"stock_value"`
	PotentialRevenue   decimal.Decimal     `json:"potential_revenue"`
	TransactionsToday  int64               `json:"transactions_today"`
	RecentTransactions []model.Transaction `json:"recent_transactions"`
	LowStock           []model.Product     `json:"low_stock"`
}

type dashboardService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
}

func NewDashboardService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{
		productRepo: productRepo,
		txRepo:      txRepo,
	}
}

func (s *dashboardService) Overview() (*DashboardOverview, error) {
	overview := &DashboardOverview{}

	var err error
	if overview.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}
	if overview.StockValue, err = s.productRepo.StockValuation(); err != nil {
		return nil, err
	}
	if overview.PotentialRevenue, err = s.productRepo.PotentialRevenue(); err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if overview.TransactionsToday, err = s.txRepo.CountSince(midnight); err != nil {
		return nil, err
	}

	if overview.RecentTransactions, err = s.txRepo.Recent(recentTransactionLimit); err != nil {
		return nil, err
	}
	if overview.LowStock, err = s.productRepo.FindLowStock(model.LowStockThreshold); err != nil {
		return nil, err
	}

	return overview, nil
}
