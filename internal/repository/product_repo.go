package repository

import (
	"go-stocktrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error
	Delete(tx *gorm.DB, id uuid.UUID) error

	// Dashboard aggregates
	Count() (int64, error)
	StockValuation() (decimal.Decimal, error)
	PotentialRevenue() (decimal.Decimal, error)
	FindLowStock(threshold int) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

// UpdateQuantity takes *gorm.DB (tx) so the stock change commits atomically
// with its ledger entry
func (r *productRepo) UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

// StockValuation returns SUM(purchase_price * quantity) over live products
func (r *productRepo) StockValuation() (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(purchase_price * quantity), 0) AS total").
		Scan(&result).Error
	return result.Total, err
}

// PotentialRevenue returns SUM(selling_price * quantity) over live products
func (r *productRepo) PotentialRevenue() (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(selling_price * quantity), 0) AS total").
		Scan(&result).Error
	return result.Total, err
}

func (r *productRepo) FindLowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("quantity < ?", threshold).Order("quantity ASC").Find(&products).Error
	return products, err
}
