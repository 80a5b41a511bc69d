package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(120);not null" json:"name" validate:"required"`
	SKU           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Category      string          `gorm:"type:varchar(50)" json:"category"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	Quantity      int             `gorm:"default:0" json:"quantity"`

	// Relasi
	Transactions []Transaction `json:"transactions,omitempty"`
}

// LowStockThreshold marks products that need replenishment on the dashboard.
const LowStockThreshold = 5
