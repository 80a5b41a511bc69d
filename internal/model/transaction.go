package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger change type tags. Every stock- or user-affecting mutation appends
// exactly one transaction row tagged with one of these, in the same commit
// as the mutation it records.
const (
	ChangeNewProduct    = "NEW_PROD"
	ChangeUpdateProduct = "UPD_PROD"
	ChangeDeleteProduct = "DEL_PROD"
	ChangeUpdateStock   = "UPD_STCK"
)

// ChangeDeleteUser tags the deletion of a user; the tag itself carries the
// deleted user's id since the row has no user reference column for it.
func ChangeDeleteUser(id uuid.UUID) string {
	return fmt.Sprintf("DEL_USER_%s", id)
}

// Transaction is an append-only ledger row. Rows are never updated or
// deleted. ProductID is nil for user-affecting entries and may dangle after
// the product itself is removed: the ledger outlives the entity.
type Transaction struct {
	BaseModel
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product   `json:"product,omitempty"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User      `json:"user,omitempty"`

	ChangeType    string          `gorm:"type:varchar(128);not null" json:"change_type"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2)" json:"selling_price"`
}
