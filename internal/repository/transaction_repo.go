package repository

import (
	"time"

	"go-stocktrack/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository is the append-only ledger. Rows are inserted inside
// the caller's commit scope and never updated or deleted.
type TransactionRepository interface {
	Append(tx *gorm.DB, entry *model.Transaction) error
	Recent(limit int) ([]model.Transaction, error)
	CountSince(t time.Time) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Append(tx *gorm.DB, entry *model.Transaction) error {
	return tx.Create(entry).Error
}

// Recent returns the newest entries first. Product may be nil when the
// referenced product has since been deleted; the raw product_id is kept.
func (r *transactionRepo) Recent(limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) CountSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}
