package service

import (
	"errors"
	"fmt"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/ws"
	"go-stocktrack/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDuplicateSKU    = errors.New("a product with this SKU already exists")
	ErrProductNotFound = errors.New("product not found")
)

type InventoryService interface {
	CreateProduct(req *CreateProductRequest, actor *model.User) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest, actor *model.User) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor *model.User) error
	UpdateStock(id uuid.UUID, quantity int, actor *model.User) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
}

type CreateProductRequest struct {
	Name          string          `validate:"required"`
	SKU           string          `validate:"required"`
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Quantity      int `validate:"gte=0"`
}

// UpdateProductRequest overwrites every listed field; the SKU is immutable
// once assigned.
type UpdateProductRequest struct {
	Name          string `validate:"required"`
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Quantity      int `validate:"gte=0"`
}

type inventoryService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	db          *gorm.DB
	hub         *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		txRepo:      tRepo,
		db:          db,
		hub:         hub,
	}
}

func (s *inventoryService) CreateProduct(req *CreateProductRequest, actor *model.User) (*model.Product, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	// SKU uniqueness (business rule; backed by the unique index)
	if _, err := s.productRepo.FindBySKU(req.SKU); err == nil {
		return nil, ErrDuplicateSKU
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product := &model.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Quantity:      req.Quantity,
	}

	// Product insert and its NEW_PROD ledger entry share one commit scope
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		return s.txRepo.Append(tx, ledgerEntry(model.ChangeNewProduct, product, actor))
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.ChangeNewProduct, product, actor)
	return product, nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest, actor *model.User) (*model.Product, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		product.Name = req.Name
		product.Category = req.Category
		product.PurchasePrice = req.PurchasePrice
		product.SellingPrice = req.SellingPrice
		product.Quantity = req.Quantity

		if err := s.productRepo.Save(tx, &product); err != nil {
			return err
		}

		updated = &product
		return s.txRepo.Append(tx, ledgerEntry(model.ChangeUpdateProduct, &product, actor))
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.ChangeUpdateProduct, updated, actor)
	return updated, nil
}

// DeleteProduct removes the product but leaves its ledger history in place:
// the DEL_PROD entry snapshots the final prices and quantity, and older
// entries keep the now-dangling product id.
func (s *inventoryService) DeleteProduct(id uuid.UUID, actor *model.User) error {
	var deleted *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if err := s.txRepo.Append(tx, ledgerEntry(model.ChangeDeleteProduct, &product, actor)); err != nil {
			return err
		}

		deleted = &product
		return s.productRepo.Delete(tx, product.ID)
	})
	if err != nil {
		return err
	}

	s.publish(model.ChangeDeleteProduct, deleted, actor)
	return nil
}

func (s *inventoryService) UpdateStock(id uuid.UUID, quantity int, actor *model.User) (*model.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", validator.ErrValidation)
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if err := s.productRepo.UpdateQuantity(tx, product.ID, quantity); err != nil {
			return err
		}
		product.Quantity = quantity

		updated = &product
		return s.txRepo.Append(tx, ledgerEntry(model.ChangeUpdateStock, &product, actor))
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.ChangeUpdateStock, updated, actor)
	return updated, nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

// ledgerEntry snapshots the product state into an append-only row
func ledgerEntry(changeType string, product *model.Product, actor *model.User) *model.Transaction {
	productID := product.ID
	return &model.Transaction{
		ProductID:     &productID,
		UserID:        actor.ID,
		ChangeType:    changeType,
		Quantity:      product.Quantity,
		PurchasePrice: product.PurchasePrice,
		SellingPrice:  product.SellingPrice,
	}
}

func (s *inventoryService) publish(changeType string, product *model.Product, actor *model.User) {
	s.hub.Publish(ws.LedgerEvent{
		ChangeType: changeType,
		Actor:      actor.Username,
		ProductID:  product.ID.String(),
		Quantity:   product.Quantity,
		Detail:     fmt.Sprintf("%s %s '%s' (%s)", actor.Username, changeVerb(changeType), product.Name, product.SKU),
	})
}

func changeVerb(changeType string) string {
	switch changeType {
	case model.ChangeNewProduct:
		return "created"
	case model.ChangeUpdateProduct:
		return "updated"
	case model.ChangeDeleteProduct:
		return "deleted"
	case model.ChangeUpdateStock:
		return "restocked"
	default:
		return "touched"
	}
}
