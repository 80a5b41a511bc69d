package service_test

import (
	"testing"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/testutil"
	"go-stocktrack/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInventoryService(db *gorm.DB) service.InventoryService {
	return service.NewInventoryService(
		repository.NewProductRepo(db),
		repository.NewTransactionRepo(db),
		db,
		nil,
	)
}

func widgetRequest() *service.CreateProductRequest {
	return &service.CreateProductRequest{
		Name:          "Widget",
		SKU:           "W1",
		Category:      "gadgets",
		PurchasePrice: decimal.NewFromFloat(2.0),
		SellingPrice:  decimal.NewFromFloat(5.0),
		Quantity:      10,
	}
}

func ledgerRows(t *testing.T, db *gorm.DB) []model.Transaction {
	t.Helper()
	var rows []model.Transaction
	require.NoError(t, db.Order("created_at ASC").Find(&rows).Error)
	return rows
}

func TestCreateProduct_AppendsLedgerEntry(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	product, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, product.ID)

	rows := ledgerRows(t, db)
	require.Len(t, rows, 1)
	entry := rows[0]
	assert.Equal(t, model.ChangeNewProduct, entry.ChangeType)
	assert.Equal(t, actor.ID, entry.UserID)
	require.NotNil(t, entry.ProductID)
	assert.Equal(t, product.ID, *entry.ProductID)
	assert.Equal(t, 10, entry.Quantity)
	assert.True(t, entry.PurchasePrice.Equal(decimal.NewFromFloat(2.0)))
	assert.True(t, entry.SellingPrice.Equal(decimal.NewFromFloat(5.0)))
}

func TestCreateProduct_DuplicateSKULeavesStoreUnchanged(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	_, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)

	dup := widgetRequest()
	dup.Name = "Widget Clone"
	_, err = svc.CreateProduct(dup, actor)
	assert.ErrorIs(t, err, service.ErrDuplicateSKU)

	products, err := svc.GetAllProducts()
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Len(t, ledgerRows(t, db), 1, "failed create must not append a ledger entry")
}

func TestUpdateProduct_OverwritesFieldsAndLogs(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	product, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(product.ID, &service.UpdateProductRequest{
		Name:          "Widget Mk2",
		Category:      "gadgets",
		PurchasePrice: decimal.NewFromFloat(3.0),
		SellingPrice:  decimal.NewFromFloat(6.5),
		Quantity:      8,
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, "Widget Mk2", updated.Name)
	assert.Equal(t, "W1", updated.SKU, "SKU is immutable on update")
	assert.Equal(t, 8, updated.Quantity)

	rows := ledgerRows(t, db)
	require.Len(t, rows, 2)
	entry := rows[1]
	assert.Equal(t, model.ChangeUpdateProduct, entry.ChangeType)
	assert.Equal(t, 8, entry.Quantity)
	assert.True(t, entry.PurchasePrice.Equal(decimal.NewFromFloat(3.0)), "ledger snapshots the post-update prices")
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	_, err := svc.UpdateProduct(uuid.New(), &service.UpdateProductRequest{
		Name:     "Ghost",
		Quantity: 1,
	}, actor)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	assert.Empty(t, ledgerRows(t, db))
}

func TestDeleteProduct_LedgerOutlivesProduct(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	product, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(product.ID, actor))

	products, err := svc.GetAllProducts()
	require.NoError(t, err)
	assert.Empty(t, products)

	// Both ledger rows survive and still carry the product id
	rows := ledgerRows(t, db)
	require.Len(t, rows, 2)
	assert.Equal(t, model.ChangeDeleteProduct, rows[1].ChangeType)
	for _, entry := range rows {
		require.NotNil(t, entry.ProductID)
		assert.Equal(t, product.ID, *entry.ProductID)
	}

	// The dangling reference resolves to no product on reads
	txRepo := repository.NewTransactionRepo(db)
	recent, err := txRepo.Recent(5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Nil(t, recent[0].Product)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	err := svc.DeleteProduct(uuid.New(), actor)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestUpdateStock_QuantityOnlyWithLedgerEntry(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "bob", model.RoleStaff)
	svc := newInventoryService(db)

	product, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)

	updated, err := svc.UpdateStock(product.ID, 7, actor)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, "Widget", updated.Name)

	rows := ledgerRows(t, db)
	require.Len(t, rows, 2)
	entry := rows[1]
	assert.Equal(t, model.ChangeUpdateStock, entry.ChangeType)
	assert.Equal(t, 7, entry.Quantity)
	assert.Equal(t, actor.ID, entry.UserID)
}

func TestUpdateStock_RejectsNegativeQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "bob", model.RoleStaff)
	svc := newInventoryService(db)

	product, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)

	_, err = svc.UpdateStock(product.ID, -3, actor)
	assert.ErrorIs(t, err, validator.ErrValidation)

	reloaded, err := repository.NewProductRepo(db).FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Quantity)
}

func TestDeleteProduct_FreesSKUForReuse(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newInventoryService(db)

	original, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(original.ID, actor))

	// The SKU belongs to nobody once the product is gone
	replacement, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, replacement.ID)

	products, err := svc.GetAllProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, replacement.ID, products[0].ID)

	// Old history still points at the old id, the new entry at the new one
	var oldRefs, newRefs int
	for _, entry := range ledgerRows(t, db) {
		require.NotNil(t, entry.ProductID)
		switch *entry.ProductID {
		case original.ID:
			oldRefs++
		case replacement.ID:
			newRefs++
		}
	}
	assert.Equal(t, 2, oldRefs)
	assert.Equal(t, 1, newRefs)
}

func TestUpdateStock_StorageFailureIsNotMissingProduct(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := testutil.NewUser(t, db, "bob", model.RoleStaff)
	svc := newInventoryService(db)

	product, err := svc.CreateProduct(widgetRequest(), actor)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.UpdateStock(product.ID, 3, actor)
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrProductNotFound, "a storage failure must not read as a missing product")
}
