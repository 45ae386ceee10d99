package service

import (
	"context"
	"testing"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveSupplierReq(name string) dto.SaveSupplierRequest {
	return dto.SaveSupplierRequest{
		Name:    name,
		Company: "Distribuidora Norte SA",
		Phone:   "5511223344",
		Address: "Av. Insurgentes 100",
	}
}

func TestSupplierLinkArticleUpsert(t *testing.T) {
	suppliers := newStubSupplierRepo()
	stock := newStubStockRepo()
	svc := NewSupplierService(suppliers, stock)

	supplier := &model.Supplier{ID: uuid.New(), Name: "Norte"}
	require.NoError(t, suppliers.Create(context.Background(), supplier))
	articleID := uuid.New()

	link, err := svc.LinkArticle(context.Background(), supplier.ID, articleID, dto.LinkArticleRequest{PurchasePrice: dec("12.00")})
	require.NoError(t, err)
	assert.True(t, link.PurchasePrice.Equal(dec("12.00")))
	assert.Equal(t, 0, link.Stock)

	// relinking reprices without touching stock
	require.NoError(t, stock.AdjustStockTx(nil, supplier.ID, articleID, 8, repository.MovementManual, nil))
	link, err = svc.LinkArticle(context.Background(), supplier.ID, articleID, dto.LinkArticleRequest{PurchasePrice: dec("14.50")})
	require.NoError(t, err)
	assert.True(t, link.PurchasePrice.Equal(dec("14.50")))
	assert.Equal(t, 8, link.Stock)
}

func TestSupplierLinkArticleUnknownSupplier(t *testing.T) {
	svc := NewSupplierService(newStubSupplierRepo(), newStubStockRepo())
	_, err := svc.LinkArticle(context.Background(), uuid.New(), uuid.New(), dto.LinkArticleRequest{PurchasePrice: dec("10.00")})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestSupplierAdjustStockManualMovement(t *testing.T) {
	suppliers := newStubSupplierRepo()
	stock := newStubStockRepo()
	svc := NewSupplierService(suppliers, stock)

	supplierID := uuid.New()
	articleID := uuid.New()
	stock.seed(supplierID, articleID, 5)

	link, err := svc.AdjustStock(context.Background(), supplierID, articleID, dto.AdjustStockRequest{Delta: -3})
	require.NoError(t, err)
	assert.Equal(t, 2, link.Stock)

	require.Len(t, stock.movements, 1)
	assert.Equal(t, repository.MovementManual, stock.movements[0].Type)
	assert.Nil(t, stock.movements[0].ReferenceFolio)
}

func TestSupplierAdjustStockNeverGoesNegative(t *testing.T) {
	stock := newStubStockRepo()
	svc := NewSupplierService(newStubSupplierRepo(), stock)

	supplierID := uuid.New()
	articleID := uuid.New()
	stock.seed(supplierID, articleID, 2)

	_, err := svc.AdjustStock(context.Background(), supplierID, articleID, dto.AdjustStockRequest{Delta: -5})
	assert.ErrorIs(t, err, apierror.ErrInsufficientStock)
	assert.Equal(t, 2, stock.stock(supplierID, articleID))
}

func TestSupplierDeleteBlockedByDependents(t *testing.T) {
	suppliers := newStubSupplierRepo()
	svc := NewSupplierService(suppliers, newStubStockRepo())

	created, err := svc.Create(context.Background(), saveSupplierReq("Norte"))
	require.NoError(t, err)
	id := mustUUID(t, created.ID)
	suppliers.withDependents[id] = true

	err = svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, apierror.ErrReferentialConflict)
}

func TestSupplierCatalogListsLinks(t *testing.T) {
	suppliers := newStubSupplierRepo()
	stock := newStubStockRepo()
	svc := NewSupplierService(suppliers, stock)

	supplierID := uuid.New()
	stock.seed(supplierID, uuid.New(), 3)
	stock.seed(supplierID, uuid.New(), 7)
	stock.seed(uuid.New(), uuid.New(), 1)

	catalog, err := svc.Catalog(context.Background(), supplierID)
	require.NoError(t, err)
	assert.Len(t, catalog, 2)
}
