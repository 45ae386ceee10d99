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

type purchaseFixture struct {
	svc       PurchaseService
	purchases *stubPurchaseRepo
	suppliers *stubSupplierRepo
	articles  *stubArticleRepo
	stock     *stubStockRepo

	supplier *model.Supplier
	article  *model.Article
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	f := &purchaseFixture{
		purchases: newStubPurchaseRepo(),
		suppliers: newStubSupplierRepo(),
		articles:  newStubArticleRepo(),
		stock:     newStubStockRepo(),
	}
	f.purchases.joinTx(f.stock)
	f.supplier = &model.Supplier{ID: uuid.New(), Name: "Distribuidora Norte"}
	require.NoError(t, f.suppliers.Create(context.Background(), f.supplier))
	f.article = testArticle("Omeprazol 20mg", "65.00")
	require.NoError(t, f.articles.Create(context.Background(), f.article))

	f.svc = NewPurchaseService(f.purchases, f.suppliers, f.articles, f.stock)
	return f
}

func (f *purchaseFixture) registerReq(quantity int, unitCost string) dto.PurchaseRequest {
	return dto.PurchaseRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []dto.PurchaseLineRequest{
			{ArticleID: f.article.ID.String(), Quantity: quantity, UnitCost: dec(unitCost)},
		},
	}
}

func TestPurchaseRegisterCreatesLinkAndStock(t *testing.T) {
	f := newPurchaseFixture(t)

	resp, err := f.svc.Register(context.Background(), uuid.New(), f.registerReq(10, "32.50"))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Folio)
	assert.Equal(t, "Distribuidora Norte", resp.SupplierName)
	assert.True(t, resp.Total.Equal(dec("325.00")), "total = %s", resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Omeprazol 20mg", resp.Items[0].Description)

	// first purchase created the supplier-article link and stocked it
	link, err := f.stock.FindLink(context.Background(), f.supplier.ID, f.article.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, link.Stock)
	assert.True(t, link.PurchasePrice.Equal(dec("32.50")))

	require.Len(t, f.stock.movements, 1)
	m := f.stock.movements[0]
	assert.Equal(t, repository.MovementPurchase, m.Type)
	assert.Equal(t, 10, m.Quantity)
	require.NotNil(t, m.ReferenceFolio)
	assert.Equal(t, 1, *m.ReferenceFolio)
}

func TestPurchaseRegisterAccumulatesExistingStock(t *testing.T) {
	f := newPurchaseFixture(t)
	f.stock.seed(f.supplier.ID, f.article.ID, 4)

	_, err := f.svc.Register(context.Background(), uuid.New(), f.registerReq(6, "30.00"))
	require.NoError(t, err)

	assert.Equal(t, 10, f.stock.stock(f.supplier.ID, f.article.ID))
}

func TestPurchaseRegisterUnknownSupplier(t *testing.T) {
	f := newPurchaseFixture(t)
	req := f.registerReq(5, "30.00")
	req.SupplierID = uuid.NewString()

	_, err := f.svc.Register(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestPurchaseCancelBacksStockOut(t *testing.T) {
	f := newPurchaseFixture(t)
	resp, err := f.svc.Register(context.Background(), uuid.New(), f.registerReq(10, "30.00"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), resp.Folio))

	assert.Equal(t, 0, f.stock.stock(f.supplier.ID, f.article.ID))
	_, err = f.svc.Get(context.Background(), resp.Folio)
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	// the backout is audited under its own movement type
	require.Len(t, f.stock.movements, 2)
	assert.Equal(t, repository.MovementPurchaseCancel, f.stock.movements[1].Type)
	assert.Equal(t, -10, f.stock.movements[1].Quantity)
}

// Cancelling after some of the received units were sold would drive the
// ledger negative, so the whole cancellation is rejected.
func TestPurchaseCancelFailsWhenUnitsAlreadySold(t *testing.T) {
	f := newPurchaseFixture(t)
	resp, err := f.svc.Register(context.Background(), uuid.New(), f.registerReq(10, "30.00"))
	require.NoError(t, err)

	// simulate 7 units leaving through sales
	require.NoError(t, f.stock.AdjustStockTx(nil, f.supplier.ID, f.article.ID, -7, repository.MovementSale, nil))

	err = f.svc.Cancel(context.Background(), resp.Folio)
	assert.ErrorIs(t, err, apierror.ErrInsufficientStock)

	// the purchase survives and the remaining stock is untouched
	_, err = f.svc.Get(context.Background(), resp.Folio)
	assert.NoError(t, err)
	assert.Equal(t, 3, f.stock.stock(f.supplier.ID, f.article.ID))
}

func TestPurchaseListDefaultsPagination(t *testing.T) {
	f := newPurchaseFixture(t)
	_, err := f.svc.Register(context.Background(), uuid.New(), f.registerReq(5, "30.00"))
	require.NoError(t, err)

	list, err := f.svc.List(context.Background(), dto.PurchaseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 50, list.Limit)
	assert.Equal(t, int64(1), list.Total)
}
