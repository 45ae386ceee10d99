package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSaleRepo struct {
	sales map[int]*model.Sale
}

func (r *fakeSaleRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *fakeSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.sales[s.Folio] = s
	return nil
}

func (r *fakeSaleRepo) FindByFolio(_ context.Context, folio int) (*model.Sale, error) {
	s, ok := r.sales[folio]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) NextFolio(_ context.Context, _ *gorm.DB) (int, error) {
	return len(r.sales) + 1, nil
}

func (r *fakeSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	return nil, 0, nil
}

func (r *fakeSaleRepo) DeleteTx(_ *gorm.DB, folio int) error {
	delete(r.sales, folio)
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleSale(folio int) *model.Sale {
	art := &model.Article{ID: uuid.New(), Description: "Paracetamol 500mg"}
	return &model.Sale{
		Folio:      folio,
		Date:       time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC),
		CustomerID: uuid.New(),
		SupplierID: uuid.New(),
		Subtotal:   dec("100.00"),
		Tax:        dec("16.00"),
		Total:      dec("116.00"),
		Points:     1000,
		Customer:   &model.Customer{Name: "Ana Torres"},
		Items: []model.SaleItem{
			{Folio: folio, ArticleID: art.ID, Quantity: 2, UnitPrice: dec("50.00"), Article: art},
		},
	}
}

func TestReceiptWorkerGeneratesPDF(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeSaleRepo{sales: map[int]*model.Sale{7: sampleSale(7)}}
	w := NewReceiptWorker(repo, nil, dir)

	payload, err := json.Marshal(ReceiptJobPayload{Folio: 7})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), payload))

	data, err := os.ReadFile(filepath.Join(dir, "receipt_7.pdf"))
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF", "not a pdf file")
}

func TestReceiptWorkerUnknownFolioRetries(t *testing.T) {
	repo := &fakeSaleRepo{sales: map[int]*model.Sale{}}
	w := NewReceiptWorker(repo, nil, t.TempDir())

	payload, err := json.Marshal(ReceiptJobPayload{Folio: 99})
	require.NoError(t, err)

	err = w.Process(context.Background(), payload)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

// A payload that cannot be decoded will never succeed, so it must not be
// retried: Process swallows it.
func TestReceiptWorkerMalformedPayloadNotRetried(t *testing.T) {
	w := NewReceiptWorker(&fakeSaleRepo{sales: map[int]*model.Sale{}}, nil, t.TempDir())
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{broken`)))
}

func TestReceiptWorkerType(t *testing.T) {
	w := NewReceiptWorker(&fakeSaleRepo{}, nil, t.TempDir())
	assert.Equal(t, JobTypeReceipt, w.Type())
}
