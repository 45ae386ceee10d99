package repository

import (
	"context"

	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx inserts a sale header with its items inside an open transaction.
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByFolio(ctx context.Context, folio int) (*model.Sale, error)
	NextFolio(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// DeleteTx removes items first, then the header — no orphans.
	DeleteTx(tx *gorm.DB, folio int) error
	// Transaction runs fn atomically; any error rolls every write back.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByFolio(ctx context.Context, folio int) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Article").Preload("Customer").Preload("Tier").
		First(&s, "folio = ?", folio).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

func (r *saleRepo) NextFolio(ctx context.Context, tx *gorm.DB) (int, error) {
	// Postgres sequence keeps folios gapless enough and strictly increasing
	// even across concurrent checkouts.
	var folio int
	err := tx.WithContext(ctx).Raw("SELECT nextval('sales_folio_seq')").Scan(&folio).Error
	return folio, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Article").Preload("Customer").
		Order("folio DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, folio int) error {
	if err := tx.Delete(&model.SaleItem{}, "folio = ?", folio).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Sale{}, "folio = ?", folio).Error
}
