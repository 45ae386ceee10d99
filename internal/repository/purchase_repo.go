package repository

import (
	"context"

	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByFolio(ctx context.Context, folio int) (*model.Purchase, error)
	NextFolio(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	DeleteTx(tx *gorm.DB, folio int) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *purchaseRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByFolio(ctx context.Context, folio int) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items.Article").Preload("Supplier").
		First(&p, "folio = ?", folio).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *purchaseRepo) NextFolio(ctx context.Context, tx *gorm.DB) (int, error) {
	var folio int
	err := tx.WithContext(ctx).Raw("SELECT nextval('purchases_folio_seq')").Scan(&folio).Error
	return folio, err
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{})
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
	err := q.Preload("Items.Article").Preload("Supplier").
		Order("folio DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) DeleteTx(tx *gorm.DB, folio int) error {
	if err := tx.Delete(&model.PurchaseItem{}, "folio = ?", folio).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Purchase{}, "folio = ?", folio).Error
}
