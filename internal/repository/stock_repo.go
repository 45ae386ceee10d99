package repository

import (
	"context"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock movement types recorded alongside every adjustment.
const (
	MovementSale           = "sale"
	MovementPurchase       = "purchase"
	MovementPurchaseCancel = "purchase_cancel"
	MovementManual         = "manual"
	MovementCancelRestore  = "cancel_restore"
)

// StockRepository is the stock ledger: per-(supplier, article) quantities and
// their audit trail. All mutations go through AdjustStockTx so the
// quantity >= 0 invariant is enforced in a single conditional UPDATE.
type StockRepository interface {
	FindLink(ctx context.Context, supplierID, articleID uuid.UUID) (*model.SupplierArticle, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierArticle, error)
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]model.SupplierArticle, error)
	UpsertLink(ctx context.Context, link *model.SupplierArticle) error

	// EnsureLinkTx creates the supplier-article link if it does not exist yet
	// (first sourcing of an article from a supplier) and updates the
	// purchase price when it does.
	EnsureLinkTx(tx *gorm.DB, supplierID, articleID uuid.UUID, purchasePrice decimal.Decimal) error

	// AdjustStockTx applies stock += delta only when the result stays >= 0,
	// as one atomic conditional UPDATE: of two racing decrements for the last
	// unit, exactly one sees RowsAffected == 1. The losing side gets
	// apierror.ErrInsufficientStock without any mutation. A StockMovement
	// audit row is written in the same transaction.
	AdjustStockTx(tx *gorm.DB, supplierID, articleID uuid.UUID, delta int, movementType string, refFolio *int) error

	ListMovements(ctx context.Context, articleID uuid.UUID, limit int) ([]model.StockMovement, error)

	// Transaction runs fn atomically, for callers whose unit of work is a
	// stock adjustment rather than a sale or purchase.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *stockRepo) FindLink(ctx context.Context, supplierID, articleID uuid.UUID) (*model.SupplierArticle, error) {
	var link model.SupplierArticle
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND article_id = ?", supplierID, articleID).
		First(&link).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &link, nil
}

func (r *stockRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierArticle, error) {
	var links []model.SupplierArticle
	err := r.db.WithContext(ctx).Preload("Article").
		Where("supplier_id = ?", supplierID).
		Find(&links).Error
	return links, err
}

func (r *stockRepo) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]model.SupplierArticle, error) {
	var links []model.SupplierArticle
	err := r.db.WithContext(ctx).Preload("Supplier").
		Where("article_id = ?", articleID).
		Find(&links).Error
	return links, err
}

func (r *stockRepo) UpsertLink(ctx context.Context, link *model.SupplierArticle) error {
	existing, err := r.FindLink(ctx, link.SupplierID, link.ArticleID)
	if err == nil {
		existing.PurchasePrice = link.PurchasePrice
		*link = *existing
		return r.db.WithContext(ctx).Save(existing).Error
	}
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *stockRepo) EnsureLinkTx(tx *gorm.DB, supplierID, articleID uuid.UUID, purchasePrice decimal.Decimal) error {
	res := tx.Model(&model.SupplierArticle{}).
		Where("supplier_id = ? AND article_id = ?", supplierID, articleID).
		Update("purchase_price", purchasePrice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return tx.Create(&model.SupplierArticle{
		SupplierID:    supplierID,
		ArticleID:     articleID,
		PurchasePrice: purchasePrice,
		Stock:         0,
	}).Error
}

func (r *stockRepo) AdjustStockTx(tx *gorm.DB, supplierID, articleID uuid.UUID, delta int, movementType string, refFolio *int) error {
	var before int
	err := tx.Model(&model.SupplierArticle{}).
		Where("supplier_id = ? AND article_id = ?", supplierID, articleID).
		Pluck("stock", &before).Error
	if err != nil {
		return err
	}

	// The guard lives in the WHERE clause, not in Go: check and set happen
	// in one round trip so concurrent decrements cannot both pass.
	res := tx.Model(&model.SupplierArticle{}).
		Where("supplier_id = ? AND article_id = ? AND stock + ? >= 0", supplierID, articleID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "link missing" from "would go negative".
		var count int64
		if err := tx.Model(&model.SupplierArticle{}).
			Where("supplier_id = ? AND article_id = ?", supplierID, articleID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apierror.ErrNotFound
		}
		return apierror.ErrInsufficientStock
	}

	return tx.Create(&model.StockMovement{
		SupplierID:     supplierID,
		ArticleID:      articleID,
		Type:           movementType,
		Quantity:       delta,
		StockBefore:    before,
		StockAfter:     before + delta,
		ReferenceFolio: refFolio,
	}).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, articleID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit < 1 {
		limit = 50
	}
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC").Limit(limit).
		Find(&movements).Error
	return movements, err
}
