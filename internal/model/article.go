package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Article is a sellable item. The same article may be sourced from several
// suppliers; per-supplier cost and stock live on SupplierArticle.
type Article struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description string          `gorm:"index;not null"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SupplierArticle links an article to a supplier that sources it.
// Stock here is the single source of truth for availability: the sale and
// purchase workflows are its only mutators, always through conditional
// updates that keep stock >= 0.
type SupplierArticle struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_supplier_article"`
	ArticleID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_supplier_article"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock         int             `gorm:"not null;default:0;check:stock >= 0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
	Article  *Article  `gorm:"foreignKey:ArticleID"`
}

func (SupplierArticle) TableName() string { return "supplier_articles" }
