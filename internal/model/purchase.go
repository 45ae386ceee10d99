package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a stock intake from a supplier. Structurally a mirror of Sale
// without discount, tender or points.
type Purchase struct {
	Folio      int       `gorm:"primaryKey"`
	Date       time.Time `gorm:"not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time

	Items    []PurchaseItem `gorm:"foreignKey:Folio;constraint:OnDelete:CASCADE"`
	User     *User          `gorm:"foreignKey:UserID"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
}

// PurchaseItem is one intake line persisted under a purchase folio.
type PurchaseItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio     int             `gorm:"not null;index"`
	ArticleID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Article *Article `gorm:"foreignKey:ArticleID"`
}
