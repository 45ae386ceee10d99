package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a completed checkout. Folio comes from the sales_folio_seq
// postgres sequence. The header exclusively owns its items: cancelling a
// sale removes the items in the same transaction.
type Sale struct {
	Folio          int       `gorm:"primaryKey"`
	Date           time.Time `gorm:"not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID     uuid.UUID `gorm:"type:uuid;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Tax            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Points         int             `gorm:"not null;default:0"`
	DiscountTierID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time

	Items    []SaleItem    `gorm:"foreignKey:Folio;constraint:OnDelete:CASCADE"`
	User     *User         `gorm:"foreignKey:UserID"`
	Customer *Customer     `gorm:"foreignKey:CustomerID"`
	Tier     *DiscountTier `gorm:"foreignKey:DiscountTierID"`
}

// SaleItem is one cart line persisted under a sale folio.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio     int             `gorm:"not null;index"`
	ArticleID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Article *Article `gorm:"foreignKey:ArticleID"`
}
