package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every change to a supplier-article stock quantity.
// Created automatically by the sale and purchase workflows and by manual
// adjustments.
type StockMovement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ArticleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type          string    `gorm:"not null"` // "sale" | "purchase" | "manual" | "cancel_restore"
	Quantity      int       `gorm:"not null"` // positive = intake, negative = outflow
	StockBefore   int       `gorm:"not null"`
	StockAfter    int       `gorm:"not null"`
	ReferenceFolio *int
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
