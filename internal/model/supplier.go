package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor with commercial data.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	Company   string    `gorm:"not null"`
	Phone     string    `gorm:"not null"`
	Address   string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Articles []SupplierArticle `gorm:"foreignKey:SupplierID"`
}
