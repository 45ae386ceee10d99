package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a registered buyer accumulating loyalty points.
// UserID references the staff member who registered the customer.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"index;not null"`
	Phone     string    `gorm:"type:varchar(10);not null"`
	RFC       string    `gorm:"column:rfc;type:varchar(13);not null"`
	Points    int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User *User `gorm:"foreignKey:UserID"`
}
