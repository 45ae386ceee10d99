package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountTier maps a loyalty-point band [MinPoints, MaxPoints] (inclusive)
// to a percentage discount. Admin-managed static lookup table.
type DiscountTier struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MinPoints  int             `gorm:"not null"`
	MaxPoints  int             `gorm:"not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether points falls inside the tier's inclusive band.
func (t *DiscountTier) Covers(points int) bool {
	return points >= t.MinPoints && points <= t.MaxPoints
}
