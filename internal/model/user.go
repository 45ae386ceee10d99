package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles accepted for User.Role.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// User stores system operators with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserName     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleCashier || r == RoleManager
}
