package models

import "time"

// Account roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Account is a registered portal user.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:80;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:student" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsKnownRole reports whether role belongs to the closed role set.
func IsKnownRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}

// RefreshSession marks a refresh token id as redeemable until ExpiresAt.
type RefreshSession struct {
	ID        uint      `gorm:"primaryKey"`
	TokenID   string    `gorm:"size:64;uniqueIndex;not null"`
	AccountID uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
