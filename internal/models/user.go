package models

import "time"

// Role represents a user's permission level
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// User represents a back-office account allowed to manage the catalog
type User struct {
	Base
	Username            string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	Role                Role       `gorm:"size:10;not null;default:admin" json:"role"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
}
