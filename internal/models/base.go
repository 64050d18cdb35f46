package models

import "time"

// Base contains common columns for all tables
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All returns every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{&User{}, &Cat{}, &Photo{}, &AuditLog{}}
}
