// Package models contains data models for the auction service.
package models

import "time"

// User represents a registered account in the marketplace.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}
