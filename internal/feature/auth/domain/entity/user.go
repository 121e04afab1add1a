// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is an opaque unique identifier (UUID v4).
	ID string `gorm:"column:user_id;primaryKey;size:36"`

	// Email is stored in normalized form (lowercased, trimmed) and is unique.
	Email string `gorm:"type:text;uniqueIndex;not null"`

	// PasswordHash holds the credential exactly as submitted at registration.
	// It is compared verbatim at login and is never serialized in responses.
	PasswordHash string `gorm:"column:password_hash;type:text;not null"`

	// Name is the display name.
	Name string `gorm:"type:text;not null"`

	// CreatedAt is the registration time (UTC).
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
