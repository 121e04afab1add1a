package entity

import "time"

// AuthToken records a signed token issued at login or registration.
// Several tokens may be live for one user; rows are never updated or deleted.
type AuthToken struct {
	ID        string    `gorm:"column:token_id;primaryKey;size:36"`
	UserID    string    `gorm:"index;size:36;not null"`
	Token     string    `gorm:"column:auth_token;type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`

	// User is only declared for the foreign key; it is never loaded.
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

// TableName returns the table name for GORM.
func (AuthToken) TableName() string {
	return "auth_tokens"
}
