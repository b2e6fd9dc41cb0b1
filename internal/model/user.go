package model

import (
	"time"
)

// User represents a registered account
type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password holds the bcrypt hash, never the plaintext
	Password  string    `gorm:"size:100;not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
