package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminAccount can sign in to the admin surface.
type AdminAccount struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Timestamps
}

// AdminSession is an issued sign-in token.
type AdminSession struct {
	Token     string    `gorm:"primaryKey;type:uuid" json:"token"`
	AdminID   string    `gorm:"index;not null" json:"admin_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
