package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a model that represents the refresh token state of login sessions,
// the primary key is the UUID embedded in the refresh token
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	LoginAt   time.Time `gorm:"not null"`
	IPAddress string    `gorm:"default:null"`
	ExpiresAt int64     `gorm:"not null"`
}
