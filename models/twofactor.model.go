package models

import "github.com/google/uuid"

// TwoFactorAuth is a struct that contains TOTP based 2 step verification details
type TwoFactorAuth struct {
	UserID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Secret         string    `gorm:"not null"`
	AuthURL        string    `gorm:"not null"`
	RecoveryPhrase string    `gorm:"default:null"`
	Enabled        bool      `gorm:"default:false"`
}
