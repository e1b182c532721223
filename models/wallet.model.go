package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletVerification represents a single proof of ownership attempt binding a
// Stellar address to a user
type WalletVerification struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID `gorm:"type:uuid;index;not null"`
	WalletAddress     string    `gorm:"type:varchar(56);not null"`
	VerificationToken string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	VerificationCode  string    `gorm:"type:varchar(6);not null"`
	Status            string    `gorm:"type:varchar(10);not null;default:pending"`
	ExpiresAt         time.Time `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// BeforeCreate assigns the record ID
func (w *WalletVerification) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
