package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the user in the relational database
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	Name             string    `gorm:"type:varchar(150);not null"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password         string    `gorm:"not null"`
	Role             string    `gorm:"type:varchar(20);not null;default:user"`
	IsEmailVerified  bool      `gorm:"default:false"`
	IsWalletVerified bool      `gorm:"default:false"`
	WalletAddress    *string   `gorm:"type:varchar(56)"`

	TwoFactorAuth *TwoFactorAuth `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Identities    []Identity     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the user ID so that the schema does not depend on a
// database side uuid extension
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
