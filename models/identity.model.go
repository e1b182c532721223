package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is a struct that represents users federated identity connections
type Identity struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	Provider   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_identities_provider_subject"`
	ProviderID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_identities_provider_subject"`
}

// BeforeCreate assigns the identity ID
func (i *Identity) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
