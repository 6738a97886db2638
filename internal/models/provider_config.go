package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderConfig persists one AI provider attachment per user and provider
// history. Credential holds the encrypted blob; plaintext is never stored.
type ProviderConfig struct {
	ID         string  `gorm:"primaryKey;size:36"`
	UserID     string  `gorm:"size:64;not null;index:idx_provider_config_user"`
	Provider   string  `gorm:"size:50;not null"`
	Credential *string `gorm:"size:1024"`
	BaseURL    *string `gorm:"size:512"`
	Model      string  `gorm:"size:255;not null"`
	IsActive   bool    `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *ProviderConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ResolvedProviderConfig is the consumer-facing view of an active
// configuration: defaults substituted, credential decrypted but only its
// presence and masked form serialized.
type ResolvedProviderConfig struct {
	ID               string    `json:"id"`
	Provider         string    `json:"provider"`
	ProviderLabel    string    `json:"providerLabel"`
	Model            string    `json:"model"`
	BaseURL          string    `json:"baseUrl"`
	IsActive         bool      `json:"isActive"`
	HasCredential    bool      `json:"hasCredential"`
	MaskedCredential *string   `json:"maskedCredential"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// APIKey carries the decrypted credential to the probe and model
	// lister inside the process. It is never serialized.
	APIKey string `json:"-"`
}
