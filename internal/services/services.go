package services

import (
	"time"

	"gorm.io/gorm"

	"taskdeck/internal/repositories"
	"taskdeck/internal/secrets"
)

// Services aggregates all domain services backed by the database.
type Services struct {
	ProviderConfigs ProviderConfigService
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB, cipher *secrets.Cipher, probeTimeout time.Duration) *Services {
	providerConfigRepo := repositories.NewProviderConfigRepository(db)

	return &Services{
		ProviderConfigs: NewProviderConfigService(providerConfigRepo, cipher, probeTimeout),
	}
}
