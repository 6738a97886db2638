package repositories

import (
	"context"

	"gorm.io/gorm"

	"taskdeck/internal/models"
)

// ProviderConfigRepository is the data access surface for provider
// configurations. Transaction scopes a deactivate-then-write sequence to a
// single atomic unit so concurrent upserts cannot leave two rows active.
type ProviderConfigRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ProviderConfig, error)
	Save(ctx context.Context, config *models.ProviderConfig) error
	DeactivateOthers(ctx context.Context, userID, keepID string) error
	Transaction(ctx context.Context, fn func(ProviderConfigRepository) error) error
}

type providerConfigRepository struct {
	db *gorm.DB
}

func NewProviderConfigRepository(db *gorm.DB) ProviderConfigRepository {
	return &providerConfigRepository{db: db}
}

func (r *providerConfigRepository) ListByUser(ctx context.Context, userID string) ([]models.ProviderConfig, error) {
	var configs []models.ProviderConfig
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *providerConfigRepository) Save(ctx context.Context, config *models.ProviderConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *providerConfigRepository) DeactivateOthers(ctx context.Context, userID, keepID string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProviderConfig{}).
		Where("user_id = ? AND is_active = ? AND id <> ?", userID, true, keepID).
		Update("is_active", false).Error
}

func (r *providerConfigRepository) Transaction(ctx context.Context, fn func(ProviderConfigRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&providerConfigRepository{db: tx})
	})
}
