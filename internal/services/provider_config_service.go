package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"taskdeck/internal/models"
	"taskdeck/internal/providers"
	"taskdeck/internal/repositories"
	"taskdeck/internal/secrets"
)

const (
	maxCredentialLength = 512
	maxBaseURLLength    = 512
	maxModelLength      = 255
)

// ConnectionTestResult reports a successful probe against the active
// configuration. Model is the identifier the provider resolved.
type ConnectionTestResult struct {
	Success       bool   `json:"success"`
	Provider      string `json:"provider"`
	ProviderLabel string `json:"providerLabel"`
	Model         string `json:"model"`
}

// ModelListResult carries the models the active credential can access.
type ModelListResult struct {
	Provider      string   `json:"provider"`
	ProviderLabel string   `json:"providerLabel"`
	Model         string   `json:"model"`
	Models        []string `json:"models"`
}

// ProviderDefaults suggests initial settings when a user has no
// configuration yet, plus the full catalog for the UI dropdown.
type ProviderDefaults struct {
	Provider  string           `json:"provider"`
	Model     string           `json:"model"`
	BaseURL   string           `json:"baseUrl"`
	Providers []providers.Info `json:"providers"`
}

type ProviderConfigService interface {
	GetActive(ctx context.Context, userID string) (*models.ResolvedProviderConfig, error)
	UpsertActive(ctx context.Context, userID string, patch ProviderConfigPatch) (*models.ResolvedProviderConfig, error)
	TestConnection(ctx context.Context, userID string) (*ConnectionTestResult, error)
	ListProviderModels(ctx context.Context, userID string) (*ModelListResult, error)
	CheckLocalService(ctx context.Context, url string) providers.HealthResult
	Defaults() ProviderDefaults
}

type providerConfigService struct {
	repo    repositories.ProviderConfigRepository
	cipher  *secrets.Cipher
	timeout time.Duration
}

// NewProviderConfigService wires the store against the credential cipher. A
// zero timeout falls back to the provider client default.
func NewProviderConfigService(repo repositories.ProviderConfigRepository, cipher *secrets.Cipher, timeout time.Duration) ProviderConfigService {
	return &providerConfigService{repo: repo, cipher: cipher, timeout: timeout}
}

func (s *providerConfigService) GetActive(ctx context.Context, userID string) (*models.ResolvedProviderConfig, error) {
	if userID == "" {
		return nil, validationErr("userId", "user id is required")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load provider configs: %w", err)
	}
	for i := range rows {
		if rows[i].IsActive {
			return s.resolve(&rows[i])
		}
	}
	return nil, nil
}

func (s *providerConfigService) UpsertActive(ctx context.Context, userID string, patch ProviderConfigPatch) (*models.ResolvedProviderConfig, error) {
	if userID == "" {
		return nil, validationErr("userId", "user id is required")
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var written *models.ProviderConfig
	err := s.repo.Transaction(ctx, func(tx repositories.ProviderConfigRepository) error {
		rows, err := tx.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load provider configs: %w", err)
		}
		existing := pickCurrent(rows)

		targetProvider := providers.Default()
		if v, ok := patch.Provider.Value(); ok {
			targetProvider = v
		} else if existing != nil {
			targetProvider = existing.Provider
		}

		providerChanged := existing != nil && existing.Provider != targetProvider

		targetModel := ""
		if v, ok := patch.Model.Value(); ok {
			targetModel = strings.TrimSpace(v)
		}
		if targetModel == "" && existing != nil {
			targetModel = strings.TrimSpace(existing.Model)
		}
		if targetModel == "" {
			targetModel = providers.DefaultModel(targetProvider)
		}

		var targetBaseURL *string
		if patch.BaseURL.Present() {
			var raw *string
			if v, ok := patch.BaseURL.Value(); ok {
				raw = &v
			}
			targetBaseURL, err = providers.NormalizeBaseURL(raw)
		} else if existing != nil {
			targetBaseURL, err = providers.NormalizeBaseURL(existing.BaseURL)
		}
		if err != nil {
			return validationErr("baseUrl", "%s", err.Error())
		}

		var storedCredential *string
		switch {
		case patch.Credential.Present():
			if v, ok := patch.Credential.Value(); ok && v != "" {
				encrypted, encErr := s.cipher.Encrypt(v)
				if encErr != nil {
					return fmt.Errorf("encrypt credential: %w", encErr)
				}
				storedCredential = &encrypted
			}
		case providerChanged:
			// A credential for one vendor is never reused against
			// another vendor's endpoint.
			storedCredential = nil
		case existing != nil:
			storedCredential = existing.Credential
		}

		targetActive := true
		if v, ok := patch.IsActive.Value(); ok {
			targetActive = v
		}

		row := existing
		if row == nil {
			row = &models.ProviderConfig{UserID: userID}
		}
		row.Provider = targetProvider
		row.Model = targetModel
		row.BaseURL = targetBaseURL
		row.Credential = storedCredential
		row.IsActive = targetActive

		if targetActive {
			if err := tx.DeactivateOthers(ctx, userID, row.ID); err != nil {
				return fmt.Errorf("deactivate previous configs: %w", err)
			}
		}
		if err := tx.Save(ctx, row); err != nil {
			return fmt.Errorf("save provider config: %w", err)
		}
		written = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userId":   userID,
		"provider": written.Provider,
		"active":   written.IsActive,
	}).Info("provider configuration saved")

	return s.resolve(written)
}

func (s *providerConfigService) TestConnection(ctx context.Context, userID string) (*ConnectionTestResult, error) {
	cfg, client, err := s.activeClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := client.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnectionTestResult{
		Success:       true,
		Provider:      cfg.Provider,
		ProviderLabel: cfg.ProviderLabel,
		Model:         result.Model,
	}, nil
}

func (s *providerConfigService) ListProviderModels(ctx context.Context, userID string) (*ModelListResult, error) {
	cfg, client, err := s.activeClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return &ModelListResult{
		Provider:      cfg.Provider,
		ProviderLabel: cfg.ProviderLabel,
		Model:         cfg.Model,
		Models:        ids,
	}, nil
}

func (s *providerConfigService) CheckLocalService(ctx context.Context, url string) providers.HealthResult {
	return providers.Health(ctx, url)
}

func (s *providerConfigService) Defaults() ProviderDefaults {
	first := providers.Default()
	return ProviderDefaults{
		Provider:  first,
		Model:     providers.DefaultModel(first),
		BaseURL:   providers.DefaultBaseURL(first),
		Providers: providers.All(),
	}
}

func (s *providerConfigService) activeClient(ctx context.Context, userID string) (*models.ResolvedProviderConfig, providers.Client, error) {
	cfg, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil {
		return nil, nil, ErrNotConfigured
	}

	client, err := providers.NewClient(cfg.Provider, cfg.BaseURL, cfg.APIKey, cfg.Model, s.timeout)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// resolve fills defaults and decrypts the credential. A blob that fails to
// decrypt surfaces as ErrCorrupted, never as a missing credential.
func (s *providerConfigService) resolve(row *models.ProviderConfig) (*models.ResolvedProviderConfig, error) {
	resolved := &models.ResolvedProviderConfig{
		ID:            row.ID,
		Provider:      row.Provider,
		ProviderLabel: providers.Label(row.Provider),
		Model:         strings.TrimSpace(row.Model),
		BaseURL:       providers.DefaultBaseURL(row.Provider),
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if resolved.Model == "" {
		resolved.Model = providers.DefaultModel(row.Provider)
	}
	if row.BaseURL != nil && *row.BaseURL != "" {
		resolved.BaseURL = *row.BaseURL
	}

	if row.Credential != nil {
		plaintext, err := s.cipher.Decrypt(*row.Credential)
		if err != nil {
			log.WithField("configId", row.ID).Error("credential failed to decrypt")
			return nil, fmt.Errorf("%w: config %s: %s", ErrCorrupted, row.ID, err.Error())
		}
		resolved.APIKey = plaintext
		resolved.HasCredential = true
		resolved.MaskedCredential = secrets.Mask(&plaintext)
	}
	return resolved, nil
}

// pickCurrent returns the active row, falling back to the most recently
// updated row when none is flagged. The fallback repairs a state the
// single-active invariant should make unreachable.
func pickCurrent(rows []models.ProviderConfig) *models.ProviderConfig {
	for i := range rows {
		if rows[i].IsActive {
			return &rows[i]
		}
	}
	if len(rows) > 0 {
		return &rows[0]
	}
	return nil
}

func validatePatch(patch ProviderConfigPatch) error {
	if v, ok := patch.Provider.Value(); ok && !providers.IsSupported(v) {
		supported := make([]string, 0, len(providers.All()))
		for _, p := range providers.All() {
			supported = append(supported, p.ID)
		}
		return validationErr("provider", "unsupported provider %q, expected one of: %s", v, strings.Join(supported, ", "))
	}
	if patch.Provider.Present() {
		if _, ok := patch.Provider.Value(); !ok {
			return validationErr("provider", "provider cannot be cleared")
		}
	}
	if v, ok := patch.Credential.Value(); ok && len(v) > maxCredentialLength {
		return validationErr("credential", "credential exceeds %d characters", maxCredentialLength)
	}
	if v, ok := patch.BaseURL.Value(); ok && len(v) > maxBaseURLLength {
		return validationErr("baseUrl", "base URL exceeds %d characters", maxBaseURLLength)
	}
	if v, ok := patch.Model.Value(); ok && len(v) > maxModelLength {
		return validationErr("model", "model exceeds %d characters", maxModelLength)
	}
	if v, ok := patch.BaseURL.Value(); ok {
		if _, err := providers.NormalizeBaseURL(&v); err != nil {
			return validationErr("baseUrl", "%s", err.Error())
		}
	}
	return nil
}
