package service

import (
	"context"
	"strings"

	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/repository"
)

// Credential sources reported by SettingsService.APIKeyStatus.
const (
	CredentialSourceStored  = "stored"
	CredentialSourceDefault = "default"
	CredentialSourceNone    = "none"
)

// SettingsService stores the user-supplied AI credential. It is also the
// credential source of the AI gateway: the stored key wins over the configured default.
type SettingsService interface {
	SetAPIKey(ctx context.Context, key string) error
	ClearAPIKey(ctx context.Context) error
	// APIKey returns the effective key, or "" when none is configured.
	APIKey(ctx context.Context) (string, error)
	// APIKeyStatus reports where the effective key comes from, without revealing it.
	APIKeyStatus(ctx context.Context) (source string, err error)
}

type settingsService struct {
	store      repository.KeyValueStore
	defaultKey string
}

// NewSettingsService creates a settings service over the durable store.
func NewSettingsService(store repository.KeyValueStore, defaultKey string) SettingsService {
	return &settingsService{store: store, defaultKey: strings.TrimSpace(defaultKey)}
}

func (s *settingsService) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errs.Validation(map[string]string{"apiKey": "API key must not be empty"})
	}
	return s.store.Set(ctx, repository.KeyAPIKey, []byte(key))
}

func (s *settingsService) ClearAPIKey(ctx context.Context) error {
	return s.store.Delete(ctx, repository.KeyAPIKey)
}

func (s *settingsService) stored(ctx context.Context) (string, error) {
	raw, found, err := s.store.Get(ctx, repository.KeyAPIKey)
	if err != nil || !found {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *settingsService) APIKey(ctx context.Context) (string, error) {
	key, err := s.stored(ctx)
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}
	return s.defaultKey, nil
}

func (s *settingsService) APIKeyStatus(ctx context.Context) (string, error) {
	key, err := s.stored(ctx)
	if err != nil {
		return "", err
	}
	switch {
	case key != "":
		return CredentialSourceStored, nil
	case s.defaultKey != "":
		return CredentialSourceDefault, nil
	default:
		return CredentialSourceNone, nil
	}
}
