// Package settingsstore exposes the runtime settings as typed values.
//
// Every read goes to the settings table, so a value written through the
// management API or the CLI takes effect on the next request without a
// restart. There is no in-process cache to refresh.
package settingsstore

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/entities"
)

var ErrEmptyKey = errors.New("setting key cannot be empty")

// Repository is the settings table as seen by the store.
type Repository interface {
	GetSetting(key string) (*entities.Setting, error)
	GetAllSettings() (map[string]string, error)
	SetSettings(values map[string]string) error
}

type SettingsStore struct {
	repo Repository
}

func New(repo Repository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// Get returns the stored value for key, or fallback when the key is absent.
func (s *SettingsStore) Get(key, fallback string) (string, error) {
	setting, err := s.repo.GetSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return setting.Value, nil
}

// RegistrationDisabled reports whether public registration is turned off.
// Only a case-insensitive "true" disables it, with no surrounding
// whitespace; absent means enabled.
func (s *SettingsStore) RegistrationDisabled() (bool, error) {
	value, err := s.Get(entities.SettingKeyRegistrationDisabled, "false")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(value, "true"), nil
}

// AdminEmail returns the administrator contact address, empty when unset.
func (s *SettingsStore) AdminEmail() (string, error) {
	return s.Get(entities.SettingKeyAdminEmail, "")
}

func (s *SettingsStore) All() (map[string]string, error) {
	values, err := s.repo.GetAllSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return values, nil
}

// Update upserts every key in values in one write.
func (s *SettingsStore) Update(values map[string]string) error {
	for key := range values {
		if strings.TrimSpace(key) == "" {
			return ErrEmptyKey
		}
	}
	if len(values) == 0 {
		return nil
	}
	if err := s.repo.SetSettings(values); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
