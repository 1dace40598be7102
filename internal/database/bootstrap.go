package database

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/config"
	"github.com/mrlokans/kosync/internal/entities"
)

// KeySealer turns a client credential digest into its stored form and
// checks a digest against a stored value.
type KeySealer interface {
	Seal(digest string) (string, error)
	Match(stored, digest string) bool
}

// EnsureDefaults makes sure the bootstrap administrator exists with the
// configured password and seeds settings that are absent.
// adminDigest is the client-side digest of the configured admin password.
func (d *Database) EnsureDefaults(cfg config.Bootstrap, adminDigest string, keys KeySealer) error {
	if err := d.ensureAdmin(adminDigest, keys); err != nil {
		return err
	}

	if err := d.seedSetting(entities.SettingKeyRegistrationDisabled, strconv.FormatBool(cfg.RegistrationDisabled)); err != nil {
		return err
	}
	if cfg.AdminEmail != "" {
		if err := d.seedSetting(entities.SettingKeyAdminEmail, cfg.AdminEmail); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) ensureAdmin(adminDigest string, keys KeySealer) error {
	var admin entities.User
	err := d.DB.Where("username = ?", entities.AdminUsername).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sealed, err := keys.Seal(adminDigest)
		if err != nil {
			return fmt.Errorf("failed to seal admin password: %w", err)
		}
		admin = *entities.NewUser(entities.AdminUsername, sealed)
		admin.IsAdministrator = true
		if err := d.DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Printf("Created bootstrap user: %s", entities.AdminUsername)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	if keys.Match(admin.PasswordHash, adminDigest) {
		return nil
	}

	sealed, err := keys.Seal(adminDigest)
	if err != nil {
		return fmt.Errorf("failed to seal admin password: %w", err)
	}
	if err := d.DB.Model(&admin).Update("password_hash", sealed).Error; err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	log.Printf("Updated %s password from configuration", entities.AdminUsername)
	return nil
}

func (d *Database) seedSetting(key, value string) error {
	var existing entities.Setting
	result := d.DB.Where("key = ?", key).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to read setting %s: %w", key, result.Error)
	}

	if err := d.DB.Create(&entities.Setting{Key: key, Value: value}).Error; err != nil {
		return fmt.Errorf("failed to seed setting %s: %w", key, err)
	}
	log.Printf("Seeded setting %s=%s", key, value)
	return nil
}
