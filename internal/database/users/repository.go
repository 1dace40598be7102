// Package users provides database operations for account records.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername("alice")
//
// Username lookups are exact, case-sensitive matches.
package users

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/kosync/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new account. A taken username surfaces as
// gorm.ErrDuplicatedKey through the unique index.
func (r *Repository) CreateUser(user *entities.User) error {
	return r.db.Omit(clause.Associations).Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists reports whether an account with exactly this username exists.
func (r *Repository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ListUsers returns every account with its document count, ordered by ID.
func (r *Repository) ListUsers() ([]entities.UserSummary, error) {
	summaries := []entities.UserSummary{}
	err := r.db.Model(&entities.User{}).
		Select("users.id, users.username, users.is_administrator, users.is_active, COUNT(documents.id) AS document_count").
		Joins("LEFT JOIN documents ON documents.user_id = users.id").
		Group("users.id, users.username, users.is_administrator, users.is_active").
		Order("users.id ASC").
		Scan(&summaries).Error
	return summaries, err
}

// UpdateUser writes every column of the account. Documents are never
// touched here; progress goes through the sync repository.
// There is no version check: the last caller wins.
func (r *Repository) UpdateUser(user *entities.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

// DeleteUser removes the account and its documents atomically.
func (r *Repository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entities.Document{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
