// Package sync provides database operations for per-account reading progress.
//
// Every account owns at most one Document per document hash. Writes are
// last-writer-wins: a push replaces the stored fields without comparing
// timestamps or versions.
//
// # Usage
//
//	repo := sync.NewRepository(db)
//	doc, err := repo.SaveProgress(user.ID, update, time.Now().UTC())
package sync

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/kosync/internal/entities"
)

// Repository handles all progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveProgress creates or overwrites the document record for (userID, hash)
// and stamps it with at. The owner must exist; otherwise
// gorm.ErrRecordNotFound is returned and nothing is written.
func (r *Repository) SaveProgress(userID uint, update entities.ProgressUpdate, at time.Time) (*entities.Document, error) {
	doc := entities.Document{
		UserID:       userID,
		DocumentHash: update.DocumentHash,
		Progress:     update.Progress,
		Percentage:   update.Percentage,
		Device:       update.Device,
		DeviceID:     update.DeviceID,
		Timestamp:    at,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var owner entities.User
		if err := tx.Select("id").First(&owner, userID).Error; err != nil {
			return err
		}

		// Single-statement upsert keeps the record write atomic when two
		// devices push the same document concurrently.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "document_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"progress", "percentage", "device", "device_id", "timestamp",
			}),
		}).Create(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetProgress retrieves the document record for (userID, hash).
func (r *Repository) GetProgress(userID uint, documentHash string) (*entities.Document, error) {
	var doc entities.Document
	err := r.db.Where("user_id = ? AND document_hash = ?", userID, documentHash).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns every document record of a user in insertion order.
func (r *Repository) ListDocuments(userID uint) ([]entities.Document, error) {
	docs := []entities.Document{}
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&docs).Error
	return docs, err
}

// CountDocuments returns the number of document records of a user.
func (r *Repository) CountDocuments(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Document{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
