// Package progress implements the push and pull halves of reading-progress
// sync. Pushes are last-writer-wins and stamped with server time.
package progress

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/entities"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrDocumentRequired = errors.New("document hash is required")
	ErrDocumentNotFound = errors.New("document not found")
)

// Ledger stores per-account progress records.
type Ledger interface {
	SaveProgress(userID uint, update entities.ProgressUpdate, at time.Time) (*entities.Document, error)
	GetProgress(userID uint, documentHash string) (*entities.Document, error)
}

type Service struct {
	ledger Ledger
	now    func() time.Time
}

func NewService(ledger Ledger) *Service {
	return &Service{
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Push overwrites the caller's record for update.DocumentHash, creating it
// on first sync, and returns the stored record.
func (s *Service) Push(actor auth.Identity, update entities.ProgressUpdate) (*entities.Document, error) {
	if !actor.CanSync() {
		return nil, ErrUnauthorized
	}
	if update.DocumentHash == "" {
		return nil, ErrDocumentRequired
	}

	doc, err := s.ledger.SaveProgress(actor.UserID, update, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Account deleted between authentication and write
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return doc, nil
}

// Pull returns the caller's record for documentHash.
func (s *Service) Pull(actor auth.Identity, documentHash string) (*entities.Document, error) {
	if !actor.CanSync() {
		return nil, ErrUnauthorized
	}

	doc, err := s.ledger.GetProgress(actor.UserID, documentHash)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return doc, nil
}
