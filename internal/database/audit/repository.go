// Package audit persists the account, login and settings audit trail.
//
// # Usage
//
//	repo := audit.NewRepository(db)
//	events, total, err := repo.Find(audit.Filter{Actor: "admin", Limit: 20})
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/entities"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Filter narrows an audit listing. Zero fields match everything.
type Filter struct {
	Actor     string
	EventType entities.AuditEventType
	Status    entities.AuditStatus
	Limit     int
	Offset    int
}

// normalized clamps paging into [1, MaxPageSize] and a non-negative offset.
func (f Filter) normalized() Filter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPageSize
	case f.Limit > MaxPageSize:
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if f.Actor != "" {
		db = db.Where("actor = ?", f.Actor)
	}
	if f.EventType != "" {
		db = db.Where("event_type = ?", f.EventType)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record stores one event, stamping it with the current UTC time when unset.
func (r *Repository) Record(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(event).Error
}

// Find returns one page of matching events, newest first, and the number of
// matches across all pages.
func (r *Repository) Find(filter Filter) ([]entities.AuditEvent, int64, error) {
	filter = filter.normalized()

	var total int64
	if err := filter.scope(r.db.Model(&entities.AuditEvent{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	events := []entities.AuditEvent{}
	err := filter.scope(r.db).
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&events).Error
	return events, total, err
}

// DeleteBefore removes events created strictly before cutoff.
func (r *Repository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
