package entities

import (
	"time"
)

// Document is the reading position of one account on one document.
// At most one row exists per (UserID, DocumentHash).
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_documents_user_hash" json:"-"`
	DocumentHash string    `gorm:"not null;size:255;uniqueIndex:idx_documents_user_hash" json:"documentHash"`
	Progress     string    `gorm:"type:text" json:"progress"`
	Percentage   float64   `json:"percentage"`
	Device       string    `gorm:"size:255" json:"device"`
	DeviceID     string    `gorm:"size:255" json:"deviceId"`
	Timestamp    time.Time `json:"timestamp"`
}

func (Document) TableName() string {
	return "documents"
}

// ProgressUpdate carries the client-supplied fields of a push.
// The timestamp is never taken from the client.
type ProgressUpdate struct {
	DocumentHash string
	Progress     string
	Percentage   float64
	Device       string
	DeviceID     string
}
