package entities

import "time"

type AuditEventType string

const (
	AuditEventAccount      AuditEventType = "account"
	AuditEventRegistration AuditEventType = "registration"
	AuditEventAuth         AuditEventType = "auth"
	AuditEventSettings     AuditEventType = "settings"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Actor       string         `gorm:"index;size:255" json:"actor"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g., "user_create", "user_delete"
	Target      string         `gorm:"size:255" json:"target"`      // affected username or setting key
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
