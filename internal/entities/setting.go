package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "system_settings"
}

// Known setting keys. The names are part of the /manage/settings wire format.
const (
	SettingKeyRegistrationDisabled = "RegistrationDisabled"
	SettingKeyAdminEmail           = "AdminEmail"
)
