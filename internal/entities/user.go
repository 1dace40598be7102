package entities

import (
	"time"
)

// AdminUsername is the bootstrap administrator. Its password and active flag
// cannot be changed through the management API.
const AdminUsername = "admin"

// MaxUsernameLength bounds usernames in characters; it matches the column size.
const MaxUsernameLength = 255

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Username        string     `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	IsActive        bool       `gorm:"not null" json:"isActive"`
	IsAdministrator bool       `gorm:"not null" json:"isAdministrator"`
	Preferences     *string    `gorm:"type:text" json:"preferences,omitempty"`
	Metadata        *string    `gorm:"type:text" json:"metadata,omitempty"`
	Documents       []Document `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// NewUser returns an active, non-administrator account.
// IsActive is set here rather than through a column default so that an
// explicit false survives gorm's zero-value handling on Create.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}

// UserSummary is the management listing row: account flags plus the number
// of progress records, never the records themselves.
type UserSummary struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	IsAdministrator bool   `json:"isAdministrator"`
	IsActive        bool   `json:"isActive"`
	DocumentCount   int64  `json:"documentCount"`
}
