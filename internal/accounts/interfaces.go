package accounts

import "github.com/mrlokans/kosync/internal/entities"

// UserStore is the credential store used by account operations.
type UserStore interface {
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	UsernameExists(username string) (bool, error)
	ListUsers() ([]entities.UserSummary, error)
	UpdateUser(user *entities.User) error
	DeleteUser(id uint) error
}

// DocumentLister reads an account's progress records.
type DocumentLister interface {
	ListDocuments(userID uint) ([]entities.Document, error)
}

// RegistrationGate reports whether public registration is turned off.
type RegistrationGate interface {
	RegistrationDisabled() (bool, error)
}
