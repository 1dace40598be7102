package accounts

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUserNotFound         = errors.New("user does not exist")
	ErrUserExists           = errors.New("user already exists")
	ErrRegistrationDisabled = errors.New("user registration is disabled")
	ErrProtectedAccount     = errors.New("cannot update admin user")
	ErrEmptyPassword        = errors.New("password cannot be empty")
	ErrInvalidUsername      = errors.New("username cannot be empty")
	ErrUsernameTooLong      = errors.New("username is too long")
)
