package accounts

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/entities"
)

type Options struct {
	// SelfMatchIgnoreCase compares the caller's username with the target of
	// a self-service delete or document listing case-insensitively.
	SelfMatchIgnoreCase bool
}

type Service struct {
	users     UserStore
	documents DocumentLister
	gate      RegistrationGate
	keys      auth.KeyStore
	opts      Options
}

func NewService(users UserStore, documents DocumentLister, gate RegistrationGate, keys auth.KeyStore, opts Options) *Service {
	return &Service{
		users:     users,
		documents: documents,
		gate:      gate,
		keys:      keys,
		opts:      opts,
	}
}

// ProfileUpdate carries the optional profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Preferences *string
	Metadata    *string
}

// List returns every account with its document count. Admin only.
func (s *Service) List(actor auth.Identity) ([]entities.UserSummary, error) {
	if !actor.CanManage() {
		return nil, ErrUnauthorized
	}
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create adds an active, non-administrator account. Admin only.
func (s *Service) Create(actor auth.Identity, username, password string) (*entities.User, error) {
	if !actor.CanManage() {
		return nil, ErrUnauthorized
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrEmptyPassword
	}
	return s.insert(username, auth.HashPassword(password))
}

// Register creates an account through public self-registration.
// The password is stored as the client sent it when it already is a
// credential digest; anything else is digested first.
func (s *Service) Register(username, password string) (*entities.User, error) {
	disabled, err := s.gate.RegistrationDisabled()
	if err != nil {
		return nil, err
	}
	if disabled {
		return nil, ErrRegistrationDisabled
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	digest := password
	if !auth.IsDigest(password) {
		digest = auth.HashPassword(password)
	}
	return s.insert(username, digest)
}

func validateUsername(username string) error {
	if username == "" {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(username) > entities.MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

func (s *Service) insert(username, digest string) (*entities.User, error) {
	exists, err := s.users.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	sealed, err := s.keys.Seal(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to seal password: %w", err)
	}

	user := entities.NewUser(username, sealed)
	if err := s.users.CreateUser(user); err != nil {
		// Lost a race with a concurrent create of the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Delete removes an account and its progress records. Admins may delete any
// account; other users only their own.
func (s *Service) Delete(actor auth.Identity, username string) error {
	user, err := s.resolveTarget(actor, username)
	if err != nil {
		return err
	}
	if err := s.users.DeleteUser(user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Documents lists an account's progress records. Admins may view any
// account; other users only their own.
func (s *Service) Documents(actor auth.Identity, username string) ([]entities.Document, error) {
	user, err := s.resolveTarget(actor, username)
	if err != nil {
		return nil, err
	}
	documents, err := s.documents.ListDocuments(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// ResetPassword sets a new password on a named account. Admin only; the
// bootstrap admin account is rejected.
func (s *Service) ResetPassword(actor auth.Identity, username, password string) error {
	if !actor.CanManage() {
		return ErrUnauthorized
	}
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if username == entities.AdminUsername {
		return ErrProtectedAccount
	}

	user, err := s.lookup(username)
	if err != nil {
		return err
	}
	return s.setPassword(user, password)
}

// ToggleActive flips a named account's active flag and returns the new
// state. Admin only; the bootstrap admin account is rejected.
func (s *Service) ToggleActive(actor auth.Identity, username string) (bool, error) {
	if !actor.CanManage() {
		return false, ErrUnauthorized
	}
	if username == entities.AdminUsername {
		return false, ErrProtectedAccount
	}

	user, err := s.lookup(username)
	if err != nil {
		return false, err
	}

	user.IsActive = !user.IsActive
	if err := s.users.UpdateUser(user); err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return user.IsActive, nil
}

// Profile returns the caller's own account.
func (s *Service) Profile(actor auth.Identity) (*entities.User, error) {
	if !actor.CanSync() {
		return nil, ErrUnauthorized
	}
	return s.lookup(actor.Username)
}

func (s *Service) UpdateProfile(actor auth.Identity, update ProfileUpdate) error {
	user, err := s.Profile(actor)
	if err != nil {
		return err
	}

	if update.Preferences != nil {
		user.Preferences = update.Preferences
	}
	if update.Metadata != nil {
		user.Metadata = update.Metadata
	}

	if err := s.users.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ChangeOwnPassword replaces the caller's password.
func (s *Service) ChangeOwnPassword(actor auth.Identity, password string) error {
	if !actor.CanSync() {
		return ErrUnauthorized
	}
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}

	user, err := s.lookup(actor.Username)
	if err != nil {
		return err
	}
	return s.setPassword(user, password)
}

func (s *Service) setPassword(user *entities.User, password string) error {
	sealed, err := s.keys.Seal(auth.HashPassword(password))
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}
	user.PasswordHash = sealed
	if err := s.users.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *Service) lookup(username string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func (s *Service) lookupID(id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// resolveTarget returns the account an admin-or-self operation acts on.
// A non-admin only ever resolves to their own record: a name that matches
// them under the case policy but belongs to another account is refused.
func (s *Service) resolveTarget(actor auth.Identity, username string) (*entities.User, error) {
	if !s.adminOrSelf(actor, username) {
		return nil, ErrUnauthorized
	}

	user, err := s.lookup(username)
	if actor.Admin {
		return user, err
	}
	switch {
	case err == nil && user.ID == actor.UserID:
		return user, nil
	case err == nil:
		return nil, ErrUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return s.lookupID(actor.UserID)
	default:
		return nil, err
	}
}

func (s *Service) adminOrSelf(actor auth.Identity, username string) bool {
	if !actor.CanSync() {
		return false
	}
	return actor.Admin || s.isSelf(actor, username)
}

// isSelf applies the configured case policy to a self-service target.
func (s *Service) isSelf(actor auth.Identity, username string) bool {
	if s.opts.SelfMatchIgnoreCase {
		return strings.EqualFold(actor.Username, username)
	}
	return actor.Username == username
}
