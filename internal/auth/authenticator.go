package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/entities"
)

// UserLookup is the part of the credential store the authenticator reads.
type UserLookup interface {
	GetUserByUsername(username string) (*entities.User, error)
}

type Authenticator struct {
	users UserLookup
	keys  KeyStore
}

func NewAuthenticator(users UserLookup, keys KeyStore) *Authenticator {
	return &Authenticator{users: users, keys: keys}
}

// Authenticate resolves a username and client digest into an Identity.
// Unknown users and wrong keys yield an unauthenticated Identity, not an
// error; only store failures are returned as errors.
func (a *Authenticator) Authenticate(username, key string) (Identity, error) {
	identity := Identity{Username: username}
	if username == "" || key == "" {
		return identity, nil
	}

	user, err := a.users.GetUserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return identity, nil
	}
	if err != nil {
		return identity, fmt.Errorf("failed to look up user %s: %w", username, err)
	}

	if !a.keys.Match(user.PasswordHash, key) {
		return identity, nil
	}

	identity.UserID = user.ID
	identity.Authenticated = true
	identity.Active = user.IsActive
	identity.Admin = user.IsAdministrator
	return identity, nil
}
