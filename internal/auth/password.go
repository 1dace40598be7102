package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/kosync/internal/config"
)

// DigestLength is the length of a hex encoded MD5 digest.
const DigestLength = md5.Size * 2

var ErrInvalidPassword = errors.New("invalid password")

// HashPassword returns the lowercase hex MD5 digest clients send as
// x-auth-key. Empty input maps to empty output.
func HashPassword(password string) string {
	if password == "" {
		return ""
	}
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsDigest reports whether value already has the shape of a client digest.
func IsDigest(value string) bool {
	if len(value) != DigestLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// KeyStore converts a client digest into its stored form and verifies
// presented digests against stored values.
type KeyStore interface {
	Seal(digest string) (string, error)
	Match(stored, digest string) bool
}

// NewKeyStore returns the key store selected by AUTH_KEY_STORAGE.
func NewKeyStore(cfg config.Auth) (KeyStore, error) {
	switch cfg.KeyStorage {
	case config.KeyStoragePlain, "":
		return PlainKeys{}, nil
	case config.KeyStorageBcrypt:
		cost := cfg.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return BcryptKeys{Cost: cost}, nil
	default:
		return nil, fmt.Errorf("unsupported key storage %q", cfg.KeyStorage)
	}
}

// PlainKeys stores the digest as is, which keeps databases written by
// other kosync servers usable.
type PlainKeys struct{}

func (PlainKeys) Seal(digest string) (string, error) {
	return digest, nil
}

func (PlainKeys) Match(stored, digest string) bool {
	if stored == "" || digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
}

// BcryptKeys stores a bcrypt hash of the digest.
type BcryptKeys struct {
	Cost int
}

func (k BcryptKeys) Seal(digest string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(digest), k.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (k BcryptKeys) Match(stored, digest string) bool {
	if stored == "" || digest == "" {
		return false
	}
	return checkPassword(digest, stored) == nil
}

// checkPassword compares a digest with its bcrypt hash.
func checkPassword(digest, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(digest))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
