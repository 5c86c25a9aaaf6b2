package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/palaup/jobboard/internal/core/ports"
)

// DefaultBcryptCost is the work factor applied to stored passwords.
const DefaultBcryptCost = 12

// BcryptHasher implements ports.PasswordHasher. Every Hash call draws a fresh
// random salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Values outside
// bcrypt's accepted range fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares in constant time with respect to the plaintext.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)
