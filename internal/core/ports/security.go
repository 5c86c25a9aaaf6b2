package ports

import (
	"context"
	"time"

	"github.com/palaup/jobboard/internal/core/domain"
)

// PasswordHasher hashes secrets with an adaptive one-way function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints signed, time-bound bearer tokens.
type TokenIssuer interface {
	Issue(accountID string, role domain.Role) (string, error)
}

// TokenVerifier validates a bearer token and recovers its claims. Every
// failure is reported as domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}

// TokenDenylist records tokens discarded at logout until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
