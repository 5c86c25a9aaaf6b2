package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palaup/jobboard/internal/core/ports"
)

// TokenDenylist records tokens discarded at logout. Entries expire together
// with the token they name, so the set never outgrows the live tokens.
// Key format: revoked:<sha256 hex of the token>
type TokenDenylist struct {
	client *redis.Client
	now    func() time.Time
}

func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client, now: time.Now}
}

// Revoke is a no-op for tokens that have already expired.
func (d *TokenDenylist) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}

var _ ports.TokenDenylist = (*TokenDenylist)(nil)
