package domain

import (
	"context"
	"time"
)

// TokenClaims are the claims recovered from a verified bearer token.
type TokenClaims struct {
	AccountID string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated account.
func WithPrincipal(ctx context.Context, acct *Account) context.Context {
	return context.WithValue(ctx, principalKey{}, acct)
}

// PrincipalFrom returns the account attached by the access guard, if any.
func PrincipalFrom(ctx context.Context) (*Account, bool) {
	acct, ok := ctx.Value(principalKey{}).(*Account)
	return acct, ok && acct != nil
}
