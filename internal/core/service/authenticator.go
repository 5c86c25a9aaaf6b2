package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// Authenticator verifies a bearer token and resolves the account it names.
// It performs at most two sequential store lookups and never mutates state.
type Authenticator struct {
	verifier ports.TokenVerifier
	resolver ports.IdentityResolver
	denylist ports.TokenDenylist // nil = stateless tokens
	log      zerolog.Logger
}

func NewAuthenticator(verifier ports.TokenVerifier, resolver ports.IdentityResolver, denylist ports.TokenDenylist, log zerolog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, resolver: resolver, denylist: denylist, log: log}
}

// Authenticate returns domain.ErrInvalidToken or domain.ErrIdentityNotFound
// for rejected credentials. Other errors come from the store.
//
// The activity flag is not consulted here: a token issued before an account
// was deactivated keeps working until it expires. Only login re-checks it.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if a.denylist != nil {
		revoked, err := a.denylist.IsRevoked(ctx, token)
		if err != nil {
			a.log.Warn().Err(err).Msg("token denylist lookup failed, accepting token")
		} else if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	return a.resolver.Resolve(ctx, claims.AccountID)
}

var _ ports.Authenticator = (*Authenticator)(nil)
