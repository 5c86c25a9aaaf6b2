package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// DefaultTokenTTL is the fixed validity window of a bearer token.
const DefaultTokenTTL = 30 * 24 * time.Hour

type accessClaims struct {
	AccountID string `json:"id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 bearer tokens. Tokens carry no jti and
// are not tracked, so they stay valid until they expire.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager returns domain.ErrMissingSigningKey when secret is empty.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, domain.ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the validity window applied to new tokens.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

func (m *JWTManager) Issue(accountID string, role domain.Role) (string, error) {
	now := m.now()
	claims := accessClaims{
		AccountID: accountID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify does not distinguish expired, malformed and tampered tokens.
func (m *JWTManager) Verify(token string) (*domain.TokenClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.AccountID == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		AccountID: claims.AccountID,
		Role:      domain.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

var (
	_ ports.TokenIssuer   = (*JWTManager)(nil)
	_ ports.TokenVerifier = (*JWTManager)(nil)
)
