package ports

import (
	"context"

	"github.com/palaup/jobboard/internal/core/domain"
)

// RegisterEmployeeInput carries the fields accepted at employee sign-up.
type RegisterEmployeeInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Location string
	Title    string
}

// RegisterCompanyInput carries the fields accepted at company sign-up.
type RegisterCompanyInput struct {
	Email    string
	Password string
	Name     string
	Industry string
	Location string
	Website  string
	Phone    string
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token     string
	Account   *domain.Account
	IsCompany bool
}

type AuthService interface {
	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*AuthResult, error)
	RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, accountID, current, next string) error
	SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error)
}

// IdentityResolver determines which store owns an account id.
type IdentityResolver interface {
	Resolve(ctx context.Context, accountID string) (*domain.Account, error)
}

// Authenticator turns a raw bearer token into the principal it names.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}
