package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// AuthService implements registration, login and credential changes for both
// account variants.
type AuthService struct {
	employees *credentialStore
	companies *credentialStore
	resolver  *IdentityResolver
	hasher    ports.PasswordHasher
	issuer    ports.TokenIssuer
	verifier  ports.TokenVerifier
	denylist  ports.TokenDenylist // nil = logout is advisory only
	log       zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Employees ports.AccountRepository
	Companies ports.AccountRepository
	Hasher    ports.PasswordHasher
	Issuer    ports.TokenIssuer
	Verifier  ports.TokenVerifier
	Denylist  ports.TokenDenylist
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	return &AuthService{
		employees: newCredentialStore(deps.Employees, deps.Hasher),
		companies: newCredentialStore(deps.Companies, deps.Hasher),
		resolver:  NewIdentityResolver(deps.Employees, deps.Companies),
		hasher:    deps.Hasher,
		issuer:    deps.Issuer,
		verifier:  deps.Verifier,
		denylist:  deps.Denylist,
		log:       log,
	}
}

// Resolver exposes the identity resolver shared with the access guard.
func (s *AuthService) Resolver() *IdentityResolver { return s.resolver }

func (s *AuthService) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if err := validateRegistration(email, in.Password, name); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, s.employees, email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := domain.NewEmployeeAccount(&domain.Employee{
		Email:        email,
		Role:         domain.RoleEmployee,
		Name:         name,
		Phone:        strings.TrimSpace(in.Phone),
		Location:     strings.TrimSpace(in.Location),
		Title:        strings.TrimSpace(in.Title),
		Skills:       []string{},
		Languages:    []domain.Language{},
		Avatar:       domain.DefaultAvatar,
		CoverImage:   domain.DefaultEmployeeCover,
		Applications: []domain.EmployeeApplication{},
		SavedJobs:    []string{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	return s.register(ctx, s.employees, acct, in.Password)
}

func (s *AuthService) RegisterCompany(ctx context.Context, in ports.RegisterCompanyInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if err := validateRegistration(email, in.Password, name); err != nil {
		return nil, err
	}
	industry := strings.TrimSpace(in.Industry)
	location := strings.TrimSpace(in.Location)
	if industry == "" || location == "" {
		return nil, domain.ErrInvalidInput
	}

	if err := s.ensureEmailFree(ctx, s.companies, email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := domain.NewCompanyAccount(&domain.Company{
		Email:       email,
		Role:        domain.RoleCompany,
		Name:        name,
		Industry:    industry,
		Location:    location,
		Website:     strings.TrimSpace(in.Website),
		Phone:       strings.TrimSpace(in.Phone),
		Logo:        domain.DefaultCompanyLogo,
		CoverImage:  domain.DefaultCompanyCover,
		Size:        domain.DefaultCompanySize,
		Type:        domain.DefaultCompanyType,
		Specialties: []string{},
		Benefits:    []string{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	return s.register(ctx, s.companies, acct, in.Password)
}

func (s *AuthService) register(ctx context.Context, store *credentialStore, acct *domain.Account, password string) (*ports.AuthResult, error) {
	created, err := store.CreateWithPassword(ctx, acct, password)
	if err != nil {
		return nil, err
	}
	created.ClearSecret()

	token, err := s.issuer.Issue(created.ID(), created.Role())
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", created.ID()).
		Str("kind", string(created.Kind)).
		Msg("account registered")

	return &ports.AuthResult{Token: token, Account: created, IsCompany: created.IsCompany()}, nil
}

// ensureEmailFree checks uniqueness within a single store only. The same
// email may exist in the other store; login then resolves it employee-first.
func (s *AuthService) ensureEmailFree(ctx context.Context, store *credentialStore, email string) error {
	_, err := store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrDuplicateEmail
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}

// Login resolves the email employee-first, checks the password and only then
// the activity flag. Unknown emails and wrong passwords both surface as
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	acct, err := s.resolver.ResolveByEmail(ctx, email)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		// Spend the same hashing work as a real comparison.
		s.hasher.Verify(password, s.dummy())
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, acct.PasswordHash()) {
		s.log.Info().Str("account_id", acct.ID()).Msg("login rejected: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	if !acct.IsActive() {
		s.log.Info().Str("account_id", acct.ID()).Msg("login rejected: account inactive")
		return nil, domain.ErrAccountInactive
	}

	token, err := s.issuer.Issue(acct.ID(), acct.Role())
	if err != nil {
		return nil, err
	}
	acct.ClearSecret()

	return &ports.AuthResult{Token: token, Account: acct, IsCompany: acct.IsCompany()}, nil
}

// Logout records the token in the denylist when one is configured. Without a
// denylist it only confirms the client-side discard; the token stays valid
// until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.denylist == nil || token == "" {
		return nil
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil
	}
	return s.denylist.Revoke(ctx, token, claims.ExpiresAt)
}

func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	if len(next) < domain.MinPasswordLength {
		return domain.ErrInvalidInput
	}

	acct, err := s.resolver.Resolve(ctx, accountID)
	if err != nil {
		return err
	}
	store := s.store(acct.Kind)

	withSecret, err := store.FindByID(ctx, accountID, true)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, withSecret.PasswordHash()) {
		return domain.ErrInvalidCredentials
	}

	if _, err := store.UpdateByID(ctx, accountID, domain.AccountUpdate{Password: &next}); err != nil {
		return err
	}
	s.log.Info().Str("account_id", accountID).Msg("password changed")
	return nil
}

// SetActive toggles the activity flag. Tokens already issued to the account
// are not affected.
func (s *AuthService) SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	acct, err := s.resolver.Resolve(ctx, accountID)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.store(acct.Kind).UpdateByID(ctx, accountID, domain.AccountUpdate{IsActive: &active})
	if err != nil {
		return nil, err
	}
	updated.ClearSecret()

	s.log.Info().
		Str("account_id", accountID).
		Bool("active", active).
		Msg("account activity changed")
	return updated, nil
}

func (s *AuthService) store(kind domain.AccountKind) *credentialStore {
	if kind == domain.KindCompany {
		return s.companies
	}
	return s.employees
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("timing-equalizer")
	})
	return s.dummyHash
}

func validateRegistration(email, password, name string) error {
	if email == "" || !strings.Contains(email, "@") || name == "" {
		return domain.ErrInvalidInput
	}
	if len(password) < domain.MinPasswordLength {
		return domain.ErrInvalidInput
	}
	return nil
}

var _ ports.AuthService = (*AuthService)(nil)
