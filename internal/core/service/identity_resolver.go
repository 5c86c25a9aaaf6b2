package service

import (
	"context"
	"errors"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// IdentityResolver finds the account an id belongs to. Ids are generated
// independently per store and carry no type tag, so the resolver probes the
// employee store first and falls back to the company store on a miss. The
// order is fixed.
type IdentityResolver struct {
	employees ports.AccountRepository
	companies ports.AccountRepository
}

func NewIdentityResolver(employees, companies ports.AccountRepository) *IdentityResolver {
	return &IdentityResolver{employees: employees, companies: companies}
}

// Resolve returns domain.ErrIdentityNotFound when neither store knows the id.
// The returned account never carries its password hash.
func (r *IdentityResolver) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	for _, repo := range r.probeOrder() {
		acct, err := repo.FindByID(ctx, accountID, false)
		if err == nil {
			acct.ClearSecret()
			return acct, nil
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrIdentityNotFound
}

// ResolveByEmail applies the same probe order to an email lookup. The result
// includes the password hash because login needs it.
func (r *IdentityResolver) ResolveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, repo := range r.probeOrder() {
		acct, err := repo.FindByEmail(ctx, email)
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrIdentityNotFound
}

// Store returns the repository for kind.
func (r *IdentityResolver) Store(kind domain.AccountKind) ports.AccountRepository {
	if kind == domain.KindCompany {
		return r.companies
	}
	return r.employees
}

func (r *IdentityResolver) probeOrder() [2]ports.AccountRepository {
	return [2]ports.AccountRepository{r.employees, r.companies}
}

var _ ports.IdentityResolver = (*IdentityResolver)(nil)
