package ports

import (
	"context"

	"github.com/palaup/jobboard/internal/core/domain"
)

// AccountRepository persists one account variant. Employee and company
// accounts live in separate stores with independently generated ids, so every
// implementation is bound to a single domain.AccountKind.
type AccountRepository interface {
	Kind() domain.AccountKind
	// FindByID returns domain.ErrAccountNotFound when no document matches.
	// The password hash is loaded only when withSecret is true.
	FindByID(ctx context.Context, id string, withSecret bool) (*domain.Account, error)
	// FindByEmail always loads the password hash; it is used by login.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create returns domain.ErrDuplicateEmail when the email is already taken
	// within this variant's store.
	Create(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	// UpdateByID applies a partial update. Password, if set, must already be hashed.
	UpdateByID(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error)
}

// EmployeeActivityRepository maintains the sub-lists on an employee document.
type EmployeeActivityRepository interface {
	AddApplication(ctx context.Context, employeeID string, app domain.EmployeeApplication) error
	SetApplicationStatus(ctx context.Context, employeeID, jobID string, status domain.ApplicationStatus) error
	// ToggleSavedJob adds jobID to the saved list or removes it when present and
	// reports whether the job is saved afterwards.
	ToggleSavedJob(ctx context.Context, employeeID, jobID string) (bool, error)
}

// CompanyCounterRepository maintains the job counters on a company document.
type CompanyCounterRepository interface {
	IncJobCounters(ctx context.Context, companyID string, active, total int) error
}
