package ports

import (
	"context"

	"github.com/palaup/jobboard/internal/core/domain"
)

// ProfileService reads and edits an account's own profile. Updates never
// change the email, password or activity flag.
type ProfileService interface {
	Get(ctx context.Context, kind domain.AccountKind, id string) (*domain.Account, error)
	Update(ctx context.Context, kind domain.AccountKind, id string, update domain.AccountUpdate) (*domain.Account, error)
}
