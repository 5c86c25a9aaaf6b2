package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

type ProfileService struct {
	resolver *IdentityResolver
	log      zerolog.Logger
}

func NewProfileService(resolver *IdentityResolver, log zerolog.Logger) *ProfileService {
	return &ProfileService{resolver: resolver, log: log}
}

func (s *ProfileService) Get(ctx context.Context, kind domain.AccountKind, id string) (*domain.Account, error) {
	acct, err := s.resolver.Store(kind).FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	acct.ClearSecret()
	return acct, nil
}

// Update applies profile changes. Credential and activity fields are dropped
// and fields belonging to the other variant are rejected.
func (s *ProfileService) Update(ctx context.Context, kind domain.AccountKind, id string, update domain.AccountUpdate) (*domain.Account, error) {
	update.Password = nil
	update.IsActive = nil

	if !fitsKind(kind, update) {
		return nil, domain.ErrInvalidInput
	}
	if update.Employee != nil && update.Employee.Name != nil && strings.TrimSpace(*update.Employee.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if update.Company != nil && update.Company.Name != nil && strings.TrimSpace(*update.Company.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if update.Languages != nil {
		langs := make([]domain.Language, 0, len(*update.Languages))
		for _, l := range *update.Languages {
			if strings.TrimSpace(l.Language) == "" {
				continue
			}
			if l.Level == "" {
				l.Level = domain.DefaultLanguageLevel
			}
			langs = append(langs, l)
		}
		update.Languages = &langs
	}
	if update.Skills != nil {
		update.Skills = trimList(update.Skills)
	}
	if update.Specialties != nil {
		update.Specialties = trimList(update.Specialties)
	}
	if update.Benefits != nil {
		update.Benefits = trimList(update.Benefits)
	}

	acct, err := s.resolver.Store(kind).UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	acct.ClearSecret()

	s.log.Debug().Str("account_id", id).Str("kind", string(kind)).Msg("profile updated")
	return acct, nil
}

func fitsKind(kind domain.AccountKind, u domain.AccountUpdate) bool {
	employeeFields := u.Employee != nil || u.Skills != nil || u.Languages != nil || u.Avatar != nil
	companyFields := u.Company != nil || u.Specialties != nil || u.Benefits != nil || u.Logo != nil
	if kind == domain.KindCompany {
		return !employeeFields
	}
	return !companyFields
}

func trimList(in *[]string) *[]string {
	out := make([]string, 0, len(*in))
	for _, v := range *in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return &out
}

var _ ports.ProfileService = (*ProfileService)(nil)
