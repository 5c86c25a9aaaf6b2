package service

import (
	"context"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// credentialStore wraps an AccountRepository so that secrets are hashed
// before they reach the store. Updates that leave the password alone are
// passed through untouched, so an existing hash is never hashed twice.
type credentialStore struct {
	ports.AccountRepository
	hasher ports.PasswordHasher
}

func newCredentialStore(repo ports.AccountRepository, hasher ports.PasswordHasher) *credentialStore {
	return &credentialStore{AccountRepository: repo, hasher: hasher}
}

// CreateWithPassword hashes plaintext into acct and persists it.
func (s *credentialStore) CreateWithPassword(ctx context.Context, acct *domain.Account, plaintext string) (*domain.Account, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}
	if acct.Kind == domain.KindCompany {
		acct.Company.PasswordHash = hash
	} else {
		acct.Employee.PasswordHash = hash
	}
	return s.AccountRepository.Create(ctx, acct)
}

func (s *credentialStore) UpdateByID(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
	if update.TouchesSecret() {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		update.Password = &hash
	}
	return s.AccountRepository.UpdateByID(ctx, id, update)
}
