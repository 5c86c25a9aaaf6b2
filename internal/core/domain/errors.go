package domain

import "errors"

// Authentication and authorization failures. All of them are terminal for the
// request that produced them.
var (
	ErrMissingCredential = errors.New("no token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrIdentityNotFound  = errors.New("not found")
	ErrRoleMismatch      = errors.New("forbidden")
	ErrAccountInactive   = errors.New("account inactive")
	ErrDuplicateEmail    = errors.New("an account with this email already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingSigningKey  = errors.New("signing secret is not configured")
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidInput    = errors.New("invalid input")
)

var (
	ErrJobNotFound              = errors.New("job not found")
	ErrJobInactive              = errors.New("job is no longer active")
	ErrAlreadyApplied           = errors.New("already applied to this job")
	ErrApplicationNotFound      = errors.New("application not found")
	ErrInvalidApplicationStatus = errors.New("invalid application status")
)
