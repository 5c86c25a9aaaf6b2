package ports

import (
	"context"

	"github.com/palaup/jobboard/internal/core/domain"
)

// JobStatusFilter restricts a company's job listing by activity.
type JobStatusFilter string

const (
	JobStatusAny      JobStatusFilter = ""
	JobStatusActive   JobStatusFilter = "active"
	JobStatusInactive JobStatusFilter = "inactive"
)

// ListJobsFilter carries all query parameters for listing jobs.
type ListJobsFilter struct {
	CompanyID  string          // empty = every company
	Status     JobStatusFilter // public listings always use JobStatusActive
	Search     string          // optional: full-text match
	Location   string          // optional: case-insensitive partial match
	Type       domain.JobType
	Experience domain.ExperienceLevel
	Remote     bool
	Featured   bool
	Page       int // 1-based
	Limit      int
}

// JobRepository defines persistence operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// FindOwned returns domain.ErrJobNotFound unless the job belongs to companyID.
	FindOwned(ctx context.Context, id, companyID string) (*domain.Job, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Job, error)
	List(ctx context.Context, filter ListJobsFilter) ([]*domain.Job, int64, error)
	Featured(ctx context.Context, limit int) ([]*domain.Job, error)
	Related(ctx context.Context, job *domain.Job, limit int) ([]*domain.Job, error)
	Update(ctx context.Context, id, companyID string, update domain.JobUpdate) (*domain.Job, error)
	Delete(ctx context.Context, id, companyID string) error
	// AddApplication returns domain.ErrAlreadyApplied when the employee already
	// has an application on the job.
	AddApplication(ctx context.Context, jobID string, app domain.Application) error
	// RemoveApplication pulls the application and decrements the counter.
	RemoveApplication(ctx context.Context, jobID, applicationID string) error
	UpdateApplicationStatus(ctx context.Context, jobID, companyID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error)
	IncrementViews(ctx context.Context, jobID string) error
	// Stats counts active postings and ranks up to topCompanies companies by
	// active postings.
	Stats(ctx context.Context, topCompanies int) (*domain.JobStats, error)
}
