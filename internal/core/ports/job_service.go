package ports

import (
	"context"

	"github.com/palaup/jobboard/internal/core/domain"
)

// CreateJobInput carries the fields of a new posting.
type CreateJobInput struct {
	Title            string
	Location         string
	Type             domain.JobType
	Salary           string
	Description      string
	Requirements     []string
	Responsibilities []string
	Benefits         []string
	Tags             []string
	ExperienceLevel  domain.ExperienceLevel
	Remote           bool
	Hybrid           bool
	Onsite           bool
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// JobPage is one page of postings.
type JobPage struct {
	Jobs       []*domain.Job
	Pagination Pagination
}

// ApplicationPage is one page of a job's applications.
type ApplicationPage struct {
	Applications []domain.Application
	Pagination   Pagination
}

// JobDetail is the single-job view. HasApplied and Saved are only meaningful
// when the viewer is an employee.
type JobDetail struct {
	Job        *domain.Job
	Related    []*domain.Job
	HasApplied bool
	Saved      bool
}

// EmployeeApplicationView pairs an employee-side application with its job.
type EmployeeApplicationView struct {
	Application domain.EmployeeApplication
	Job         *domain.Job
}

// JobService defines use-case operations for postings and applications.
type JobService interface {
	ListJobs(ctx context.Context, filter ListJobsFilter) (*JobPage, error)
	FeaturedJobs(ctx context.Context) ([]*domain.Job, error)
	GetJob(ctx context.Context, jobID string, viewer *domain.Account) (*JobDetail, error)
	Stats(ctx context.Context) (*domain.JobStats, error)

	CreateJob(ctx context.Context, company *domain.Account, in CreateJobInput) (*domain.Job, error)
	CompanyJobs(ctx context.Context, companyID string, status JobStatusFilter, page, limit int) (*JobPage, error)
	UpdateJob(ctx context.Context, companyID, jobID string, update domain.JobUpdate) (*domain.Job, error)
	DeleteJob(ctx context.Context, companyID, jobID string) error
	JobApplications(ctx context.Context, companyID, jobID string, status domain.ApplicationStatus, page, limit int) (*ApplicationPage, error)
	UpdateApplicationStatus(ctx context.Context, companyID, jobID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error)

	Apply(ctx context.Context, employeeID, jobID, cv, coverLetter string) (*domain.EmployeeApplication, error)
	EmployeeApplications(ctx context.Context, employeeID string) ([]EmployeeApplicationView, error)
	ToggleSavedJob(ctx context.Context, employeeID, jobID string) (bool, error)
	SavedJobs(ctx context.Context, employeeID string) ([]*domain.Job, error)
}

// ViewRecorder counts job views outside the request path.
type ViewRecorder interface {
	Record(jobIDs ...string)
}
