package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxPage          = math.MaxInt32
	featuredLimit    = 6
	relatedLimit     = 3
	topCompanies     = 5
)

type JobService struct {
	jobs      ports.JobRepository
	employees ports.AccountRepository
	activity  ports.EmployeeActivityRepository
	counters  ports.CompanyCounterRepository
	views     ports.ViewRecorder
	log       zerolog.Logger
}

// JobDeps groups the collaborators of JobService.
type JobDeps struct {
	Jobs      ports.JobRepository
	Employees ports.AccountRepository
	Activity  ports.EmployeeActivityRepository
	Counters  ports.CompanyCounterRepository
	Views     ports.ViewRecorder
}

func NewJobService(deps JobDeps, log zerolog.Logger) *JobService {
	return &JobService{
		jobs:      deps.Jobs,
		employees: deps.Employees,
		activity:  deps.Activity,
		counters:  deps.Counters,
		views:     deps.Views,
		log:       log,
	}
}

// ListJobs returns active postings only, whatever status the caller asked for.
func (s *JobService) ListJobs(ctx context.Context, filter ports.ListJobsFilter) (*ports.JobPage, error) {
	filter.Status = ports.JobStatusActive
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(jobs))
	for i, j := range jobs {
		jobs[i] = j.Public()
		ids = append(ids, j.ID)
	}
	s.recordViews(ids...)

	return &ports.JobPage{Jobs: jobs, Pagination: pagination(filter.Page, filter.Limit, total)}, nil
}

func (s *JobService) FeaturedJobs(ctx context.Context) ([]*domain.Job, error) {
	jobs, err := s.jobs.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	for i, j := range jobs {
		jobs[i] = j.Public()
	}
	return jobs, nil
}

// GetJob returns a single active posting. The applicant list is only kept for
// the owning company; employees get their applied/saved flags instead.
func (s *JobService) GetJob(ctx context.Context, jobID string, viewer *domain.Account) (*ports.JobDetail, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, domain.ErrJobNotFound
	}
	s.recordViews(job.ID)

	related, err := s.jobs.Related(ctx, job, relatedLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", job.ID).Msg("related jobs lookup failed")
		related = nil
	}
	for i, r := range related {
		related[i] = r.Public()
	}

	detail := &ports.JobDetail{Job: job.Public(), Related: related}
	if viewer == nil {
		return detail, nil
	}

	switch {
	case viewer.Kind == domain.KindCompany && viewer.ID() == job.CompanyID:
		detail.Job = job
	case viewer.Kind == domain.KindEmployee:
		detail.HasApplied = viewer.Employee.HasApplied(job.ID)
		detail.Saved = viewer.Employee.HasSaved(job.ID)
	}
	return detail, nil
}

// Stats reports board-wide counters and the companies with the most active postings.
func (s *JobService) Stats(ctx context.Context) (*domain.JobStats, error) {
	return s.jobs.Stats(ctx, topCompanies)
}

func (s *JobService) CreateJob(ctx context.Context, company *domain.Account, in ports.CreateJobInput) (*domain.Job, error) {
	if company == nil || company.Kind != domain.KindCompany {
		return nil, domain.ErrRoleMismatch
	}
	if err := validateJobInput(in); err != nil {
		return nil, err
	}

	level := in.ExperienceLevel
	if level == "" {
		level = domain.LevelMid
	}

	now := time.Now().UTC()
	job := &domain.Job{
		Title:            strings.TrimSpace(in.Title),
		CompanyID:        company.ID(),
		CompanyName:      company.Name(),
		Location:         strings.TrimSpace(in.Location),
		Type:             in.Type,
		Salary:           strings.TrimSpace(in.Salary),
		Description:      strings.TrimSpace(in.Description),
		Requirements:     orEmpty(in.Requirements),
		Responsibilities: orEmpty(in.Responsibilities),
		Benefits:         orEmpty(in.Benefits),
		Tags:             orEmpty(in.Tags),
		Logo:             company.Company.Logo,
		IsActive:         true,
		ExperienceLevel:  level,
		Remote:           in.Remote,
		Hybrid:           in.Hybrid,
		Onsite:           in.Onsite,
		Applications:     []domain.Application{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		s.log.Error().Err(err).Str("company_id", company.ID()).Msg("failed to create job")
		return nil, err
	}

	if err := s.counters.IncJobCounters(ctx, company.ID(), 1, 1); err != nil {
		s.log.Warn().Err(err).Str("company_id", company.ID()).Msg("failed to update job counters")
	}

	s.log.Info().Str("job_id", created.ID).Str("company_id", company.ID()).Msg("job created")
	return created, nil
}

func (s *JobService) CompanyJobs(ctx context.Context, companyID string, status ports.JobStatusFilter, page, limit int) (*ports.JobPage, error) {
	page, limit = normalizePage(page, limit)
	jobs, total, err := s.jobs.List(ctx, ports.ListJobsFilter{
		CompanyID: companyID,
		Status:    status,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	return &ports.JobPage{Jobs: jobs, Pagination: pagination(page, limit, total)}, nil
}

func (s *JobService) UpdateJob(ctx context.Context, companyID, jobID string, update domain.JobUpdate) (*domain.Job, error) {
	if update.Type != nil && !validJobType(*update.Type) {
		return nil, domain.ErrInvalidInput
	}
	for _, f := range []*string{update.Title, update.Location, update.Salary, update.Description} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	before, err := s.jobs.FindOwned(ctx, jobID, companyID)
	if err != nil {
		return nil, err
	}

	updated, err := s.jobs.Update(ctx, jobID, companyID, update)
	if err != nil {
		return nil, err
	}

	if before.IsActive != updated.IsActive {
		delta := 1
		if !updated.IsActive {
			delta = -1
		}
		if err := s.counters.IncJobCounters(ctx, companyID, delta, 0); err != nil {
			s.log.Warn().Err(err).Str("company_id", companyID).Msg("failed to update job counters")
		}
	}
	return updated, nil
}

func (s *JobService) DeleteJob(ctx context.Context, companyID, jobID string) error {
	job, err := s.jobs.FindOwned(ctx, jobID, companyID)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, jobID, companyID); err != nil {
		return err
	}

	if job.IsActive {
		if err := s.counters.IncJobCounters(ctx, companyID, -1, 0); err != nil {
			s.log.Warn().Err(err).Str("company_id", companyID).Msg("failed to update job counters")
		}
	}
	s.log.Info().Str("job_id", jobID).Str("company_id", companyID).Msg("job deleted")
	return nil
}

func (s *JobService) JobApplications(ctx context.Context, companyID, jobID string, status domain.ApplicationStatus, page, limit int) (*ports.ApplicationPage, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidApplicationStatus
	}
	job, err := s.jobs.FindOwned(ctx, jobID, companyID)
	if err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(job.Applications))
	for _, a := range job.Applications {
		if status == "" || a.Status == status {
			apps = append(apps, a)
		}
	}

	page, limit = normalizePage(page, limit)
	total := int64(len(apps))
	start := len(apps)
	if page-1 <= len(apps)/limit {
		start = min((page-1)*limit, len(apps))
	}
	end := min(start+limit, len(apps))

	return &ports.ApplicationPage{
		Applications: apps[start:end],
		Pagination:   pagination(page, limit, total),
	}, nil
}

func (s *JobService) UpdateApplicationStatus(ctx context.Context, companyID, jobID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidApplicationStatus
	}

	app, err := s.jobs.UpdateApplicationStatus(ctx, jobID, companyID, applicationID, status)
	if err != nil {
		return nil, err
	}

	if err := s.activity.SetApplicationStatus(ctx, app.EmployeeID, jobID, status); err != nil {
		s.log.Warn().Err(err).
			Str("job_id", jobID).
			Str("employee_id", app.EmployeeID).
			Msg("failed to mirror application status on employee")
	}
	return app, nil
}

func (s *JobService) Apply(ctx context.Context, employeeID, jobID, cv, coverLetter string) (*domain.EmployeeApplication, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, domain.ErrJobInactive
	}

	now := time.Now().UTC()
	app := domain.Application{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Status:      domain.ApplicationApplied,
		AppliedDate: now,
		LastUpdate:  now,
		CV:          strings.TrimSpace(cv),
		CoverLetter: strings.TrimSpace(coverLetter),
	}
	if err := s.jobs.AddApplication(ctx, jobID, app); err != nil {
		return nil, err
	}

	mirror := domain.EmployeeApplication{
		JobID:       jobID,
		Status:      domain.ApplicationApplied,
		AppliedDate: now,
		LastUpdate:  now,
	}
	if err := s.activity.AddApplication(ctx, employeeID, mirror); err != nil {
		if rerr := s.jobs.RemoveApplication(ctx, jobID, app.ID); rerr != nil {
			s.log.Error().Err(rerr).
				Str("job_id", jobID).
				Str("employee_id", employeeID).
				Msg("failed to roll back application on job")
		}
		return nil, err
	}

	s.log.Info().Str("job_id", jobID).Str("employee_id", employeeID).Msg("application submitted")
	return &mirror, nil
}

func (s *JobService) EmployeeApplications(ctx context.Context, employeeID string) ([]ports.EmployeeApplicationView, error) {
	acct, err := s.employees.FindByID(ctx, employeeID, false)
	if err != nil {
		return nil, err
	}
	apps := acct.Employee.Applications

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.JobID)
	}
	jobs, err := s.jobsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ports.EmployeeApplicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, ports.EmployeeApplicationView{Application: a, Job: jobs[a.JobID]})
	}
	return views, nil
}

func (s *JobService) ToggleSavedJob(ctx context.Context, employeeID, jobID string) (bool, error) {
	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		return false, err
	}
	return s.activity.ToggleSavedJob(ctx, employeeID, jobID)
}

func (s *JobService) SavedJobs(ctx context.Context, employeeID string) ([]*domain.Job, error) {
	acct, err := s.employees.FindByID(ctx, employeeID, false)
	if err != nil {
		return nil, err
	}
	byID, err := s.jobsByID(ctx, acct.Employee.SavedJobs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Job, 0, len(byID))
	for _, id := range acct.Employee.SavedJobs {
		if j, ok := byID[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *JobService) jobsByID(ctx context.Context, ids []string) (map[string]*domain.Job, error) {
	out := make(map[string]*domain.Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	jobs, err := s.jobs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		out[j.ID] = j.Public()
	}
	return out, nil
}

func (s *JobService) recordViews(ids ...string) {
	if s.views == nil || len(ids) == 0 {
		return
	}
	s.views.Record(ids...)
}

func validateJobInput(in ports.CreateJobInput) error {
	for _, f := range []string{in.Title, in.Location, in.Salary, in.Description} {
		if strings.TrimSpace(f) == "" {
			return domain.ErrInvalidInput
		}
	}
	if !validJobType(in.Type) {
		return domain.ErrInvalidInput
	}
	return nil
}

func validJobType(t domain.JobType) bool {
	switch t {
	case domain.JobFullTime, domain.JobPartTime, domain.JobContract, domain.JobFreelance, domain.JobInternship:
		return true
	}
	return false
}

// normalizePage clamps page so that (page-1)*limit stays far from overflow.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pagination(page, limit int, total int64) ports.Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return ports.Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ ports.JobService = (*JobService)(nil)
