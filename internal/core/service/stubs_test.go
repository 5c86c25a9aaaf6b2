package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
	"github.com/palaup/jobboard/internal/infrastructure/security"
)

// stubAccountRepo is an in-memory account store for one variant. It also
// implements the employee activity port.
type stubAccountRepo struct {
	kind   domain.AccountKind
	prefix string
	seq    int
	byID   map[string]*domain.Account
	err    error // returned by every lookup when set
	finds  int

	addAppErr error // returned by AddApplication when set
}

func newStubAccountRepo(kind domain.AccountKind, prefix string) *stubAccountRepo {
	return &stubAccountRepo{kind: kind, prefix: prefix, byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	if a.Kind == domain.KindCompany {
		c := *a.Company
		c.Specialties = append([]string(nil), a.Company.Specialties...)
		c.Benefits = append([]string(nil), a.Company.Benefits...)
		return domain.NewCompanyAccount(&c)
	}
	e := *a.Employee
	e.Skills = append([]string(nil), a.Employee.Skills...)
	e.Languages = append([]domain.Language(nil), a.Employee.Languages...)
	e.Applications = append([]domain.EmployeeApplication(nil), a.Employee.Applications...)
	e.SavedJobs = append([]string(nil), a.Employee.SavedJobs...)
	return domain.NewEmployeeAccount(&e)
}

func setAccountID(a *domain.Account, id string) {
	if a.Kind == domain.KindCompany {
		a.Company.ID = id
		return
	}
	a.Employee.ID = id
}

// put stores acct under id directly, bypassing id generation.
func (r *stubAccountRepo) put(id string, acct *domain.Account) {
	c := cloneAccount(acct)
	setAccountID(c, id)
	r.byID[id] = c
}

func (r *stubAccountRepo) Kind() domain.AccountKind { return r.kind }

func (r *stubAccountRepo) FindByID(_ context.Context, id string, withSecret bool) (*domain.Account, error) {
	r.finds++
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	c := cloneAccount(a)
	if !withSecret {
		c.ClearSecret()
	}
	return c, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.finds++
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if a.Email() == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Create(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email() == acct.Email() {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	id := fmt.Sprintf("%s-%d", r.prefix, r.seq)
	c := cloneAccount(acct)
	setAccountID(c, id)
	r.byID[id] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) UpdateByID(_ context.Context, id string, u domain.AccountUpdate) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if a.Kind == domain.KindCompany {
		c := a.Company
		if u.Password != nil {
			c.PasswordHash = *u.Password
		}
		if u.IsActive != nil {
			c.IsActive = *u.IsActive
		}
		if u.Company != nil && u.Company.Name != nil {
			c.Name = *u.Company.Name
		}
		if u.Company != nil && u.Company.Industry != nil {
			c.Industry = *u.Company.Industry
		}
		if u.Specialties != nil {
			c.Specialties = *u.Specialties
		}
		if u.Benefits != nil {
			c.Benefits = *u.Benefits
		}
		if u.Logo != nil {
			c.Logo = *u.Logo
		}
	} else {
		e := a.Employee
		if u.Password != nil {
			e.PasswordHash = *u.Password
		}
		if u.IsActive != nil {
			e.IsActive = *u.IsActive
		}
		if u.Employee != nil && u.Employee.Name != nil {
			e.Name = *u.Employee.Name
		}
		if u.Employee != nil && u.Employee.Title != nil {
			e.Title = *u.Employee.Title
		}
		if u.Skills != nil {
			e.Skills = *u.Skills
		}
		if u.Languages != nil {
			e.Languages = *u.Languages
		}
		if u.Avatar != nil {
			e.Avatar = *u.Avatar
		}
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) AddApplication(_ context.Context, employeeID string, app domain.EmployeeApplication) error {
	if r.addAppErr != nil {
		return r.addAppErr
	}
	a, ok := r.byID[employeeID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Employee.Applications = append(a.Employee.Applications, app)
	return nil
}

func (r *stubAccountRepo) SetApplicationStatus(_ context.Context, employeeID, jobID string, status domain.ApplicationStatus) error {
	a, ok := r.byID[employeeID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	for i := range a.Employee.Applications {
		if a.Employee.Applications[i].JobID == jobID {
			a.Employee.Applications[i].Status = status
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

func (r *stubAccountRepo) ToggleSavedJob(_ context.Context, employeeID, jobID string) (bool, error) {
	a, ok := r.byID[employeeID]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	saved := a.Employee.SavedJobs
	for i, id := range saved {
		if id == jobID {
			a.Employee.SavedJobs = append(saved[:i:i], saved[i+1:]...)
			return false, nil
		}
	}
	a.Employee.SavedJobs = append(saved, jobID)
	return true, nil
}

type counterCall struct {
	companyID     string
	active, total int
}

type stubCounters struct {
	calls []counterCall
}

func (c *stubCounters) IncJobCounters(_ context.Context, companyID string, active, total int) error {
	c.calls = append(c.calls, counterCall{companyID, active, total})
	return nil
}

type stubViews struct {
	mu  sync.Mutex
	ids []string
}

func (v *stubViews) Record(ids ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids = append(v.ids, ids...)
}

// stubJobRepo keeps jobs in insertion order.
type stubJobRepo struct {
	seq  int
	jobs map[string]*domain.Job
	ids  []string
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job)}
}

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	c.Applications = append([]domain.Application(nil), j.Applications...)
	return &c
}

func (r *stubJobRepo) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	r.seq++
	c := cloneJob(job)
	c.ID = fmt.Sprintf("job-%d", r.seq)
	r.jobs[c.ID] = c
	r.ids = append(r.ids, c.ID)
	return cloneJob(c), nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *stubJobRepo) FindOwned(ctx context.Context, id, companyID string) (*domain.Job, error) {
	j, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.CompanyID != companyID {
		return nil, domain.ErrJobNotFound
	}
	return j, nil
}

func (r *stubJobRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, id := range ids {
		if j, ok := r.jobs[id]; ok {
			out = append(out, cloneJob(j))
		}
	}
	return out, nil
}

func (r *stubJobRepo) List(_ context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	var matched []*domain.Job
	for _, id := range r.ids {
		j := r.jobs[id]
		if f.CompanyID != "" && j.CompanyID != f.CompanyID {
			continue
		}
		if f.Status == ports.JobStatusActive && !j.IsActive {
			continue
		}
		if f.Status == ports.JobStatusInactive && j.IsActive {
			continue
		}
		if f.Type != "" && j.Type != f.Type {
			continue
		}
		matched = append(matched, cloneJob(j))
	}
	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubJobRepo) Featured(_ context.Context, limit int) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, id := range r.ids {
		if j := r.jobs[id]; j.Featured && j.IsActive && len(out) < limit {
			out = append(out, cloneJob(j))
		}
	}
	return out, nil
}

func (r *stubJobRepo) Related(_ context.Context, job *domain.Job, limit int) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, id := range r.ids {
		j := r.jobs[id]
		if j.ID != job.ID && j.CompanyID == job.CompanyID && j.IsActive && len(out) < limit {
			out = append(out, cloneJob(j))
		}
	}
	return out, nil
}

func (r *stubJobRepo) Update(ctx context.Context, id, companyID string, u domain.JobUpdate) (*domain.Job, error) {
	if _, err := r.FindOwned(ctx, id, companyID); err != nil {
		return nil, err
	}
	j := r.jobs[id]
	if u.Title != nil {
		j.Title = *u.Title
	}
	if u.IsActive != nil {
		j.IsActive = *u.IsActive
	}
	if u.Type != nil {
		j.Type = *u.Type
	}
	j.UpdatedAt = time.Now().UTC()
	return cloneJob(j), nil
}

func (r *stubJobRepo) Delete(ctx context.Context, id, companyID string) error {
	if _, err := r.FindOwned(ctx, id, companyID); err != nil {
		return err
	}
	delete(r.jobs, id)
	for i, v := range r.ids {
		if v == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubJobRepo) AddApplication(_ context.Context, jobID string, app domain.Application) error {
	j, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	if _, dup := j.ApplicationByEmployee(app.EmployeeID); dup {
		return domain.ErrAlreadyApplied
	}
	j.Applications = append(j.Applications, app)
	j.ApplicationsCount++
	return nil
}

func (r *stubJobRepo) RemoveApplication(_ context.Context, jobID, applicationID string) error {
	j, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	for i := range j.Applications {
		if j.Applications[i].ID == applicationID {
			j.Applications = append(j.Applications[:i:i], j.Applications[i+1:]...)
			j.ApplicationsCount--
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

func (r *stubJobRepo) UpdateApplicationStatus(ctx context.Context, jobID, companyID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	if _, err := r.FindOwned(ctx, jobID, companyID); err != nil {
		return nil, err
	}
	j := r.jobs[jobID]
	for i := range j.Applications {
		if j.Applications[i].ID == applicationID {
			j.Applications[i].Status = status
			app := j.Applications[i]
			return &app, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *stubJobRepo) Stats(_ context.Context, top int) (*domain.JobStats, error) {
	stats := &domain.JobStats{TopCompanies: []domain.CompanyJobCount{}}
	byCompany := map[string]*domain.CompanyJobCount{}
	for _, id := range r.ids {
		j := r.jobs[id]
		if !j.IsActive {
			continue
		}
		stats.ActiveJobs++
		if j.Featured {
			stats.FeaturedJobs++
		}
		stats.TotalApplications += int64(j.ApplicationsCount)
		c, ok := byCompany[j.CompanyID]
		if !ok {
			c = &domain.CompanyJobCount{CompanyID: j.CompanyID, Name: j.CompanyName}
			byCompany[j.CompanyID] = c
		}
		c.JobCount++
	}
	for _, c := range byCompany {
		stats.TopCompanies = append(stats.TopCompanies, *c)
	}
	sort.Slice(stats.TopCompanies, func(i, k int) bool {
		a, b := stats.TopCompanies[i], stats.TopCompanies[k]
		if a.JobCount != b.JobCount {
			return a.JobCount > b.JobCount
		}
		return a.CompanyID < b.CompanyID
	})
	if len(stats.TopCompanies) > top {
		stats.TopCompanies = stats.TopCompanies[:top]
	}
	return stats, nil
}

func (r *stubJobRepo) IncrementViews(_ context.Context, jobID string) error {
	if j, ok := r.jobs[jobID]; ok {
		j.Views++
	}
	return nil
}

// fixture wires the services over in-memory stores, a fast bcrypt cost and
// the real token manager.
type fixture struct {
	employees *stubAccountRepo
	companies *stubAccountRepo
	jobs      *stubJobRepo
	counters  *stubCounters
	views     *stubViews
	hasher    *security.BcryptHasher
	tokens    *security.JWTManager

	auth     *AuthService
	authn    *Authenticator
	profiles *ProfileService
	jobSvc   *JobService
}

func newFixture(denylist ports.TokenDenylist) *fixture {
	f := &fixture{
		employees: newStubAccountRepo(domain.KindEmployee, "emp"),
		companies: newStubAccountRepo(domain.KindCompany, "co"),
		jobs:      newStubJobRepo(),
		counters:  &stubCounters{},
		views:     &stubViews{},
		hasher:    security.NewBcryptHasher(bcrypt.MinCost),
	}
	tokens, err := security.NewJWTManager("test-secret", security.DefaultTokenTTL)
	if err != nil {
		panic(err)
	}
	f.tokens = tokens

	log := zerolog.Nop()
	f.auth = NewAuthService(AuthDeps{
		Employees: f.employees,
		Companies: f.companies,
		Hasher:    f.hasher,
		Issuer:    tokens,
		Verifier:  tokens,
		Denylist:  denylist,
	}, log)
	f.authn = NewAuthenticator(tokens, f.auth.Resolver(), denylist, log)
	f.profiles = NewProfileService(f.auth.Resolver(), log)
	f.jobSvc = NewJobService(JobDeps{
		Jobs:      f.jobs,
		Employees: f.employees,
		Activity:  f.employees,
		Counters:  f.counters,
		Views:     f.views,
	}, log)
	return f
}

func (f *fixture) mustRegisterEmployee(email string) *ports.AuthResult {
	res, err := f.auth.RegisterEmployee(context.Background(), ports.RegisterEmployeeInput{
		Email: email, Password: "secret1", Name: "Ana",
	})
	if err != nil {
		panic(err)
	}
	return res
}

func (f *fixture) mustRegisterCompany(email string) *ports.AuthResult {
	res, err := f.auth.RegisterCompany(context.Background(), ports.RegisterCompanyInput{
		Email: email, Password: "secret1", Name: "Acme", Industry: "Software", Location: "Lima",
	})
	if err != nil {
		panic(err)
	}
	return res
}

// memDenylist is an in-memory ports.TokenDenylist.
type memDenylist struct {
	revoked map[string]time.Time
	err     error
}

func newMemDenylist() *memDenylist { return &memDenylist{revoked: make(map[string]time.Time)} }

func (d *memDenylist) Revoke(_ context.Context, token string, until time.Time) error {
	d.revoked[token] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[token]
	return ok, nil
}

var (
	_ ports.AccountRepository          = (*stubAccountRepo)(nil)
	_ ports.EmployeeActivityRepository = (*stubAccountRepo)(nil)
	_ ports.JobRepository              = (*stubJobRepo)(nil)
)
