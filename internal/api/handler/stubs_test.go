package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

type stubAuthService struct {
	registerEmployeeFn func(ctx context.Context, in ports.RegisterEmployeeInput) (*ports.AuthResult, error)
	registerCompanyFn  func(ctx context.Context, in ports.RegisterCompanyInput) (*ports.AuthResult, error)
	loginFn            func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn           func(ctx context.Context, token string) error
	changePasswordFn   func(ctx context.Context, accountID, current, next string) error
	setActiveFn        func(ctx context.Context, accountID string, active bool) (*domain.Account, error)
}

func (s *stubAuthService) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*ports.AuthResult, error) {
	return s.registerEmployeeFn(ctx, in)
}

func (s *stubAuthService) RegisterCompany(ctx context.Context, in ports.RegisterCompanyInput) (*ports.AuthResult, error) {
	return s.registerCompanyFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	return s.changePasswordFn(ctx, accountID, current, next)
}

func (s *stubAuthService) SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	return s.setActiveFn(ctx, accountID, active)
}

type stubProfileService struct {
	getFn    func(ctx context.Context, kind domain.AccountKind, id string) (*domain.Account, error)
	updateFn func(ctx context.Context, kind domain.AccountKind, id string, update domain.AccountUpdate) (*domain.Account, error)
}

func (s *stubProfileService) Get(ctx context.Context, kind domain.AccountKind, id string) (*domain.Account, error) {
	return s.getFn(ctx, kind, id)
}

func (s *stubProfileService) Update(ctx context.Context, kind domain.AccountKind, id string, update domain.AccountUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, kind, id, update)
}

// stubJobService only implements what a test sets; calling anything else
// panics on the nil func.
type stubJobService struct {
	listFn         func(ctx context.Context, filter ports.ListJobsFilter) (*ports.JobPage, error)
	featuredFn     func(ctx context.Context) ([]*domain.Job, error)
	getFn          func(ctx context.Context, jobID string, viewer *domain.Account) (*ports.JobDetail, error)
	statsFn        func(ctx context.Context) (*domain.JobStats, error)
	createFn       func(ctx context.Context, company *domain.Account, in ports.CreateJobInput) (*domain.Job, error)
	companyJobsFn  func(ctx context.Context, companyID string, status ports.JobStatusFilter, page, limit int) (*ports.JobPage, error)
	updateFn       func(ctx context.Context, companyID, jobID string, update domain.JobUpdate) (*domain.Job, error)
	deleteFn       func(ctx context.Context, companyID, jobID string) error
	applicationsFn func(ctx context.Context, companyID, jobID string, status domain.ApplicationStatus, page, limit int) (*ports.ApplicationPage, error)
	updateStatusFn func(ctx context.Context, companyID, jobID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error)
	applyFn        func(ctx context.Context, employeeID, jobID, cv, coverLetter string) (*domain.EmployeeApplication, error)
	employeeAppsFn func(ctx context.Context, employeeID string) ([]ports.EmployeeApplicationView, error)
	toggleSavedFn  func(ctx context.Context, employeeID, jobID string) (bool, error)
	savedJobsFn    func(ctx context.Context, employeeID string) ([]*domain.Job, error)
}

func (s *stubJobService) ListJobs(ctx context.Context, filter ports.ListJobsFilter) (*ports.JobPage, error) {
	return s.listFn(ctx, filter)
}

func (s *stubJobService) FeaturedJobs(ctx context.Context) ([]*domain.Job, error) {
	return s.featuredFn(ctx)
}

func (s *stubJobService) Stats(ctx context.Context) (*domain.JobStats, error) {
	return s.statsFn(ctx)
}

func (s *stubJobService) GetJob(ctx context.Context, jobID string, viewer *domain.Account) (*ports.JobDetail, error) {
	return s.getFn(ctx, jobID, viewer)
}

func (s *stubJobService) CreateJob(ctx context.Context, company *domain.Account, in ports.CreateJobInput) (*domain.Job, error) {
	return s.createFn(ctx, company, in)
}

func (s *stubJobService) CompanyJobs(ctx context.Context, companyID string, status ports.JobStatusFilter, page, limit int) (*ports.JobPage, error) {
	return s.companyJobsFn(ctx, companyID, status, page, limit)
}

func (s *stubJobService) UpdateJob(ctx context.Context, companyID, jobID string, update domain.JobUpdate) (*domain.Job, error) {
	return s.updateFn(ctx, companyID, jobID, update)
}

func (s *stubJobService) DeleteJob(ctx context.Context, companyID, jobID string) error {
	return s.deleteFn(ctx, companyID, jobID)
}

func (s *stubJobService) JobApplications(ctx context.Context, companyID, jobID string, status domain.ApplicationStatus, page, limit int) (*ports.ApplicationPage, error) {
	return s.applicationsFn(ctx, companyID, jobID, status, page, limit)
}

func (s *stubJobService) UpdateApplicationStatus(ctx context.Context, companyID, jobID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	return s.updateStatusFn(ctx, companyID, jobID, applicationID, status)
}

func (s *stubJobService) Apply(ctx context.Context, employeeID, jobID, cv, coverLetter string) (*domain.EmployeeApplication, error) {
	return s.applyFn(ctx, employeeID, jobID, cv, coverLetter)
}

func (s *stubJobService) EmployeeApplications(ctx context.Context, employeeID string) ([]ports.EmployeeApplicationView, error) {
	return s.employeeAppsFn(ctx, employeeID)
}

func (s *stubJobService) ToggleSavedJob(ctx context.Context, employeeID, jobID string) (bool, error) {
	return s.toggleSavedFn(ctx, employeeID, jobID)
}

func (s *stubJobService) SavedJobs(ctx context.Context, employeeID string) ([]*domain.Job, error) {
	return s.savedJobsFn(ctx, employeeID)
}

func employee(id string) *domain.Account {
	return domain.NewEmployeeAccount(&domain.Employee{ID: id, Email: id + "@example.com", Role: domain.RoleEmployee, Name: "Ana", IsActive: true})
}

func company(id string) *domain.Account {
	return domain.NewCompanyAccount(&domain.Company{ID: id, Email: id + "@acme.io", Role: domain.RoleCompany, Name: "Acme", IsActive: true})
}

// newContext builds an echo context with a JSON body and, when acct is not
// nil, the principal an access guard would have attached.
func newContext(method, target, body string, acct *domain.Account) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if acct != nil {
		req = req.WithContext(domain.WithPrincipal(req.Context(), acct))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}
