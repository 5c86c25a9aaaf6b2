package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
	"github.com/palaup/jobboard/internal/core/service"
	"github.com/palaup/jobboard/internal/infrastructure/security"
)

// memAccounts is an in-memory ports.AccountRepository for one variant.
type memAccounts struct {
	mu     sync.Mutex
	kind   domain.AccountKind
	prefix string
	seq    int
	byID   map[string]*domain.Account
}

func newMemAccounts(kind domain.AccountKind, prefix string) *memAccounts {
	return &memAccounts{kind: kind, prefix: prefix, byID: map[string]*domain.Account{}}
}

func (m *memAccounts) Kind() domain.AccountKind { return m.kind }

func (m *memAccounts) FindByID(_ context.Context, id string, withSecret bool) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	c := clone(acct)
	if !withSecret {
		c.ClearSecret()
	}
	return c, nil
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acct := range m.byID {
		if acct.Email() == email {
			return clone(acct), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *memAccounts) Create(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email() == acct.Email() {
			return nil, domain.ErrDuplicateEmail
		}
	}
	m.seq++
	id := fmt.Sprintf("%s%d", m.prefix, m.seq)
	if acct.Kind == domain.KindCompany {
		acct.Company.ID = id
	} else {
		acct.Employee.ID = id
	}
	m.byID[id] = clone(acct)
	return acct, nil
}

func (m *memAccounts) UpdateByID(_ context.Context, id string, u domain.AccountUpdate) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if acct.Kind == domain.KindCompany {
		if u.IsActive != nil {
			acct.Company.IsActive = *u.IsActive
		}
		if u.Password != nil {
			acct.Company.PasswordHash = *u.Password
		}
		if u.Company != nil && u.Company.Name != nil {
			acct.Company.Name = *u.Company.Name
		}
	} else {
		if u.IsActive != nil {
			acct.Employee.IsActive = *u.IsActive
		}
		if u.Password != nil {
			acct.Employee.PasswordHash = *u.Password
		}
		if u.Employee != nil && u.Employee.Title != nil {
			acct.Employee.Title = *u.Employee.Title
		}
	}
	c := clone(acct)
	c.ClearSecret()
	return c, nil
}

func clone(a *domain.Account) *domain.Account {
	if a.Kind == domain.KindCompany {
		c := *a.Company
		return domain.NewCompanyAccount(&c)
	}
	e := *a.Employee
	return domain.NewEmployeeAccount(&e)
}

// publicJobs serves the public board for routing checks; other methods are
// not reachable from these tests.
type publicJobs struct {
	ports.JobService
}

func (publicJobs) ListJobs(context.Context, ports.ListJobsFilter) (*ports.JobPage, error) {
	return &ports.JobPage{Jobs: []*domain.Job{}, Pagination: ports.Pagination{Page: 1, Limit: 10}}, nil
}

func (publicJobs) GetJob(_ context.Context, id string, viewer *domain.Account) (*ports.JobDetail, error) {
	if id != "j1" {
		return nil, domain.ErrJobNotFound
	}
	return &ports.JobDetail{Job: &domain.Job{ID: id, IsActive: true}, HasApplied: viewer != nil}, nil
}

func (publicJobs) Stats(context.Context) (*domain.JobStats, error) {
	return &domain.JobStats{ActiveJobs: 3, TopCompanies: []domain.CompanyJobCount{}}, nil
}

type testServer struct {
	e         *echo.Echo
	employees *memAccounts
	companies *memAccounts
	tokens    *security.JWTManager
}

func newTestServer(t *testing.T, loginRate float64) *testServer {
	t.Helper()
	tokens, err := security.NewJWTManager("router-test-secret", security.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	employees := newMemAccounts(domain.KindEmployee, "e")
	companies := newMemAccounts(domain.KindCompany, "c")
	log := zerolog.Nop()

	auth := service.NewAuthService(service.AuthDeps{
		Employees: employees,
		Companies: companies,
		Hasher:    security.NewBcryptHasher(bcrypt.MinCost),
		Issuer:    tokens,
		Verifier:  tokens,
	}, log)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Auth:          auth,
		Authenticator: service.NewAuthenticator(tokens, auth.Resolver(), nil, log),
		Profiles:      service.NewProfileService(auth.Resolver(), log),
		Jobs:          publicJobs{},
		CORSOrigins:   []string{"*"},
		LoginRate:     loginRate,
		LoginBurst:    1,
		Registerer:    reg,
		Gatherer:      reg,
		Log:           log,
	})
	return &testServer{e: e, employees: employees, companies: companies, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec.Code, resp
}

func (s *testServer) register(t *testing.T, kind, email string) (string, string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"secret1","name":"Ana"}`, email)
	if kind == "company" {
		body = fmt.Sprintf(`{"email":%q,"password":"secret1","name":"Acme","industry":"Software","location":"Lima"}`, email)
	}
	code, resp := s.do(t, http.MethodPost, "/auth/register/"+kind, "", body)
	if code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d %v", kind, code, resp)
	}
	acct := resp["account"].(map[string]any)
	return resp["token"].(string), acct["id"].(string)
}

func TestRouter_RegisterThenMe(t *testing.T) {
	s := newTestServer(t, 0)
	token, id := s.register(t, "employee", "ana@example.com")

	code, resp := s.do(t, http.MethodGet, "/auth/me", token, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, resp)
	}
	acct := resp["account"].(map[string]any)
	if acct["id"] != id || resp["is_company"] != false {
		t.Fatalf("unexpected me payload: %v", resp)
	}
	if _, leaked := acct["password"]; leaked {
		t.Fatalf("password hash leaked: %v", acct)
	}
}

func TestRouter_GuardRejections(t *testing.T) {
	s := newTestServer(t, 0)
	ghost, err := s.tokens.Issue("e999", domain.RoleEmployee)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name  string
		token string
		code  int
		msg   string
	}{
		{"missing header", "", http.StatusUnauthorized, "no token"},
		{"garbage token", "not.a.jwt", http.StatusUnauthorized, "invalid token"},
		{"unknown account", ghost, http.StatusUnauthorized, "not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := s.do(t, http.MethodGet, "/auth/me", tc.token, "")
			if code != tc.code || resp["error"] != tc.msg {
				t.Fatalf("expected %d %q, got %d %v", tc.code, tc.msg, code, resp)
			}
		})
	}
}

func TestRouter_RoleGuard(t *testing.T) {
	s := newTestServer(t, 0)
	companyToken, _ := s.register(t, "company", "hr@acme.io")
	employeeToken, _ := s.register(t, "employee", "ana@example.com")

	code, resp := s.do(t, http.MethodGet, "/employee/profile", companyToken, "")
	if code != http.StatusForbidden || resp["error"] != "forbidden" {
		t.Fatalf("expected 403 forbidden, got %d %v", code, resp)
	}

	code, _ = s.do(t, http.MethodGet, "/employee/profile", employeeToken, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200 for employee, got %d", code)
	}

	code, resp = s.do(t, http.MethodGet, "/company/profile", "", "")
	if code != http.StatusUnauthorized || resp["error"] != "no token" {
		t.Fatalf("expected 401 no token, got %d %v", code, resp)
	}
}

func TestRouter_LoginFailures(t *testing.T) {
	s := newTestServer(t, 0)
	s.register(t, "employee", "ana@example.com")

	code, resp := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"wrong-one"}`)
	if code != http.StatusUnauthorized || resp["error"] != "invalid credentials" {
		t.Fatalf("expected 401 invalid credentials, got %d %v", code, resp)
	}

	code, resp = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"nobody@example.com","password":"secret1"}`)
	if code != http.StatusUnauthorized || resp["error"] != "invalid credentials" {
		t.Fatalf("unknown email must look like a wrong password, got %d %v", code, resp)
	}

	code, _ = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"bad"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", code)
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t, 0)
	s.register(t, "employee", "ana@example.com")

	code, _ := s.do(t, http.MethodPost, "/auth/register/employee", "",
		`{"email":"ANA@example.com","password":"secret1","name":"Ana"}`)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}

	code, _ = s.do(t, http.MethodPost, "/auth/register/company", "",
		`{"email":"ana@example.com","password":"secret1","name":"Acme","industry":"Software","location":"Lima"}`)
	if code != http.StatusCreated {
		t.Fatalf("same email in the other store is allowed, got %d", code)
	}

	code, resp := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"secret1"}`)
	if code != http.StatusOK || resp["is_company"] != false {
		t.Fatalf("login must resolve the employee first, got %d %v", code, resp)
	}
}

func TestRouter_DeactivationBlocksLoginOnly(t *testing.T) {
	s := newTestServer(t, 0)
	employeeToken, employeeID := s.register(t, "employee", "ana@example.com")

	// Admins are stored as company documents carrying the admin role.
	admin, err := s.companies.Create(context.Background(), domain.NewCompanyAccount(&domain.Company{
		Email: "root@jobboard.io", Role: domain.RoleAdmin, Name: "Ops", IsActive: true,
	}))
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	adminToken, err := s.tokens.Issue(admin.ID(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	code, resp := s.do(t, http.MethodPatch, "/admin/accounts/"+employeeID+"/active", employeeToken, `{"is_active":false}`)
	if code != http.StatusForbidden {
		t.Fatalf("employee must not reach admin routes, got %d %v", code, resp)
	}

	code, resp = s.do(t, http.MethodPatch, "/admin/accounts/"+employeeID+"/active", adminToken, `{"is_active":false}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, resp)
	}

	code, resp = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"secret1"}`)
	if code != http.StatusUnauthorized || resp["error"] != "account inactive" {
		t.Fatalf("expected 401 account inactive, got %d %v", code, resp)
	}

	code, resp = s.do(t, http.MethodGet, "/auth/me", employeeToken, "")
	if code != http.StatusOK {
		t.Fatalf("previously issued token must keep working, got %d %v", code, resp)
	}
	if resp["account"].(map[string]any)["is_active"] != false {
		t.Fatalf("expected inactive account in payload: %v", resp)
	}

	code, _ = s.do(t, http.MethodPatch, "/admin/accounts/nobody/active", adminToken, `{"is_active":true}`)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", code)
	}
}

func TestRouter_OptionalAuthNeverRejects(t *testing.T) {
	s := newTestServer(t, 0)
	token, _ := s.register(t, "employee", "ana@example.com")

	code, resp := s.do(t, http.MethodGet, "/jobs/j1", "garbage", "")
	if code != http.StatusOK {
		t.Fatalf("invalid token on an optional route must pass, got %d %v", code, resp)
	}
	if _, ok := resp["has_applied"]; ok {
		t.Fatalf("anonymous viewer must not be personalised: %v", resp)
	}

	code, resp = s.do(t, http.MethodGet, "/jobs/j1", token, "")
	if code != http.StatusOK || resp["has_applied"] != true {
		t.Fatalf("expected personalised detail, got %d %v", code, resp)
	}

	code, _ = s.do(t, http.MethodGet, "/jobs/missing", "", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}

	code, _ = s.do(t, http.MethodGet, "/jobs", "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200 for listing, got %d", code)
	}
}

func TestRouter_JobStatsIsPublic(t *testing.T) {
	s := newTestServer(t, 0)

	code, resp := s.do(t, http.MethodGet, "/jobs/stats/overview", "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, resp)
	}
	stats, ok := resp["stats"].(map[string]any)
	if !ok || stats["total_jobs"] != float64(3) {
		t.Fatalf("expected stats payload, got %v", resp)
	}
}

func TestRouter_ChangePasswordThenLogin(t *testing.T) {
	s := newTestServer(t, 0)
	token, _ := s.register(t, "company", "hr@acme.io")

	code, _ := s.do(t, http.MethodPut, "/auth/password", token, `{"current_password":"secret1","new_password":"secret2"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, _ = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"hr@acme.io","password":"secret1"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("old password must fail, got %d", code)
	}
	code, resp := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"hr@acme.io","password":"secret2"}`)
	if code != http.StatusOK || resp["is_company"] != true {
		t.Fatalf("expected company login, got %d %v", code, resp)
	}
}

func TestRouter_LoginRateLimit(t *testing.T) {
	s := newTestServer(t, 0.001)

	body := `{"email":"ana@example.com","password":"secret1"}`
	if code, _ := s.do(t, http.MethodPost, "/auth/login", "", body); code != http.StatusUnauthorized {
		t.Fatalf("first attempt should reach the handler, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPost, "/auth/login", "", body); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", code)
	}
}

func TestRouter_Operations(t *testing.T) {
	s := newTestServer(t, 0)

	if code, resp := s.do(t, http.MethodGet, "/health", "", ""); code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("liveness: %d %v", code, resp)
	}
	if code, _ := s.do(t, http.MethodGet, "/health/ready", "", ""); code != http.StatusOK {
		t.Fatalf("readiness without dependencies: %d", code)
	}

	s.do(t, http.MethodGet, "/health", "", "")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "jobboard_requests_total") {
		t.Fatalf("expected http metrics, got %d", rec.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if len(rec.Header().Get(echo.HeaderXRequestID)) != 36 {
		t.Fatalf("expected uuid request id, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}
}
