package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Role determines authorization scope. It is independent of the collection an
// account is stored in: a company document may carry the admin role.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleCompany  Role = "company"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// AccountKind names the collection (variant) an account lives in.
type AccountKind string

const (
	KindEmployee AccountKind = "employee"
	KindCompany  AccountKind = "company"
)

// Language is a spoken language entry on an employee profile.
type Language struct {
	Language string `json:"language" bson:"language"`
	Level    string `json:"level"    bson:"level"`
}

// EmployeeApplication mirrors a job application on the applicant's side.
type EmployeeApplication struct {
	JobID       string            `json:"job_id"       bson:"job_id"`
	Status      ApplicationStatus `json:"status"       bson:"status"`
	AppliedDate time.Time         `json:"applied_date" bson:"applied_date"`
	LastUpdate  time.Time         `json:"last_update"  bson:"last_update"`
}

// Employee is a job seeker account.
type Employee struct {
	ID            string                `json:"id"                  bson:"_id,omitempty"`
	Email         string                `json:"email"               bson:"email"`
	PasswordHash  string                `json:"-"                   bson:"password,omitempty"`
	Role          Role                  `json:"role"                bson:"role"`
	Name          string                `json:"name"                bson:"name"`
	Phone         string                `json:"phone,omitempty"     bson:"phone,omitempty"`
	Location      string                `json:"location,omitempty"  bson:"location,omitempty"`
	Title         string                `json:"title,omitempty"     bson:"title,omitempty"`
	Experience    string                `json:"experience,omitempty" bson:"experience,omitempty"`
	Education     string                `json:"education,omitempty" bson:"education,omitempty"`
	Bio           string                `json:"bio,omitempty"       bson:"bio,omitempty"`
	Skills        []string              `json:"skills"              bson:"skills"`
	Languages     []Language            `json:"languages"           bson:"languages"`
	Avatar        string                `json:"avatar"              bson:"avatar"`
	CoverImage    string                `json:"cover_image"         bson:"cover_image"`
	Applications  []EmployeeApplication `json:"applications"        bson:"applications"`
	SavedJobs     []string              `json:"saved_jobs"          bson:"saved_jobs"`
	IsActive      bool                  `json:"is_active"           bson:"is_active"`
	EmailVerified bool                  `json:"email_verified"      bson:"email_verified"`
	CreatedAt     time.Time             `json:"created_at"          bson:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"          bson:"updated_at"`
}

// HasApplied reports whether the employee already applied to jobID.
func (e *Employee) HasApplied(jobID string) bool {
	for _, a := range e.Applications {
		if a.JobID == jobID {
			return true
		}
	}
	return false
}

// HasSaved reports whether jobID is in the employee's saved list.
func (e *Employee) HasSaved(jobID string) bool {
	for _, id := range e.SavedJobs {
		if id == jobID {
			return true
		}
	}
	return false
}

// Company is an employer account.
type Company struct {
	ID            string    `json:"id"                    bson:"_id,omitempty"`
	Email         string    `json:"email"                 bson:"email"`
	PasswordHash  string    `json:"-"                     bson:"password,omitempty"`
	Role          Role      `json:"role"                  bson:"role"`
	Name          string    `json:"name"                  bson:"name"`
	Industry      string    `json:"industry"              bson:"industry"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	Founded       string    `json:"founded,omitempty"     bson:"founded,omitempty"`
	Employees     string    `json:"employees,omitempty"   bson:"employees,omitempty"`
	Location      string    `json:"location"              bson:"location"`
	Website       string    `json:"website,omitempty"     bson:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"       bson:"phone,omitempty"`
	Logo          string    `json:"logo"                  bson:"logo"`
	CoverImage    string    `json:"cover_image"           bson:"cover_image"`
	Size          string    `json:"size"                  bson:"size"`
	Type          string    `json:"type"                  bson:"type"`
	Specialties   []string  `json:"specialties"           bson:"specialties"`
	Benefits      []string  `json:"benefits"              bson:"benefits"`
	ActiveJobs    int       `json:"active_jobs"           bson:"active_jobs"`
	TotalJobs     int       `json:"total_jobs"            bson:"total_jobs"`
	IsActive      bool      `json:"is_active"             bson:"is_active"`
	EmailVerified bool      `json:"email_verified"        bson:"email_verified"`
	Verified      bool      `json:"verified"              bson:"verified"`
	CreatedAt     time.Time `json:"created_at"            bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"            bson:"updated_at"`
}

// Profile defaults applied when an account is first created.
const (
	DefaultAvatar        = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"
	DefaultEmployeeCover = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=1200&h=300&fit=crop"
	DefaultCompanyLogo   = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=150&h=150&fit=crop"
	DefaultCompanyCover  = "https://images.unsplash.com/photo-1497366216548-37526070297c?w=1200&h=300&fit=crop"
	DefaultCompanySize   = "medium"
	DefaultCompanyType   = "private"
	DefaultLanguageLevel = "intermediate"
	MinPasswordLength    = 6
)

// Account is a credentialed identity: exactly one of Employee or Company is set,
// and Kind tells which.
type Account struct {
	Kind     AccountKind
	Employee *Employee
	Company  *Company
}

// NewEmployeeAccount wraps e as an Account.
func NewEmployeeAccount(e *Employee) *Account {
	return &Account{Kind: KindEmployee, Employee: e}
}

// NewCompanyAccount wraps c as an Account.
func NewCompanyAccount(c *Company) *Account {
	return &Account{Kind: KindCompany, Company: c}
}

func (a *Account) ID() string {
	if a.Kind == KindCompany {
		return a.Company.ID
	}
	return a.Employee.ID
}

func (a *Account) Email() string {
	if a.Kind == KindCompany {
		return a.Company.Email
	}
	return a.Employee.Email
}

func (a *Account) Name() string {
	if a.Kind == KindCompany {
		return a.Company.Name
	}
	return a.Employee.Name
}

func (a *Account) Role() Role {
	if a.Kind == KindCompany {
		return a.Company.Role
	}
	return a.Employee.Role
}

func (a *Account) IsActive() bool {
	if a.Kind == KindCompany {
		return a.Company.IsActive
	}
	return a.Employee.IsActive
}

// PasswordHash returns the stored secret. It is empty for accounts loaded
// without the secret projection.
func (a *Account) PasswordHash() string {
	if a.Kind == KindCompany {
		return a.Company.PasswordHash
	}
	return a.Employee.PasswordHash
}

// IsCompany reports whether the account lives in the company collection.
func (a *Account) IsCompany() bool { return a.Kind == KindCompany }

// ClearSecret drops the password hash from the in-memory value.
func (a *Account) ClearSecret() {
	if a.Kind == KindCompany {
		a.Company.PasswordHash = ""
		return
	}
	a.Employee.PasswordHash = ""
}

// MarshalJSON renders the concrete variant. The password hash is never part of
// the output because both variants tag it json:"-".
func (a *Account) MarshalJSON() ([]byte, error) {
	if a.Kind == KindCompany {
		return json.Marshal(a.Company)
	}
	return json.Marshal(a.Employee)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmployeeProfile holds optional employee profile changes; nil fields are left untouched.
type EmployeeProfile struct {
	Name       *string
	Phone      *string
	Location   *string
	Title      *string
	Experience *string
	Education  *string
	Bio        *string
	CoverImage *string
}

// CompanyProfile holds optional company profile changes; nil fields are left untouched.
type CompanyProfile struct {
	Name        *string
	Industry    *string
	Description *string
	Founded     *string
	Employees   *string
	Location    *string
	Website     *string
	Phone       *string
	Size        *string
	Type        *string
	CoverImage  *string
}

// AccountUpdate is a partial update applied to a single account document.
// Password carries the plaintext; it is hashed before reaching the store.
type AccountUpdate struct {
	Password *string
	IsActive *bool

	Employee  *EmployeeProfile
	Skills    *[]string
	Languages *[]Language
	Avatar    *string

	Company     *CompanyProfile
	Specialties *[]string
	Benefits    *[]string
	Logo        *string
}

// TouchesSecret reports whether the update changes the password.
func (u AccountUpdate) TouchesSecret() bool { return u.Password != nil }
