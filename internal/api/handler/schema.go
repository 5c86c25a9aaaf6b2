package handler

import (
	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerEmployeeRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Title    string `json:"title"`
}

type registerCompanyRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
	Industry string `json:"industry" validate:"required"`
	Location string `json:"location" validate:"required"`
	Website  string `json:"website"  validate:"omitempty,url"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

type authResponse struct {
	Token     string          `json:"token,omitempty"`
	Account   *domain.Account `json:"account"`
	IsCompany bool            `json:"is_company"`
}

// --- Profiles ---

type employeeProfileRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Location   *string `json:"location"`
	Title      *string `json:"title"`
	Experience *string `json:"experience"`
	Education  *string `json:"education"`
	Bio        *string `json:"bio"        validate:"omitempty,max=1000"`
	CoverImage *string `json:"cover_image" validate:"omitempty,url"`
}

func (r employeeProfileRequest) toDomain() *domain.EmployeeProfile {
	return &domain.EmployeeProfile{
		Name:       r.Name,
		Phone:      r.Phone,
		Location:   r.Location,
		Title:      r.Title,
		Experience: r.Experience,
		Education:  r.Education,
		Bio:        r.Bio,
		CoverImage: r.CoverImage,
	}
}

type companyProfileRequest struct {
	Name        *string `json:"name"`
	Industry    *string `json:"industry"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Founded     *string `json:"founded"`
	Employees   *string `json:"employees"`
	Location    *string `json:"location"`
	Website     *string `json:"website"     validate:"omitempty,url"`
	Phone       *string `json:"phone"`
	Size        *string `json:"size"        validate:"omitempty,oneof=startup small medium large enterprise"`
	Type        *string `json:"type"        validate:"omitempty,oneof=private public nonprofit government"`
	CoverImage  *string `json:"cover_image" validate:"omitempty,url"`
}

func (r companyProfileRequest) toDomain() *domain.CompanyProfile {
	return &domain.CompanyProfile{
		Name:        r.Name,
		Industry:    r.Industry,
		Description: r.Description,
		Founded:     r.Founded,
		Employees:   r.Employees,
		Location:    r.Location,
		Website:     r.Website,
		Phone:       r.Phone,
		Size:        r.Size,
		Type:        r.Type,
		CoverImage:  r.CoverImage,
	}
}

type skillsRequest struct {
	Skills []string `json:"skills" validate:"required"`
}

type languagesRequest struct {
	Languages []domain.Language `json:"languages" validate:"required"`
}

type listRequest struct {
	Items []string `json:"items" validate:"required"`
}

type imageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type accountResponse struct {
	Account *domain.Account `json:"account"`
}

// --- Jobs ---

type createJobRequest struct {
	Title            string   `json:"title"            validate:"required"`
	Location         string   `json:"location"         validate:"required"`
	Type             string   `json:"type"             validate:"required,oneof=full_time part_time contract freelance internship"`
	Salary           string   `json:"salary"           validate:"required"`
	Description      string   `json:"description"      validate:"required"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	Tags             []string `json:"tags"`
	ExperienceLevel  string   `json:"experience_level" validate:"omitempty,oneof=junior mid_level senior lead executive"`
	Remote           bool     `json:"remote"`
	Hybrid           bool     `json:"hybrid"`
	Onsite           *bool    `json:"onsite"`
}

func (r createJobRequest) toInput() ports.CreateJobInput {
	onsite := true
	if r.Onsite != nil {
		onsite = *r.Onsite
	}
	return ports.CreateJobInput{
		Title:            r.Title,
		Location:         r.Location,
		Type:             domain.JobType(r.Type),
		Salary:           r.Salary,
		Description:      r.Description,
		Requirements:     r.Requirements,
		Responsibilities: r.Responsibilities,
		Benefits:         r.Benefits,
		Tags:             r.Tags,
		ExperienceLevel:  domain.ExperienceLevel(r.ExperienceLevel),
		Remote:           r.Remote,
		Hybrid:           r.Hybrid,
		Onsite:           onsite,
	}
}

type updateJobRequest struct {
	Title            *string   `json:"title"`
	Location         *string   `json:"location"`
	Type             *string   `json:"type"             validate:"omitempty,oneof=full_time part_time contract freelance internship"`
	Salary           *string   `json:"salary"`
	Description      *string   `json:"description"`
	Requirements     *[]string `json:"requirements"`
	Responsibilities *[]string `json:"responsibilities"`
	Benefits         *[]string `json:"benefits"`
	Tags             *[]string `json:"tags"`
	ExperienceLevel  *string   `json:"experience_level" validate:"omitempty,oneof=junior mid_level senior lead executive"`
	Remote           *bool     `json:"remote"`
	Hybrid           *bool     `json:"hybrid"`
	Onsite           *bool     `json:"onsite"`
	IsActive         *bool     `json:"is_active"`
}

func (r updateJobRequest) toDomain() domain.JobUpdate {
	u := domain.JobUpdate{
		Title:            r.Title,
		Location:         r.Location,
		Salary:           r.Salary,
		Description:      r.Description,
		Requirements:     r.Requirements,
		Responsibilities: r.Responsibilities,
		Benefits:         r.Benefits,
		Tags:             r.Tags,
		Remote:           r.Remote,
		Hybrid:           r.Hybrid,
		Onsite:           r.Onsite,
		IsActive:         r.IsActive,
	}
	if r.Type != nil {
		t := domain.JobType(*r.Type)
		u.Type = &t
	}
	if r.ExperienceLevel != nil {
		l := domain.ExperienceLevel(*r.ExperienceLevel)
		u.ExperienceLevel = &l
	}
	return u
}

type applyRequest struct {
	CV          string `json:"cv"           validate:"omitempty,url"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=5000"`
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=applied in_review interview_scheduled accepted rejected"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func toPagination(p ports.Pagination) paginationResponse {
	return paginationResponse{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}

type jobListResponse struct {
	Jobs       []*domain.Job      `json:"jobs"`
	Pagination paginationResponse `json:"pagination"`
}

type jobResponse struct {
	Job *domain.Job `json:"job"`
}

// jobDetailResponse carries has_applied and saved only for employee viewers.
type jobDetailResponse struct {
	Job        *domain.Job   `json:"job"`
	Related    []*domain.Job `json:"related_jobs"`
	HasApplied *bool         `json:"has_applied,omitempty"`
	Saved      *bool         `json:"saved,omitempty"`
}

type applicationListResponse struct {
	Applications []domain.Application `json:"applications"`
	Pagination   paginationResponse   `json:"pagination"`
}

type applicationResponse struct {
	Application any `json:"application"`
}

type employeeApplicationItem struct {
	domain.EmployeeApplication
	Job *domain.Job `json:"job,omitempty"`
}

type employeeApplicationsResponse struct {
	Applications []employeeApplicationItem `json:"applications"`
}

type savedToggleResponse struct {
	Saved bool `json:"saved"`
}

type jobStatsResponse struct {
	Stats *domain.JobStats `json:"stats"`
}

type jobsResponse struct {
	Jobs []*domain.Job `json:"jobs"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
