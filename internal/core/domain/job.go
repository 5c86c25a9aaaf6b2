package domain

import "time"

// JobType is the contract type of a posting.
type JobType string

const (
	JobFullTime   JobType = "full_time"
	JobPartTime   JobType = "part_time"
	JobContract   JobType = "contract"
	JobFreelance  JobType = "freelance"
	JobInternship JobType = "internship"
)

// ExperienceLevel is the seniority a posting targets.
type ExperienceLevel string

const (
	LevelJunior    ExperienceLevel = "junior"
	LevelMid       ExperienceLevel = "mid_level"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationApplied            ApplicationStatus = "applied"
	ApplicationInReview           ApplicationStatus = "in_review"
	ApplicationInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationAccepted           ApplicationStatus = "accepted"
	ApplicationRejected           ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationApplied, ApplicationInReview, ApplicationInterviewScheduled,
		ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Application is an employee's application embedded in a job document.
type Application struct {
	ID          string            `json:"id"                     bson:"_id"`
	EmployeeID  string            `json:"employee_id"            bson:"employee_id"`
	Status      ApplicationStatus `json:"status"                 bson:"status"`
	AppliedDate time.Time         `json:"applied_date"           bson:"applied_date"`
	LastUpdate  time.Time         `json:"last_update"            bson:"last_update"`
	CV          string            `json:"cv,omitempty"           bson:"cv,omitempty"`
	CoverLetter string            `json:"cover_letter,omitempty" bson:"cover_letter,omitempty"`
}

// Job is a posting owned by a company.
type Job struct {
	ID                string          `json:"id"                     bson:"_id,omitempty"`
	Title             string          `json:"title"                  bson:"title"`
	CompanyID         string          `json:"company_id"             bson:"company_id"`
	CompanyName       string          `json:"company_name"           bson:"company_name"`
	Location          string          `json:"location"               bson:"location"`
	Type              JobType         `json:"type"                   bson:"type"`
	Salary            string          `json:"salary"                 bson:"salary"`
	Description       string          `json:"description"            bson:"description"`
	Requirements      []string        `json:"requirements"           bson:"requirements"`
	Responsibilities  []string        `json:"responsibilities"       bson:"responsibilities"`
	Benefits          []string        `json:"benefits"               bson:"benefits"`
	Tags              []string        `json:"tags"                   bson:"tags"`
	Logo              string          `json:"logo"                   bson:"logo"`
	Featured          bool            `json:"featured"               bson:"featured"`
	IsActive          bool            `json:"is_active"              bson:"is_active"`
	ExperienceLevel   ExperienceLevel `json:"experience_level"       bson:"experience_level"`
	Remote            bool            `json:"remote"                 bson:"remote"`
	Hybrid            bool            `json:"hybrid"                 bson:"hybrid"`
	Onsite            bool            `json:"onsite"                 bson:"onsite"`
	Applications      []Application   `json:"applications,omitempty" bson:"applications"`
	ApplicationsCount int             `json:"applications_count"     bson:"applications_count"`
	Views             int64           `json:"views"                  bson:"views"`
	CreatedAt         time.Time       `json:"created_at"             bson:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"             bson:"updated_at"`
}

// Public returns a copy of the job without the applicant list.
func (j *Job) Public() *Job {
	clone := *j
	clone.Applications = nil
	return &clone
}

// ApplicationByEmployee returns the application submitted by employeeID, if any.
func (j *Job) ApplicationByEmployee(employeeID string) (*Application, bool) {
	for i := range j.Applications {
		if j.Applications[i].EmployeeID == employeeID {
			return &j.Applications[i], true
		}
	}
	return nil, false
}

// JobStats summarises the active postings on the board.
type JobStats struct {
	ActiveJobs        int64             `json:"total_jobs"`
	FeaturedJobs      int64             `json:"featured_jobs"`
	TotalApplications int64             `json:"total_applications"`
	TopCompanies      []CompanyJobCount `json:"top_companies"`
}

// CompanyJobCount is a company ranked by its number of active postings.
type CompanyJobCount struct {
	CompanyID string `json:"company_id" bson:"_id"`
	Name      string `json:"name"       bson:"name"`
	JobCount  int64  `json:"job_count"  bson:"job_count"`
}

// JobUpdate holds optional changes to a posting; nil fields are left untouched.
type JobUpdate struct {
	Title            *string
	Location         *string
	Type             *JobType
	Salary           *string
	Description      *string
	Requirements     *[]string
	Responsibilities *[]string
	Benefits         *[]string
	Tags             *[]string
	ExperienceLevel  *ExperienceLevel
	Remote           *bool
	Hybrid           *bool
	Onsite           *bool
	IsActive         *bool
}
