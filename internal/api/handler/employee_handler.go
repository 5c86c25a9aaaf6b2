package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/api/metrics"
	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// EmployeeHandler serves the routes of the employee role. Every route is
// mounted behind RequireRole(employee).
type EmployeeHandler struct {
	profiles ports.ProfileService
	jobs     ports.JobService
}

func NewEmployeeHandler(profiles ports.ProfileService, jobs ports.JobService) *EmployeeHandler {
	return &EmployeeHandler{profiles: profiles, jobs: jobs}
}

// GetProfile handles GET /employee/profile.
//
// @Summary      Get own employee profile
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /employee/profile [get]
func (h *EmployeeHandler) GetProfile(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), domain.KindEmployee, acct.ID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Account: profile})
}

// UpdateProfile handles PUT /employee/profile.
//
// @Summary      Update own employee profile
// @Tags         employee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employeeProfileRequest  true  "Profile fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Router       /employee/profile [put]
func (h *EmployeeHandler) UpdateProfile(c echo.Context) error {
	var req employeeProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Employee: req.toDomain()})
}

// UpdateSkills handles PUT /employee/skills.
//
// @Summary      Replace skills
// @Tags         employee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      skillsRequest  true  "Skills"
// @Success      200   {object}  accountResponse
// @Router       /employee/skills [put]
func (h *EmployeeHandler) UpdateSkills(c echo.Context) error {
	var req skillsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Skills: &req.Skills})
}

// UpdateLanguages handles PUT /employee/languages.
//
// @Summary      Replace languages
// @Tags         employee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      languagesRequest  true  "Languages"
// @Success      200   {object}  accountResponse
// @Router       /employee/languages [put]
func (h *EmployeeHandler) UpdateLanguages(c echo.Context) error {
	var req languagesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Languages: &req.Languages})
}

// UpdateAvatar handles PUT /employee/avatar.
//
// @Summary      Set avatar URL
// @Tags         employee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      imageRequest  true  "Image URL"
// @Success      200   {object}  accountResponse
// @Router       /employee/avatar [put]
func (h *EmployeeHandler) UpdateAvatar(c echo.Context) error {
	var req imageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Avatar: &req.URL})
}

func (h *EmployeeHandler) update(c echo.Context, update domain.AccountUpdate) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	updated, err := h.profiles.Update(c.Request().Context(), domain.KindEmployee, acct.ID(), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Account: updated})
}

// Apply handles POST /employee/jobs/:id/apply.
//
// @Summary      Apply to a job
// @Tags         employee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true   "Job id"
// @Param        body  body      applyRequest  false  "CV link and cover letter"
// @Success      201   {object}  applicationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /employee/jobs/{id}/apply [post]
func (h *EmployeeHandler) Apply(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.jobs.Apply(c.Request().Context(), acct.ID(), c.Param("id"), req.CV, req.CoverLetter)
	if err != nil {
		return err
	}
	metrics.ApplicationsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, applicationResponse{Application: app})
}

// Applications handles GET /employee/applications.
//
// @Summary      List own applications
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  employeeApplicationsResponse
// @Router       /employee/applications [get]
func (h *EmployeeHandler) Applications(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	views, err := h.jobs.EmployeeApplications(c.Request().Context(), acct.ID())
	if err != nil {
		return err
	}

	items := make([]employeeApplicationItem, 0, len(views))
	for _, v := range views {
		items = append(items, employeeApplicationItem{EmployeeApplication: v.Application, Job: v.Job})
	}
	return c.JSON(http.StatusOK, employeeApplicationsResponse{Applications: items})
}

// ToggleSaved handles POST /employee/saved-jobs/:id.
//
// @Summary      Save or unsave a job
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job id"
// @Success      200 {object}  savedToggleResponse
// @Failure      404 {object}  errorResponse
// @Router       /employee/saved-jobs/{id} [post]
func (h *EmployeeHandler) ToggleSaved(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	saved, err := h.jobs.ToggleSavedJob(c.Request().Context(), acct.ID(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, savedToggleResponse{Saved: saved})
}

// SavedJobs handles GET /employee/saved-jobs.
//
// @Summary      List saved jobs
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobsResponse
// @Router       /employee/saved-jobs [get]
func (h *EmployeeHandler) SavedJobs(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.SavedJobs(c.Request().Context(), acct.ID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobsResponse{Jobs: jobs})
}
