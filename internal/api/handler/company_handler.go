package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/api/metrics"
	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// CompanyHandler serves the routes of the company role. Every route is
// mounted behind RequireRole(company).
type CompanyHandler struct {
	profiles ports.ProfileService
	jobs     ports.JobService
}

func NewCompanyHandler(profiles ports.ProfileService, jobs ports.JobService) *CompanyHandler {
	return &CompanyHandler{profiles: profiles, jobs: jobs}
}

// GetProfile handles GET /company/profile.
//
// @Summary      Get own company profile
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Router       /company/profile [get]
func (h *CompanyHandler) GetProfile(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), domain.KindCompany, acct.ID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Account: profile})
}

// UpdateProfile handles PUT /company/profile.
//
// @Summary      Update own company profile
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyProfileRequest  true  "Profile fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Router       /company/profile [put]
func (h *CompanyHandler) UpdateProfile(c echo.Context) error {
	var req companyProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Company: req.toDomain()})
}

// UpdateSpecialties handles PUT /company/specialties.
//
// @Summary      Replace specialties
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      listRequest  true  "Specialties"
// @Success      200   {object}  accountResponse
// @Router       /company/specialties [put]
func (h *CompanyHandler) UpdateSpecialties(c echo.Context) error {
	var req listRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Specialties: &req.Items})
}

// UpdateBenefits handles PUT /company/benefits.
//
// @Summary      Replace benefits
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      listRequest  true  "Benefits"
// @Success      200   {object}  accountResponse
// @Router       /company/benefits [put]
func (h *CompanyHandler) UpdateBenefits(c echo.Context) error {
	var req listRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Benefits: &req.Items})
}

// UpdateLogo handles PUT /company/logo.
//
// @Summary      Set logo URL
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      imageRequest  true  "Image URL"
// @Success      200   {object}  accountResponse
// @Router       /company/logo [put]
func (h *CompanyHandler) UpdateLogo(c echo.Context) error {
	var req imageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.update(c, domain.AccountUpdate{Logo: &req.URL})
}

func (h *CompanyHandler) update(c echo.Context, update domain.AccountUpdate) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	updated, err := h.profiles.Update(c.Request().Context(), domain.KindCompany, acct.ID(), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Account: updated})
}

// CreateJob handles POST /company/jobs.
//
// @Summary      Create a job posting
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job posting"
// @Success      201   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /company/jobs [post]
func (h *CompanyHandler) CreateJob(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	var req createJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.CreateJob(c.Request().Context(), acct, req.toInput())
	if err != nil {
		return err
	}
	metrics.JobsCreatedTotal.WithLabelValues(string(job.Type)).Inc()
	return c.JSON(http.StatusCreated, jobResponse{Job: job})
}

// ListJobs handles GET /company/jobs.
//
// @Summary      List own job postings
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "active or inactive"
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  jobListResponse
// @Router       /company/jobs [get]
func (h *CompanyHandler) ListJobs(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	status := ports.JobStatusFilter(c.QueryParam("status"))
	if status != ports.JobStatusAny && status != ports.JobStatusActive && status != ports.JobStatusInactive {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be one of: active inactive")
	}

	page, err := h.jobs.CompanyJobs(c.Request().Context(), acct.ID(), status, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Jobs: page.Jobs, Pagination: toPagination(page.Pagination)})
}

// UpdateJob handles PUT /company/jobs/:id.
//
// @Summary      Update an own job posting
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "Fields to change"
// @Success      200   {object}  jobResponse
// @Failure      404   {object}  errorResponse
// @Router       /company/jobs/{id} [put]
func (h *CompanyHandler) UpdateJob(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	var req updateJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.UpdateJob(c.Request().Context(), acct.ID(), c.Param("id"), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Job: job})
}

// DeleteJob handles DELETE /company/jobs/:id.
//
// @Summary      Delete an own job posting
// @Tags         company
// @Security     BearerAuth
// @Param        id  path  string  true  "Job id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /company/jobs/{id} [delete]
func (h *CompanyHandler) DeleteJob(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.jobs.DeleteJob(c.Request().Context(), acct.ID(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// JobApplications handles GET /company/jobs/:id/applications.
//
// @Summary      List applications of an own job
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Job id"
// @Param        status  query     string  false  "Application status"
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  applicationListResponse
// @Failure      404     {object}  errorResponse
// @Router       /company/jobs/{id}/applications [get]
func (h *CompanyHandler) JobApplications(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	page, err := h.jobs.JobApplications(c.Request().Context(), acct.ID(), c.Param("id"),
		domain.ApplicationStatus(c.QueryParam("status")), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationListResponse{
		Applications: page.Applications,
		Pagination:   toPagination(page.Pagination),
	})
}

// UpdateApplicationStatus handles PATCH /company/jobs/:id/applications/:appId.
//
// @Summary      Change the status of an application
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string                    true  "Job id"
// @Param        appId  path      string                    true  "Application id"
// @Param        body   body      applicationStatusRequest  true  "New status"
// @Success      200    {object}  applicationResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /company/jobs/{id}/applications/{appId} [patch]
func (h *CompanyHandler) UpdateApplicationStatus(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	var req applicationStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.jobs.UpdateApplicationStatus(c.Request().Context(), acct.ID(), c.Param("id"), c.Param("appId"),
		domain.ApplicationStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationResponse{Application: app})
}

// queryInt returns 0 for absent or malformed values; services apply defaults.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
