package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// JobHandler serves the public job board. Routes are mounted behind
// OptionalAuth so employee viewers get personalised detail.
type JobHandler struct {
	jobs ports.JobService
}

func NewJobHandler(jobs ports.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /jobs.
//
// @Summary      List active jobs
// @Tags         jobs
// @Produce      json
// @Param        search      query     string  false  "Full-text search"
// @Param        location    query     string  false  "Partial location match"
// @Param        type        query     string  false  "Job type"
// @Param        experience  query     string  false  "Experience level"
// @Param        remote      query     bool    false  "Remote only"
// @Param        featured    query     bool    false  "Featured only"
// @Param        page        query     int     false  "Page (default 1)"
// @Param        limit       query     int     false  "Page size (default 10, max 100)"
// @Success      200         {object}  jobListResponse
// @Failure      400         {object}  errorResponse
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	filter := ports.ListJobsFilter{
		Search:     c.QueryParam("search"),
		Location:   c.QueryParam("location"),
		Type:       domain.JobType(c.QueryParam("type")),
		Experience: domain.ExperienceLevel(c.QueryParam("experience")),
		Remote:     queryBool(c, "remote"),
		Featured:   queryBool(c, "featured"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}

	page, err := h.jobs.ListJobs(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Jobs: page.Jobs, Pagination: toPagination(page.Pagination)})
}

// Featured handles GET /jobs/featured.
//
// @Summary      Featured jobs
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  jobsResponse
// @Router       /jobs/featured [get]
func (h *JobHandler) Featured(c echo.Context) error {
	jobs, err := h.jobs.FeaturedJobs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobsResponse{Jobs: jobs})
}

// Stats handles GET /jobs/stats/overview.
//
// @Summary      Job board statistics
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  jobStatsResponse
// @Router       /jobs/stats/overview [get]
func (h *JobHandler) Stats(c echo.Context) error {
	stats, err := h.jobs.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobStatsResponse{Stats: stats})
}

// Get handles GET /jobs/:id.
//
// @Summary      Job detail
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  jobDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	who := viewer(c)
	detail, err := h.jobs.GetJob(c.Request().Context(), c.Param("id"), who)
	if err != nil {
		return err
	}

	resp := jobDetailResponse{Job: detail.Job, Related: detail.Related}
	if who != nil && who.Kind == domain.KindEmployee {
		resp.HasApplied = &detail.HasApplied
		resp.Saved = &detail.Saved
	}
	return c.JSON(http.StatusOK, resp)
}

func queryBool(c echo.Context, name string) bool {
	b, _ := strconv.ParseBool(c.QueryParam(name))
	return b
}
