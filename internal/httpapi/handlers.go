package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

type handler struct {
	service job.Service
	logger  *logging.Logger
}

type listResponse struct {
	Jobs    []domain.Job `json:"jobs"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
	PerPage int          `json:"per_page"`
	HasNext bool         `json:"has_next"`
	HasPrev bool         `json:"has_prev"`

	// aliases kept for older clients
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
}

type typeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type companyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type locationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type filterOptionsResponse struct {
	JobTypes  []typeCount     `json:"job_types"`
	Companies []companyCount  `json:"companies"`
	Locations []locationCount `json:"locations"`
}

type statsResponse struct {
	TotalJobs              int             `json:"total_jobs"`
	TotalCompanies         int             `json:"total_companies"`
	TotalLocations         int             `json:"total_locations"`
	AllCompaniesWithCounts []companyCount  `json:"all_companies_with_counts"`
	AllLocationsWithCounts []locationCount `json:"all_locations_with_counts"`
	JobTypes               []typeCount     `json:"job_types"`
	TopLocations           []locationCount `json:"top_locations"`
	TopCompanies           []companyCount  `json:"top_companies"`
	AllCompanies           []string        `json:"all_companies"`
	AllLocations           []string        `json:"all_locations"`
}

type jobResponse struct {
	Message string     `json:"message"`
	Job     domain.Job `json:"job"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"message": "Job Listing API is running",
		"version": apiVersion,
	})
}

func (h *handler) listJobs(c *fiber.Ctx) error {
	spec := filterFromQuery(c)
	sort := domain.ParseSort(c.Query("sort"))
	page := domain.NewPageSpec(c.QueryInt("page", 1), c.QueryInt("per_page", domain.DefaultPerPage))

	p, err := h.service.List(c.UserContext(), spec, sort, page)
	if err != nil {
		return writeError(c, h.logger, "fetch jobs", err)
	}

	jobs := p.Items
	if jobs == nil {
		jobs = []domain.Job{}
	}

	return c.JSON(listResponse{
		Jobs:         jobs,
		Total:        p.Total,
		Page:         p.Page,
		Pages:        p.Pages,
		PerPage:      p.PerPage,
		HasNext:      p.HasNext,
		HasPrev:      p.HasPrev,
		TotalPages:   p.Pages,
		CurrentPage:  p.Page,
		ItemsPerPage: p.PerPage,
		TotalItems:   p.Total,
	})
}

func (h *handler) filterOptions(c *fiber.Ctx) error {
	opts, err := h.service.FacetOptions(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return writeError(c, h.logger, "fetch filter options", err)
	}

	return c.JSON(filterOptionsResponse{
		JobTypes:  typeCounts(opts.JobTypes),
		Companies: companyCounts(opts.Companies),
		Locations: locationCounts(opts.Locations),
	})
}

func (h *handler) stats(c *fiber.Ctx) error {
	s, err := h.service.Stats(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "fetch stats", err)
	}

	return c.JSON(statsResponse{
		TotalJobs:              s.TotalJobs,
		TotalCompanies:         s.TotalCompanies,
		TotalLocations:         s.TotalLocations,
		AllCompaniesWithCounts: companyCounts(s.AllCompaniesWithCounts),
		AllLocationsWithCounts: locationCounts(s.AllLocationsWithCounts),
		JobTypes:               typeCounts(s.JobTypes),
		TopLocations:           locationCounts(s.TopLocations),
		TopCompanies:           companyCounts(s.TopCompanies),
		AllCompanies:           nonNil(s.AllCompanies),
		AllLocations:           nonNil(s.AllLocations),
	})
}

func (h *handler) getJob(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Job not found"})
	}

	j, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.logger, "fetch job", err)
	}
	return c.JSON(j)
}

func (h *handler) createJob(c *fiber.Ctx) error {
	req, ok, err := parseBody(c)
	if !ok {
		return err
	}

	j, err := h.service.Create(c.UserContext(), req.toInput())
	if err != nil {
		return writeError(c, h.logger, "create job", err)
	}

	return c.Status(fiber.StatusCreated).JSON(jobResponse{Message: "Job created successfully", Job: j})
}

func (h *handler) updateJob(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Job not found"})
	}

	req, ok, err := parseBody(c)
	if !ok {
		return err
	}

	j, err := h.service.Update(c.UserContext(), id, req.toPatch())
	if err != nil {
		return writeError(c, h.logger, "update job", err)
	}

	return c.JSON(jobResponse{Message: "Job updated successfully", Job: j})
}

func (h *handler) deleteJob(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Job not found"})
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.logger, "delete job", err)
	}

	return c.JSON(messageResponse{Message: "Job deleted successfully"})
}

func parseID(c *fiber.Ctx) (domain.JobID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func typeCounts(in []domain.FacetCount) []typeCount {
	out := make([]typeCount, 0, len(in))
	for _, fc := range in {
		out = append(out, typeCount{Type: fc.Value, Count: fc.Count})
	}
	return out
}

func companyCounts(in []domain.FacetCount) []companyCount {
	out := make([]companyCount, 0, len(in))
	for _, fc := range in {
		out = append(out, companyCount{Company: fc.Value, Count: fc.Count})
	}
	return out
}

func locationCounts(in []domain.FacetCount) []locationCount {
	out := make([]locationCount, 0, len(in))
	for _, fc := range in {
		out = append(out, locationCount{Location: fc.Value, Count: fc.Count})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
