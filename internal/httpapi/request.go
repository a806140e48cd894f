package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/honeycarbs/jobboard/internal/domain"
)

// tagList accepts either a JSON array of strings or one comma-separated string
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = splitTags(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// jobRequest is the body of POST and PUT /api/jobs. Absent fields stay nil.
type jobRequest struct {
	Title       *string  `json:"title"`
	Company     *string  `json:"company"`
	Location    *string  `json:"location"`
	PostingDate *string  `json:"posting_date"`
	JobType     *string  `json:"job_type"`
	Tags        *tagList `json:"tags"`
	Description *string  `json:"description"`
	URL         *string  `json:"url"`
}

func (r jobRequest) empty() bool {
	return r.Title == nil && r.Company == nil && r.Location == nil && r.PostingDate == nil &&
		r.JobType == nil && r.Tags == nil && r.Description == nil && r.URL == nil
}

func (r jobRequest) toInput() domain.JobInput {
	in := domain.JobInput{
		Title:       deref(r.Title),
		Company:     deref(r.Company),
		Location:    deref(r.Location),
		PostingDate: deref(r.PostingDate),
		JobType:     deref(r.JobType),
		Description: deref(r.Description),
		URL:         deref(r.URL),
	}
	if r.Tags != nil {
		in.Tags = []string(*r.Tags)
	}
	return in
}

func (r jobRequest) toPatch() domain.JobPatch {
	patch := domain.JobPatch{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		PostingDate: r.PostingDate,
		JobType:     r.JobType,
		Description: r.Description,
		URL:         r.URL,
	}
	if r.Tags != nil {
		tags := []string(*r.Tags)
		patch.Tags = &tags
	}
	return patch
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// filterFromQuery reads the shared filter query parameters
func filterFromQuery(c *fiber.Ctx) domain.FilterSpec {
	return domain.FilterSpec{
		JobType:    c.Query("job_type"),
		Location:   c.Query("location"),
		Company:    c.Query("company"),
		Tags:       c.Query("tags"),
		Search:     c.Query("search"),
		DateFilter: domain.DateFilter(c.Query("date_filter")),
		CustomFrom: c.Query("date_from"),
		CustomTo:   c.Query("date_to"),
	}
}

// parseBody decodes a non-empty JSON job body or writes the 400 response
func parseBody(c *fiber.Ctx) (jobRequest, bool, error) {
	var req jobRequest

	if len(bytes.TrimSpace(c.Body())) == 0 {
		return req, false, c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "No data provided"})
	}

	if err := c.BodyParser(&req); err != nil {
		return req, false, c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid JSON payload"})
	}

	if req.empty() {
		return req, false, c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "No data provided"})
	}

	return req, true, nil
}
