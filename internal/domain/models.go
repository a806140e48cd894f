package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobID uniquely identifies a job
type JobID = uuid.UUID

// JobType is the employment type of a posting
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeTemporary  JobType = "Temporary"
)

// JobTypes lists every accepted job type in display order
var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeInternship,
	JobTypeTemporary,
}

// Job is the stored job posting entity
type Job struct {
	ID          JobID     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	PostingDate time.Time `json:"posting_date"`
	JobType     JobType   `json:"job_type"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobInput carries the fields of a job to create. PostingDate is the raw
// client value; it is parsed leniently and falls back to the creation time.
type JobInput struct {
	Title       string   `json:"title" jsonschema:"Job title"`
	Company     string   `json:"company" jsonschema:"Hiring company"`
	Location    string   `json:"location" jsonschema:"Job location"`
	PostingDate string   `json:"posting_date,omitempty" jsonschema:"ISO-8601 posting timestamp, defaults to now"`
	JobType     string   `json:"job_type,omitempty" jsonschema:"One of Full-time, Part-time, Contract, Internship, Temporary"`
	Tags        []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	Description string   `json:"description,omitempty" jsonschema:"Job description"`
	URL         string   `json:"url,omitempty" jsonschema:"Original posting URL"`
}

// JobPatch carries a partial update; nil fields are left untouched
type JobPatch struct {
	Title       *string   `json:"title,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Location    *string   `json:"location,omitempty"`
	PostingDate *string   `json:"posting_date,omitempty"`
	JobType     *string   `json:"job_type,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
}

// FacetCount is a single facet value with the number of matching jobs
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetOptions holds the cascading facet lists for a filter
type FacetOptions struct {
	JobTypes  []FacetCount `json:"job_types"`
	Companies []FacetCount `json:"companies"`
	Locations []FacetCount `json:"locations"`
}

// Stats is the global, unfiltered dashboard summary
type Stats struct {
	TotalJobs              int          `json:"total_jobs"`
	TotalCompanies         int          `json:"total_companies"`
	TotalLocations         int          `json:"total_locations"`
	JobTypes               []FacetCount `json:"job_types"`
	AllCompaniesWithCounts []FacetCount `json:"all_companies_with_counts"`
	AllLocationsWithCounts []FacetCount `json:"all_locations_with_counts"`
	TopCompanies           []FacetCount `json:"top_companies"`
	TopLocations           []FacetCount `json:"top_locations"`
	AllCompanies           []string     `json:"all_companies"`
	AllLocations           []string     `json:"all_locations"`
}

// Page is one slice of a filtered, sorted job listing
type Page struct {
	Items   []Job `json:"jobs"`
	Total   int   `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}
