package domain

import (
	"math"
	"strings"
)

// DateFilter is a symbolic posting date window
type DateFilter string

const (
	DateFilterToday     DateFilter = "today"
	DateFilterLast7Days DateFilter = "last_7_days"
	DateFilterLastMonth DateFilter = "last_month"
	DateFilterCustom    DateFilter = "custom"
)

// FilterSpec selects jobs. Empty fields impose no constraint.
type FilterSpec struct {
	JobType    string     `json:"job_type,omitempty" jsonschema:"Exact job type"`
	Location   string     `json:"location,omitempty" jsonschema:"Case-insensitive location substring"`
	Company    string     `json:"company,omitempty" jsonschema:"Case-insensitive company substring"`
	Tags       string     `json:"tags,omitempty" jsonschema:"Comma-separated tag substrings, any may match"`
	Search     string     `json:"search,omitempty" jsonschema:"Substring matched against title, company or description"`
	DateFilter DateFilter `json:"date_filter,omitempty" jsonschema:"today, last_7_days, last_month or custom"`
	CustomFrom string     `json:"date_from,omitempty" jsonschema:"YYYY-MM-DD, used with date_filter=custom"`
	CustomTo   string     `json:"date_to,omitempty" jsonschema:"YYYY-MM-DD, used with date_filter=custom"`
}

// SortField is a sortable job attribute
type SortField string

const (
	SortByPostingDate SortField = "postingDate"
	SortByTitle       SortField = "title"
	SortByCompany     SortField = "company"
)

// SortSpec orders a listing
type SortSpec struct {
	Field SortField
	Desc  bool
}

// DefaultSort is newest postings first
var DefaultSort = SortSpec{Field: SortByPostingDate, Desc: true}

var sortNames = map[string]SortSpec{
	"posting_date_desc": {Field: SortByPostingDate, Desc: true},
	"posting_date_asc":  {Field: SortByPostingDate},
	"title_asc":         {Field: SortByTitle},
	"title_desc":        {Field: SortByTitle, Desc: true},
	"company_asc":       {Field: SortByCompany},
	"company_desc":      {Field: SortByCompany, Desc: true},
}

// ParseSort maps a wire sort name such as "title_asc" to a SortSpec.
// Unknown or empty names fall back to DefaultSort.
func ParseSort(name string) SortSpec {
	if s, ok := sortNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return DefaultSort
}

// String returns the wire name of the sort
func (s SortSpec) String() string {
	for name, spec := range sortNames {
		if spec == s {
			return name
		}
	}
	return "posting_date_desc"
}

const (
	DefaultPerPage = 50
	MaxPerPage     = 100

	// MaxPage keeps Offset within int for any per-page size
	MaxPage = math.MaxInt / MaxPerPage
)

// PageSpec selects a listing slice
type PageSpec struct {
	Page    int
	PerPage int
}

// NewPageSpec normalizes raw paging input: page is clamped to [1, MaxPage], a
// zero perPage becomes DefaultPerPage and the result is clamped to [1, MaxPerPage].
func NewPageSpec(page, perPage int) PageSpec {
	page = min(max(page, 1), MaxPage)
	switch {
	case perPage == 0:
		perPage = DefaultPerPage
	case perPage < 1:
		perPage = 1
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	return PageSpec{Page: page, PerPage: perPage}
}

// Offset is the number of matching jobs skipped before this page
func (p PageSpec) Offset() int {
	return (p.Page - 1) * p.PerPage
}
