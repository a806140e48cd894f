// Package filter turns a FilterSpec into a store-independent predicate.
//
// A Predicate is a plain value: the in-memory store evaluates it with Matches,
// the Neo4j and Postgres stores compile the same fields into parameterized
// queries. Every text term is stored lower-cased.
package filter

import (
	"strings"
	"time"

	"github.com/honeycarbs/jobboard/internal/domain"
)

// Dimension is a facet dimension
type Dimension string

const (
	DimensionCompany  Dimension = "company"
	DimensionLocation Dimension = "location"
	DimensionJobType  Dimension = "jobType"
)

// Dimensions lists the facet dimensions in response order
var Dimensions = []Dimension{DimensionJobType, DimensionCompany, DimensionLocation}

// Predicate is an AND of optional clauses. Zero-valued clauses match everything.
type Predicate struct {
	JobType  string     // exact match
	Location string     // lower-cased substring
	Company  string     // lower-cased substring
	Tags     []string   // lower-cased substrings, any may match any tag
	Search   string     // lower-cased substring of title, company or description
	Dates    *DateRange // inclusive posting date window
}

// Build derives a predicate from a filter spec, resolving symbolic dates
// against now.
func Build(spec domain.FilterSpec, now time.Time) Predicate {
	p := Predicate{
		JobType:  spec.JobType,
		Location: strings.ToLower(spec.Location),
		Company:  strings.ToLower(spec.Company),
		Tags:     SplitTags(spec.Tags),
		Search:   strings.ToLower(spec.Search),
	}

	if r, ok := ResolveDateRange(spec.DateFilter, spec.CustomFrom, spec.CustomTo, now); ok {
		p.Dates = &r
	}

	return p
}

// SplitTags splits a comma-separated tag filter into trimmed, lower-cased
// terms. Empty terms are dropped.
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var terms []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// Without returns a copy of p with the clause for dim removed
func (p Predicate) Without(dim Dimension) Predicate {
	switch dim {
	case DimensionCompany:
		p.Company = ""
	case DimensionLocation:
		p.Location = ""
	case DimensionJobType:
		p.JobType = ""
	}
	return p
}

// IsEmpty reports whether p constrains nothing
func (p Predicate) IsEmpty() bool {
	return p.JobType == "" && p.Location == "" && p.Company == "" &&
		len(p.Tags) == 0 && p.Search == "" && p.Dates == nil
}

// Matches evaluates p against a job
func (p Predicate) Matches(j domain.Job) bool {
	if p.JobType != "" && string(j.JobType) != p.JobType {
		return false
	}
	if p.Location != "" && !containsFold(j.Location, p.Location) {
		return false
	}
	if p.Company != "" && !containsFold(j.Company, p.Company) {
		return false
	}
	if len(p.Tags) > 0 && !matchesAnyTag(j.Tags, p.Tags) {
		return false
	}
	if p.Search != "" &&
		!containsFold(j.Title, p.Search) &&
		!containsFold(j.Company, p.Search) &&
		!containsFold(j.Description, p.Search) {
		return false
	}
	if p.Dates != nil && !p.Dates.Contains(j.PostingDate) {
		return false
	}
	return true
}

// Value returns the facet value of a job for dim
func Value(j domain.Job, dim Dimension) string {
	switch dim {
	case DimensionCompany:
		return j.Company
	case DimensionLocation:
		return j.Location
	case DimensionJobType:
		return string(j.JobType)
	}
	return ""
}

func matchesAnyTag(tags, terms []string) bool {
	for _, tag := range tags {
		for _, term := range terms {
			if containsFold(tag, term) {
				return true
			}
		}
	}
	return false
}

// containsFold expects term to be lower-cased already
func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}
