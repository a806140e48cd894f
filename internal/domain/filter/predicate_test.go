package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/jobboard/internal/domain"
)

func sampleJob() domain.Job {
	return domain.Job{
		Title:       "Senior Actuary",
		Company:     "Acme Insurance",
		Location:    "New York, NY",
		JobType:     domain.JobTypeFullTime,
		Tags:        []string{"Life", "Pricing", "FSA"},
		Description: "Lead reserving models",
		PostingDate: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestBuildLowercasesTerms(t *testing.T) {
	p := Build(domain.FilterSpec{
		Company:  "ACME",
		Location: "New York",
		Tags:     " Life , ,PRICING ",
		Search:   "Reserving",
	}, time.Now())

	assert.Equal(t, "acme", p.Company)
	assert.Equal(t, "new york", p.Location)
	assert.Equal(t, []string{"life", "pricing"}, p.Tags)
	assert.Equal(t, "reserving", p.Search)
	assert.Nil(t, p.Dates)
}

func TestBuildResolvesDates(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	p := Build(domain.FilterSpec{DateFilter: domain.DateFilterLast7Days}, now)
	if assert.NotNil(t, p.Dates) {
		assert.Equal(t, date(2024, time.March, 8), p.Dates.From)
	}

	p = Build(domain.FilterSpec{DateFilter: domain.DateFilterCustom, CustomFrom: "nope", CustomTo: "2024-01-01"}, now)
	assert.Nil(t, p.Dates)
}

func TestPredicateMatches(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	job := sampleJob()

	tests := []struct {
		name string
		spec domain.FilterSpec
		want bool
	}{
		{"empty filter", domain.FilterSpec{}, true},
		{"job type exact", domain.FilterSpec{JobType: "Full-time"}, true},
		{"job type case differs", domain.FilterSpec{JobType: "full-time"}, false},
		{"unknown job type", domain.FilterSpec{JobType: "Freelance"}, false},
		{"location substring", domain.FilterSpec{Location: "york"}, true},
		{"location miss", domain.FilterSpec{Location: "boston"}, false},
		{"company substring", domain.FilterSpec{Company: "INSUR"}, true},
		{"tags any", domain.FilterSpec{Tags: "health, pric"}, true},
		{"tags none", domain.FilterSpec{Tags: "health,casualty"}, false},
		{"tags only blanks", domain.FilterSpec{Tags: " , "}, true},
		{"search title", domain.FilterSpec{Search: "actuary"}, true},
		{"search company", domain.FilterSpec{Search: "acme"}, true},
		{"search description", domain.FilterSpec{Search: "RESERVING"}, true},
		{"search miss", domain.FilterSpec{Search: "python"}, false},
		{"date inside", domain.FilterSpec{DateFilter: domain.DateFilterLast7Days}, true},
		{"date outside", domain.FilterSpec{DateFilter: domain.DateFilterToday}, false},
		{"and of clauses", domain.FilterSpec{Company: "acme", Location: "boston"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.spec, now).Matches(job))
		})
	}
}

func TestWithoutDropsOnlyOneDimension(t *testing.T) {
	p := Build(domain.FilterSpec{
		JobType:  "Contract",
		Company:  "acme",
		Location: "york",
		Search:   "actuary",
	}, time.Now())

	noCompany := p.Without(DimensionCompany)
	assert.Empty(t, noCompany.Company)
	assert.Equal(t, "york", noCompany.Location)
	assert.Equal(t, "Contract", noCompany.JobType)
	assert.Equal(t, "actuary", noCompany.Search)

	noType := p.Without(DimensionJobType)
	assert.Empty(t, noType.JobType)
	assert.Equal(t, "acme", noType.Company)

	// the original is untouched
	assert.Equal(t, "acme", p.Company)
	assert.False(t, p.IsEmpty())
	assert.True(t, Predicate{}.IsEmpty())
}

func TestValue(t *testing.T) {
	job := sampleJob()
	assert.Equal(t, "Acme Insurance", Value(job, DimensionCompany))
	assert.Equal(t, "New York, NY", Value(job, DimensionLocation))
	assert.Equal(t, "Full-time", Value(job, DimensionJobType))
}
