package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

func TestWhereClause(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		pred  filter.Predicate
		where string
		args  args
	}{
		{
			name:  "empty",
			pred:  filter.Predicate{},
			where: "",
		},
		{
			name:  "job type and location",
			pred:  filter.Predicate{JobType: "Contract", Location: "berlin"},
			where: "WHERE job_type = $1 AND strpos(lower(location), $2) > 0",
			args:  args{"Contract", "berlin"},
		},
		{
			name:  "search reuses one argument",
			pred:  filter.Predicate{Search: "go"},
			where: "WHERE (strpos(lower(title), $1) > 0 OR strpos(lower(company), $1) > 0 OR strpos(lower(description), $1) > 0)",
			args:  args{"go"},
		},
		{
			name:  "tags",
			pred:  filter.Predicate{Tags: []string{"go", "sql"}},
			where: "WHERE EXISTS (SELECT 1 FROM unnest(tags) AS tag, unnest($1::text[]) AS term WHERE strpos(lower(tag), term) > 0)",
			args:  args{[]string{"go", "sql"}},
		},
		{
			name:  "dates",
			pred:  filter.Predicate{Company: "acme", Dates: &filter.DateRange{From: day, To: day}},
			where: "WHERE strpos(lower(company), $1) > 0 AND posting_date BETWEEN $2 AND $3",
			args:  args{"acme", day, day.Add(24*time.Hour - time.Millisecond)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a args
			assert.Equal(t, tt.where, whereClause(tt.pred, &a))
			assert.Equal(t, tt.args, a)
		})
	}
}

func TestFindSQL_AppendsPaging(t *testing.T) {
	var a args
	where := whereClause(filter.Predicate{JobType: "Contract"}, &a)

	query := findSQL(where, domain.SortSpec{Field: domain.SortByTitle, Desc: true}, &a, 20, 10)

	assert.Contains(t, query, `WHERE job_type = $1 ORDER BY title COLLATE "C" DESC, id ASC OFFSET $2 LIMIT $3`)
	assert.Equal(t, args{"Contract", 20, 10}, a)
}

func TestOrderClause_UnknownFieldFallsBack(t *testing.T) {
	assert.Equal(t, "ORDER BY posting_date ASC, id ASC", orderClause(domain.SortSpec{Field: "salary"}))
	assert.Equal(t, `ORDER BY company COLLATE "C" ASC, id ASC`, orderClause(domain.SortSpec{Field: domain.SortByCompany}))
}

func TestCountBySQL(t *testing.T) {
	q, err := countBySQL("WHERE job_type = $1", filter.DimensionCompany)
	require.NoError(t, err)
	assert.Equal(t, "SELECT company, count(*) FROM jobs WHERE job_type = $1 GROUP BY company", q)

	_, err = countBySQL("", filter.Dimension("salary"))
	assert.Error(t, err)
}
