package postgres

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

const jobColumns = `id, title, company, location, posting_date, job_type, tags, description, url, created_at, updated_at`

// Column names are fixed; only values travel as arguments.
// Text columns sort by code point, matching the memory and Neo4j stores
// regardless of the database collation.
var sortColumns = map[domain.SortField]string{
	domain.SortByPostingDate: "posting_date",
	domain.SortByTitle:       `title COLLATE "C"`,
	domain.SortByCompany:     `company COLLATE "C"`,
}

var dimensionColumns = map[filter.Dimension]string{
	filter.DimensionCompany:  "company",
	filter.DimensionLocation: "location",
	filter.DimensionJobType:  "job_type",
}

// args accumulates positional arguments
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// whereClause compiles a predicate into a WHERE clause. Substring clauses use
// strpos so that terms containing % or _ are matched literally.
func whereClause(p filter.Predicate, a *args) string {
	var conds []string

	if p.JobType != "" {
		conds = append(conds, "job_type = "+a.add(p.JobType))
	}
	if p.Location != "" {
		conds = append(conds, fmt.Sprintf("strpos(lower(location), %s) > 0", a.add(p.Location)))
	}
	if p.Company != "" {
		conds = append(conds, fmt.Sprintf("strpos(lower(company), %s) > 0", a.add(p.Company)))
	}
	if len(p.Tags) > 0 {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(tags) AS tag, unnest(%s::text[]) AS term WHERE strpos(lower(tag), term) > 0)",
			a.add(p.Tags)))
	}
	if p.Search != "" {
		n := a.add(p.Search)
		conds = append(conds, fmt.Sprintf(
			"(strpos(lower(title), %[1]s) > 0 OR strpos(lower(company), %[1]s) > 0 OR strpos(lower(description), %[1]s) > 0)",
			n))
	}
	if p.Dates != nil {
		conds = append(conds, fmt.Sprintf("posting_date BETWEEN %s AND %s",
			a.add(p.Dates.Start()), a.add(p.Dates.End())))
	}

	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// orderClause sorts by the requested column with the id as tie-break
func orderClause(s domain.SortSpec) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[domain.SortByPostingDate]
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", col, dir)
}

func findSQL(where string, s domain.SortSpec, a *args, offset, limit int) string {
	off := a.add(offset)
	lim := a.add(limit)
	return fmt.Sprintf(`SELECT %s FROM jobs %s %s OFFSET %s LIMIT %s`,
		jobColumns, where, orderClause(s), off, lim)
}

func countSQL(where string) string {
	return fmt.Sprintf(`SELECT count(*) FROM jobs %s`, where)
}

func countBySQL(where string, dim filter.Dimension) (string, error) {
	col, ok := dimensionColumns[dim]
	if !ok {
		return "", fmt.Errorf("postgres: unknown dimension %q", dim)
	}
	return fmt.Sprintf(`SELECT %[1]s, count(*) FROM jobs %[2]s GROUP BY %[1]s`, col, where), nil
}
