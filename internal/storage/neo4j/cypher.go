package neo4j

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

// Property names are fixed; only values travel as parameters.
var sortProperties = map[domain.SortField]string{
	domain.SortByPostingDate: "j.postingDate",
	domain.SortByTitle:       "j.title",
	domain.SortByCompany:     "j.company",
}

var dimensionProperties = map[filter.Dimension]string{
	filter.DimensionCompany:  "j.company",
	filter.DimensionLocation: "j.location",
	filter.DimensionJobType:  "j.jobType",
}

// whereClause compiles a predicate into a Cypher WHERE clause over the node
// bound to j. The clause is empty when the predicate constrains nothing.
func whereClause(p filter.Predicate) (string, map[string]any) {
	var conds []string
	params := make(map[string]any)

	if p.JobType != "" {
		conds = append(conds, "j.jobType = $jobType")
		params["jobType"] = p.JobType
	}
	if p.Location != "" {
		conds = append(conds, "toLower(j.location) CONTAINS $location")
		params["location"] = p.Location
	}
	if p.Company != "" {
		conds = append(conds, "toLower(j.company) CONTAINS $company")
		params["company"] = p.Company
	}
	if len(p.Tags) > 0 {
		conds = append(conds,
			"any(term IN $tags WHERE any(tag IN coalesce(j.tags, []) WHERE toLower(tag) CONTAINS term))")
		params["tags"] = p.Tags
	}
	if p.Search != "" {
		conds = append(conds, "(toLower(j.title) CONTAINS $search"+
			" OR toLower(j.company) CONTAINS $search"+
			" OR toLower(coalesce(j.description, '')) CONTAINS $search)")
		params["search"] = p.Search
	}
	if p.Dates != nil {
		conds = append(conds, "j.postingDate >= $dateFrom AND j.postingDate <= $dateTo")
		params["dateFrom"] = p.Dates.Start()
		params["dateTo"] = p.Dates.End()
	}

	if len(conds) == 0 {
		return "", params
	}
	return "WHERE " + strings.Join(conds, " AND "), params
}

// orderClause sorts by the requested property with the id as tie-break
func orderClause(s domain.SortSpec) string {
	prop, ok := sortProperties[s.Field]
	if !ok {
		prop = sortProperties[domain.SortByPostingDate]
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, j.id ASC", prop, dir)
}

func findQuery(where string, s domain.SortSpec) string {
	return fmt.Sprintf(`
		MATCH (j:Job)
		%s
		RETURN j
		%s
		SKIP $offset
		LIMIT $limit
	`, where, orderClause(s))
}

func countQuery(where string) string {
	return fmt.Sprintf(`
		MATCH (j:Job)
		%s
		RETURN count(j) AS total
	`, where)
}

func countByQuery(where string, dim filter.Dimension) (string, error) {
	prop, ok := dimensionProperties[dim]
	if !ok {
		return "", fmt.Errorf("neo4j: unknown dimension %q", dim)
	}

	return fmt.Sprintf(`
		MATCH (j:Job)
		%s
		RETURN %s AS value, count(j) AS count
	`, where, prop), nil
}
