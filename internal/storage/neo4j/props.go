package neo4j

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobboard/internal/domain"
)

// jobProps flattens a job into node properties
func jobProps(j domain.Job) map[string]any {
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}

	return map[string]any{
		"id":          j.ID.String(),
		"title":       j.Title,
		"company":     j.Company,
		"location":    j.Location,
		"postingDate": j.PostingDate.UTC(),
		"jobType":     string(j.JobType),
		"tags":        tags,
		"description": j.Description,
		"url":         j.URL,
		"createdAt":   j.CreatedAt.UTC(),
		"updatedAt":   j.UpdatedAt.UTC(),
	}
}

func parseJobNode(record *neo4j.Record, key string) (domain.Job, error) {
	val, ok := record.Get(key)
	if !ok {
		return domain.Job{}, fmt.Errorf("record has no %q", key)
	}
	node, ok := val.(neo4j.Node)
	if !ok {
		return domain.Job{}, fmt.Errorf("%q is %T, not a node", key, val)
	}

	props := node.Props
	id, err := uuid.Parse(getStringProp(props, "id"))
	if err != nil {
		return domain.Job{}, fmt.Errorf("parse job id: %w", err)
	}

	return domain.Job{
		ID:          id,
		Title:       getStringProp(props, "title"),
		Company:     getStringProp(props, "company"),
		Location:    getStringProp(props, "location"),
		PostingDate: getTimeProp(props, "postingDate"),
		JobType:     domain.JobType(getStringProp(props, "jobType")),
		Tags:        getStringSliceProp(props, "tags"),
		Description: getStringProp(props, "description"),
		URL:         getStringProp(props, "url"),
		CreatedAt:   getTimeProp(props, "createdAt"),
		UpdatedAt:   getTimeProp(props, "updatedAt"),
	}, nil
}

func getStringProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getTimeProp(props map[string]any, key string) time.Time {
	if v, ok := props[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t.UTC()
		}
		if dt, ok := v.(neo4j.LocalDateTime); ok {
			return dt.Time().UTC()
		}
	}
	return time.Time{}
}

func getStringSliceProp(props map[string]any, key string) []string {
	list, ok := props[key].([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getRecordInt(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return int(i)
	}
	return 0
}

func getRecordString(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
