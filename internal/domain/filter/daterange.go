package filter

import (
	"time"

	"github.com/honeycarbs/jobboard/internal/domain"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	From time.Time
	To   time.Time
}

// Start is the first instant matched by the range (From at 00:00:00.000)
func (r DateRange) Start() time.Time {
	return r.From
}

// End is the last instant matched by the range (To at 23:59:59.999)
func (r DateRange) End() time.Time {
	return r.To.Add(24*time.Hour - time.Millisecond)
}

// Contains reports whether t falls within [Start, End]
func (r DateRange) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(r.Start()) && !t.After(r.End())
}

// ResolveDateRange maps a symbolic date filter to a concrete range relative to
// today. The boolean is false when no date constraint applies: unknown or empty
// filters, and custom ranges with a missing or malformed bound.
func ResolveDateRange(kind domain.DateFilter, customFrom, customTo string, today time.Time) (DateRange, bool) {
	day := truncateDay(today)

	switch kind {
	case domain.DateFilterToday:
		return DateRange{From: day, To: day}, true
	case domain.DateFilterLast7Days:
		return DateRange{From: day.AddDate(0, 0, -7), To: day}, true
	case domain.DateFilterLastMonth:
		return DateRange{From: day.AddDate(0, 0, -30), To: day}, true
	case domain.DateFilterCustom:
		if customFrom == "" || customTo == "" {
			return DateRange{}, false
		}
		from, err := time.Parse(dateLayout, customFrom)
		if err != nil {
			return DateRange{}, false
		}
		to, err := time.Parse(dateLayout, customTo)
		if err != nil {
			return DateRange{}, false
		}
		return DateRange{From: from, To: to}, true
	default:
		return DateRange{}, false
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
