package records

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ThreatMonitor/internal/domain"
)

// ErrInvalidFilter is returned when a filter value is not one of the known options.
var ErrInvalidFilter = errors.New("invalid filter")

// DateFilter restricts records to a calendar window around the evaluation time.
type DateFilter string

const (
	DateAll   DateFilter = "all"
	DateToday DateFilter = "today"
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
)

// LabelAll disables the label predicate.
const LabelAll = "all"

// Record is anything the dashboard can filter.
type Record interface {
	// Timestamp returns false when the record is undated.
	Timestamp() (time.Time, bool)
	Label() string
	SearchFields() []string
}

// Criteria is the filter state of a single view.
type Criteria struct {
	Date  DateFilter
	Label string
	Query string
}

// DefaultCriteria passes every record.
func DefaultCriteria() Criteria {
	return Criteria{Date: DateAll, Label: LabelAll}
}

// ParseDateFilter accepts all, today, week and month; empty means all.
func ParseDateFilter(raw string) (DateFilter, error) {
	switch f := DateFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return DateAll, nil
	case DateAll, DateToday, DateWeek, DateMonth:
		return f, nil
	default:
		return "", fmt.Errorf("%w: date %q", ErrInvalidFilter, raw)
	}
}

// ParseSentimentFilter accepts all or one of the sentiment labels.
func ParseSentimentFilter(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, LabelAll) {
		return LabelAll, nil
	}
	for _, s := range []domain.Sentiment{domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral} {
		if strings.EqualFold(raw, string(s)) {
			return string(s), nil
		}
	}
	return "", fmt.Errorf("%w: sentiment %q", ErrInvalidFilter, raw)
}

// ParseThreatFilter accepts all or one of the threat categories.
func ParseThreatFilter(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == LabelAll {
		return LabelAll, nil
	}
	for _, c := range domain.ThreatCategories {
		if raw == string(c) {
			return raw, nil
		}
	}
	return "", fmt.Errorf("%w: threat level %q", ErrInvalidFilter, raw)
}

// Filter returns, in input order, the records that satisfy every predicate of c.
// Date windows are calendar windows in now's location; weeks start on Sunday.
// Undated records always pass the date predicate. The input is never modified.
func Filter[T Record](records []T, c Criteria, now time.Time) []T {
	query := strings.ToLower(c.Query)
	out := make([]T, 0, len(records))
	for _, record := range records {
		if !matchesDate(record, c.Date, now) {
			continue
		}
		if c.Label != "" && c.Label != LabelAll && record.Label() != c.Label {
			continue
		}
		if query != "" && !matchesQuery(record, query) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func matchesDate(record Record, filter DateFilter, now time.Time) bool {
	if filter == "" || filter == DateAll {
		return true
	}
	ts, ok := record.Timestamp()
	if !ok {
		return true
	}
	start, end, ok := window(filter, now)
	if !ok {
		return true
	}
	ts = domain.InLocation(ts, now.Location())
	return !ts.Before(start) && ts.Before(end)
}

// window returns the half-open [start, end) range for a date filter.
func window(filter DateFilter, now time.Time) (time.Time, time.Time, bool) {
	y, m, d := now.Date()
	loc := now.Location()
	switch filter {
	case DateToday:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1), true
	case DateWeek:
		start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7), true
	case DateMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func matchesQuery(record Record, query string) bool {
	for _, field := range record.SearchFields() {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
