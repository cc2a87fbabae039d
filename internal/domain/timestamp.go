package domain

import (
	"strings"
	"time"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
}

var unzonedLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// unzoned tags wall-clock values stored without an offset. It prints as UTC but is
// told apart from time.UTC by pointer.
var unzoned = time.FixedZone("UTC", 0)

// ParseTimestamp reads the loosely formatted timestamps stored by the scrapers.
// Values without a zone keep their wall clock; see InLocation. It returns nil for
// empty or unparsable input.
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	for _, layout := range unzonedLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, unzoned); err == nil {
			return &parsed
		}
	}
	return nil
}

// InLocation converts t to loc. A timestamp parsed without a zone is read as a
// local wall clock in loc instead, so "2026-10-14" stays on the 14th everywhere.
func InLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if t.Location() != unzoned {
		return t.In(loc)
	}
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), loc)
}
