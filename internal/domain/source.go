package domain

import "time"

// SourceStatus is the health of a monitored data source.
type SourceStatus string

const (
	SourceActive   SourceStatus = "active"
	SourceInactive SourceStatus = "inactive"
	SourceError    SourceStatus = "error"
)

// DataSource reports the last health probe of a configured source.
type DataSource struct {
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Type      string       `json:"type"`
	Status    SourceStatus `json:"status"`
	LastCheck time.Time    `json:"last_check"`
	Items     int          `json:"items_seen"`
	Error     string       `json:"error,omitempty"`
}
