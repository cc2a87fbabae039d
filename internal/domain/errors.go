package domain

import "errors"

var (
	// ErrEmptyText is returned when a blank text is submitted for analysis.
	ErrEmptyText = errors.New("text to analyze is empty")
	// ErrNotConfigured marks an optional integration that has no settings.
	ErrNotConfigured = errors.New("integration is not configured")
)
