package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"2026-10-14T09:30:00Z":       time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
		"2026-10-14T09:30:00+03:00":  time.Date(2026, 10, 14, 6, 30, 0, 0, time.UTC),
		"2026-10-14T09:30:00.123456": time.Date(2026, 10, 14, 9, 30, 0, 123456000, time.UTC),
		"2026-10-14 09:30:00":        time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
		"2026-10-14":                 time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
	}

	for raw, want := range cases {
		got := ParseTimestamp(raw)
		require.NotNil(t, got, raw)
		assert.True(t, want.Equal(*got), "%s parsed as %v", raw, got)
	}

	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("yesterday"))
}

func TestActiveSources(t *testing.T) {
	t.Parallel()

	var empty *DashboardSnapshot
	assert.Equal(t, 0, empty.ActiveSources())

	snap := &DashboardSnapshot{SourceCounts: map[string]int64{
		"the-star.co.ke": 4,
		"tuko.co.ke":     0,
		"nation.africa":  1,
	}}
	assert.Equal(t, 2, snap.ActiveSources())
}

func TestInLocationKeepsUnzonedWallClock(t *testing.T) {
	t.Parallel()

	newYork := time.FixedZone("EDT", -4*60*60)

	day := ParseTimestamp("2026-10-14")
	require.NotNil(t, day)
	got := InLocation(*day, newYork)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, newYork), got)

	wall := ParseTimestamp("2026-10-14 23:30:00")
	require.NotNil(t, wall)
	assert.Equal(t, 14, InLocation(*wall, newYork).Day())

	zoned := ParseTimestamp("2026-10-14T02:00:00Z")
	require.NotNil(t, zoned)
	assert.Equal(t, 13, InLocation(*zoned, newYork).Day())
}
