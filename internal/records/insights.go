package records

import (
	"sort"
	"time"

	"ThreatMonitor/internal/domain"
)

const dayLayout = "2006-01-02"

// Hotspots ranks locations by how many enriched articles mention them.
// Ties are broken by name; limit <= 0 returns every location.
func Hotspots(articles []domain.Article, limit int) []domain.Hotspot {
	counts := map[string]int{}
	for _, article := range articles {
		for _, loc := range article.Entities.Locations {
			if loc == "" {
				continue
			}
			counts[loc]++
		}
	}

	spots := make([]domain.Hotspot, 0, len(counts))
	for loc, n := range counts {
		spots = append(spots, domain.Hotspot{Location: loc, Mentions: n})
	}
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Mentions != spots[j].Mentions {
			return spots[i].Mentions > spots[j].Mentions
		}
		return spots[i].Location < spots[j].Location
	})

	if limit > 0 && len(spots) > limit {
		spots = spots[:limit]
	}
	return spots
}

// Trend buckets threats per calendar day in loc, oldest day first.
// Undated threats are left out.
func Trend(threats []domain.Threat, loc *time.Location) []domain.TrendPoint {
	if loc == nil {
		loc = time.UTC
	}

	byDay := map[string]map[domain.ThreatCategory]int{}
	for _, threat := range threats {
		ts, ok := threat.Timestamp()
		if !ok {
			continue
		}
		day := domain.InLocation(ts, loc).Format(dayLayout)
		counts, exists := byDay[day]
		if !exists {
			counts = make(map[domain.ThreatCategory]int, len(domain.ThreatCategories))
			for _, c := range domain.ThreatCategories {
				counts[c] = 0
			}
			byDay[day] = counts
		}
		counts[threat.Category]++
	}

	points := make([]domain.TrendPoint, 0, len(byDay))
	for day, counts := range byDay {
		points = append(points, domain.TrendPoint{Day: day, Counts: counts})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}

// SeverityTier maps an analysis severity score onto the four-level scale.
func SeverityTier(score float64) domain.SeverityTier {
	switch {
	case score <= 5:
		return domain.TierLow
	case score <= 10:
		return domain.TierMedium
	case score <= 15:
		return domain.TierHigh
	default:
		return domain.TierCritical
	}
}
