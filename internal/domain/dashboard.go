package domain

import "time"

// DashboardSnapshot is one row of the aggregated dashboard table.
type DashboardSnapshot struct {
	Date                 string           `json:"date"`
	TotalArticles        int64            `json:"total_articles"`
	ArticlesToday        int64            `json:"articles_today"`
	ArticlesThisWeek     int64            `json:"articles_this_week"`
	AvgSentimentScore    float64          `json:"avg_sentiment_score"`
	CategoryCounts       map[string]int64 `json:"category_counts"`
	SentimentCounts      map[string]int64 `json:"sentiment_counts"`
	SourceCounts         map[string]int64 `json:"source_counts"`
	PersonMentions       []string         `json:"person_mentions"`
	LocationMentions     []string         `json:"location_mentions"`
	OrganizationMentions []string         `json:"organization_mentions"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`
}

// ActiveSources counts publishers that contributed at least one article.
func (d *DashboardSnapshot) ActiveSources() int {
	if d == nil {
		return 0
	}
	active := 0
	for _, count := range d.SourceCounts {
		if count > 0 {
			active++
		}
	}
	return active
}

// Hotspot is a location ranked by how often it is mentioned.
type Hotspot struct {
	Location string `json:"location"`
	Mentions int    `json:"mentions"`
}

// TrendPoint counts threats per category for a single day.
type TrendPoint struct {
	Day    string                 `json:"day"`
	Counts map[ThreatCategory]int `json:"counts"`
}
