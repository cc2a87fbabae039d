package domain

import "time"

// ThreatCategory is the severity bucket assigned upstream to a social post.
type ThreatCategory string

const (
	ThreatCritical ThreatCategory = "critical_threat"
	ThreatHigh     ThreatCategory = "high_threat"
	ThreatMedium   ThreatCategory = "medium_threat"
	ThreatNeutral  ThreatCategory = "neutral"
)

// ThreatCategories lists the known categories from most to least severe.
var ThreatCategories = []ThreatCategory{ThreatCritical, ThreatHigh, ThreatMedium, ThreatNeutral}

// Threat is a flagged social post from the twitter_threats table.
type Threat struct {
	ID              string         `json:"id"`
	TweetHash       string         `json:"tweet_hash"`
	KeywordTrigger  string         `json:"keyword_trigger"`
	Content         string         `json:"content"`
	CreatedAt       *time.Time     `json:"created_at,omitempty"`
	Score           float64        `json:"threat_score"`
	Category        ThreatCategory `json:"threat_category"`
	SentimentLabel  string         `json:"sentiment_label"`
	SentimentScore  float64        `json:"sentiment_score"`
	LocationBoosted bool           `json:"location_boosted"`
}

func (t Threat) Timestamp() (time.Time, bool) {
	if t.CreatedAt == nil {
		return time.Time{}, false
	}
	return *t.CreatedAt, true
}

func (t Threat) Label() string {
	return string(t.Category)
}

func (t Threat) SearchFields() []string {
	return []string{t.Content, t.KeywordTrigger}
}
