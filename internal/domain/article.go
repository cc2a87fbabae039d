package domain

import "time"

// Sentiment is the normalized sentiment label attached to an article.
type Sentiment string

const (
	SentimentNone     Sentiment = ""
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Category labels as stored in the keyword_category column.
const (
	CategoryGVB      = "GVB"
	CategoryCrime    = "Crime"
	CategoryPolitics = "Politics"
	CategoryBusiness = "Business"
	CategoryOther    = "Other"
	CategoryScams    = "Scams"
)

// EntityList is the typed view over an article's entity annotation string.
type EntityList struct {
	Persons       []string `json:"persons"`
	Locations     []string `json:"locations"`
	Organizations []string `json:"organizations"`
}

// Article is a scraped news article as read from the record store.
type Article struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	URL            string     `json:"article_url"`
	SiteURL        string     `json:"site_url"`
	Summary        string     `json:"summary_snippet"`
	PublishedAt    *time.Time `json:"publish_date,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	Category       string     `json:"keyword_category"`
	RawEntities    string     `json:"entities"`
	RawSentiment   string     `json:"sentiment,omitempty"`
	SentimentScore *float64   `json:"sentiment_score,omitempty"`

	Sentiment Sentiment  `json:"sentiment_label,omitempty"`
	Entities  EntityList `json:"ner"`
}

// Timestamp reports the publish date used by date filters.
func (a Article) Timestamp() (time.Time, bool) {
	if a.PublishedAt == nil {
		return time.Time{}, false
	}
	return *a.PublishedAt, true
}

// Label is the sentiment label matched by label filters.
func (a Article) Label() string {
	return string(a.Sentiment)
}

// SearchFields lists every text the free-text query is matched against.
func (a Article) SearchFields() []string {
	fields := make([]string, 0, 2+len(a.Entities.Persons)+len(a.Entities.Locations)+len(a.Entities.Organizations))
	fields = append(fields, a.Title, a.Summary)
	fields = append(fields, a.Entities.Persons...)
	fields = append(fields, a.Entities.Locations...)
	fields = append(fields, a.Entities.Organizations...)
	return fields
}
