package domain

// SeverityTier is the four-level scale used by the analysis service.
type SeverityTier string

const (
	TierLow      SeverityTier = "LOW"
	TierMedium   SeverityTier = "MEDIUM"
	TierHigh     SeverityTier = "HIGH"
	TierCritical SeverityTier = "CRITICAL"
)

// AnalysisResult is returned by the analysis service for a submitted text.
type AnalysisResult struct {
	SeverityScore float64 `json:"severity_score"`
	Sentiment     struct {
		Sentiment string `json:"sentiment"`
	} `json:"sentiment_analysis"`
	Locations       []string     `json:"ner_locations"`
	ModelConfidence float64      `json:"model_confidence"`
	EmotionalBoost  float64      `json:"emotional_boost"`
	Tier            SeverityTier `json:"severity_tier,omitempty"`
}

// LiveAlert is a recent alert published by the analysis service.
type LiveAlert struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	ThreatLevel float64      `json:"threat_level"`
	Locations   []string     `json:"locations"`
	Tier        SeverityTier `json:"severity_tier"`
	Timestamp   string       `json:"timestamp"`
	Description string       `json:"description,omitempty"`
}

// ScraperStatus describes background collection on the analysis service.
type ScraperStatus struct {
	Status         string `json:"status"`
	ActiveScrapers *int   `json:"active_scrapers,omitempty"`
	LastRun        string `json:"last_run,omitempty"`
}

// ActionResult acknowledges a fire-and-forget request.
type ActionResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
