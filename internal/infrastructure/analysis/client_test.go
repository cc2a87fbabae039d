package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ThreatMonitor/internal/domain"
)

func TestAnalyzeTextSendsMultipartForm(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "they will attack the school in Kisumu", r.FormValue("text"))

		_, _ = w.Write([]byte(`{
			"severity_score": 12.5,
			"sentiment_analysis": {"sentiment": "Negative"},
			"ner_locations": ["Kisumu"],
			"model_confidence": 0.91,
			"emotional_boost": 1.5
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 0)
	result, err := client.AnalyzeText(context.Background(), "they will attack the school in Kisumu")
	require.NoError(t, err)

	assert.InDelta(t, 12.5, result.SeverityScore, 1e-9)
	assert.Equal(t, "Negative", result.Sentiment.Sentiment)
	assert.Equal(t, []string{"Kisumu"}, result.Locations)
	assert.InDelta(t, 0.91, result.ModelConfidence, 1e-9)
}

func TestAnalyzeTextRejectsBlankInput(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := client.AnalyzeText(context.Background(), text)
		assert.True(t, errors.Is(err, domain.ErrEmptyText), "text %q", text)
	}
	assert.Zero(t, calls.Load())
}

func TestActionEndpoints(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/run-scrapers":
			_, _ = w.Write([]byte(`{"status":"started","message":"Scrapers running"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/add-test-alert":
			_, _ = w.Write([]byte(`{"status":"ok","message":"Test alert added"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/scraper-status":
			_, _ = w.Write([]byte(`{"status":"running","active_scrapers":3,"last_run":"2026-10-14T09:00:00Z"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	ctx := context.Background()

	run, err := client.RunScrapers(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionResult{Status: "started", Message: "Scrapers running"}, run)

	added, err := client.AddTestAlert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test alert added", added.Message)

	status, err := client.ScraperStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "running", status.Status)
	require.NotNil(t, status.ActiveScrapers)
	assert.Equal(t, 3, *status.ActiveScrapers)
}

func TestRecentAlerts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"a1","title":"Threat near campus","threat_level":17,"locations":["Nairobi"],"severity_tier":"CRITICAL","timestamp":"2026-10-14T09:00:00Z"},
			{"id":"a2","title":"Scam wave","threat_level":6,"locations":[],"severity_tier":"MEDIUM","timestamp":"2026-10-14T08:00:00Z","description":"M-Pesa"}
		]`))
	}))
	defer server.Close()

	alerts, err := NewClient(server.URL, 0).RecentAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, domain.TierCritical, alerts[0].Tier)
	assert.Equal(t, "M-Pesa", alerts[1].Description)
}

func TestRecentAlertsNullBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	alerts, err := NewClient(server.URL, 0).RecentAlerts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).ScraperStatus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper status")
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDefaultBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultBaseURL, NewClient("", 0).baseURL)
}
