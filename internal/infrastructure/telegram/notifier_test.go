package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ThreatMonitor/internal/domain"
)

var criticalAlert = domain.LiveAlert{
	ID:          "a1",
	Title:       "Threat near campus",
	ThreatLevel: 17,
	Locations:   []string{"Nairobi", "Kisumu"},
	Tier:        domain.TierCritical,
	Timestamp:   "2026-10-14T09:00:00Z",
}

func TestPublishAlert(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botsecret/sendMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		assert.Equal(t, "Markdown", r.PostForm.Get("parse_mode"))
		assert.Contains(t, r.PostForm.Get("text"), "Threat near campus")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewNotifier(server.URL, "secret", "42")
	require.NoError(t, n.PublishAlert(context.Background(), criticalAlert))
}

func TestPublishAlertFailureStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewNotifier(server.URL, "secret", "42").PublishAlert(context.Background(), criticalAlert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDisabledNotifier(t *testing.T) {
	t.Parallel()

	for _, n := range []*Notifier{NewNotifier("", "", "42"), NewNotifier("", "secret", ""), nil} {
		assert.False(t, n.Enabled())
		err := n.PublishAlert(context.Background(), criticalAlert)
		assert.True(t, errors.Is(err, domain.ErrNotConfigured))
	}
}

func TestFormatAlert(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"*CRITICAL* threat (17.0)\nThreat near campus\nLocations: Nairobi, Kisumu\n2026-10-14T09:00:00Z",
		FormatAlert(criticalAlert))

	assert.Equal(t, "*LOW* threat (2.0)\nQuiet", FormatAlert(domain.LiveAlert{Title: "Quiet", ThreatLevel: 2, Tier: domain.TierLow}))
}

func TestFormatAlertEscapesFeedText(t *testing.T) {
	t.Parallel()

	alert := domain.LiveAlert{
		Title:       "gbv_case *urgent*",
		ThreatLevel: 18,
		Tier:        domain.TierCritical,
		Locations:   []string{"[Nakuru]"},
		Description: "see `log`",
	}

	assert.Equal(t,
		"*CRITICAL* threat (18.0)\ngbv\\_case \\*urgent\\*\nLocations: \\[Nakuru]\nsee \\`log\\`",
		FormatAlert(alert))
}
