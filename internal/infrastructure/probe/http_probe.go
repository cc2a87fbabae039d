package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/probe"
)

// HTTPProbe only checks that the source answers. Used for APIs and social feeds.
type HTTPProbe struct {
	client *http.Client
}

var _ probe.Strategy = (*HTTPProbe)(nil)

func NewHTTPProbe(client *http.Client) *HTTPProbe {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProbe{client: client}
}

func (h *HTTPProbe) Name() string {
	return "http"
}

func (h *HTTPProbe) Probe(ctx context.Context, target probe.Target) (probe.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return probe.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return probe.Result{}, fmt.Errorf("request source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return probe.Result{}, fmt.Errorf("source returned %s", resp.Status)
	}
	return probe.Result{Status: domain.SourceActive}, nil
}
