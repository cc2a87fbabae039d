package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/ports"
)

// DefaultBaseURL is the hosted analysis service used by the dashboard.
const DefaultBaseURL = "https://iamparody-safe-guard-crawler.hf.space"

// Client talks to the external threat analysis service. Calls are made once;
// failures are returned to the caller without retry.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.Analyzer = (*Client)(nil)

// NewClient creates a reusable HTTP client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// AnalyzeText submits free text as the multipart form field "text".
func (c *Client) AnalyzeText(ctx context.Context, text string) (domain.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.AnalysisResult{}, domain.ErrEmptyText
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("text", text); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("write form field: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("close form: %w", err)
	}

	var result domain.AnalysisResult
	if err := c.do(ctx, "analyze", http.MethodPost, "/analyze", &body, form.FormDataContentType(), &result); err != nil {
		return domain.AnalysisResult{}, err
	}
	return result, nil
}

// RunScrapers asks the service to start its collectors.
func (c *Client) RunScrapers(ctx context.Context) (domain.ActionResult, error) {
	var result domain.ActionResult
	if err := c.do(ctx, "run scrapers", http.MethodPost, "/run-scrapers", nil, "", &result); err != nil {
		return domain.ActionResult{}, err
	}
	return result, nil
}

// ScraperStatus reports whether collectors are running.
func (c *Client) ScraperStatus(ctx context.Context) (domain.ScraperStatus, error) {
	var status domain.ScraperStatus
	if err := c.do(ctx, "scraper status", http.MethodGet, "/scraper-status", nil, "", &status); err != nil {
		return domain.ScraperStatus{}, err
	}
	return status, nil
}

// AddTestAlert injects a synthetic alert into the service's feed.
func (c *Client) AddTestAlert(ctx context.Context) (domain.ActionResult, error) {
	var result domain.ActionResult
	if err := c.do(ctx, "add test alert", http.MethodPost, "/add-test-alert", nil, "", &result); err != nil {
		return domain.ActionResult{}, err
	}
	return result, nil
}

// RecentAlerts lists the alerts currently published by the service.
func (c *Client) RecentAlerts(ctx context.Context) ([]domain.LiveAlert, error) {
	var alerts []domain.LiveAlert
	if err := c.do(ctx, "recent alerts", http.MethodGet, "/", nil, "", &alerts); err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []domain.LiveAlert{}
	}
	return alerts, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
