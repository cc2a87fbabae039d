package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/probe"
)

const (
	userAgent = "ThreatMonitor/1.0"

	// selectorOption overrides the CSS selector used to find article links.
	selectorOption  = "selector"
	defaultSelector = "article a[href], h1 a[href], h2 a[href], h3 a[href]"
)

// HTMLProbe loads a source's front page and counts the article links on it.
type HTMLProbe struct {
	client *http.Client
}

var _ probe.Strategy = (*HTMLProbe)(nil)

// NewHTMLProbe wires an HTTP client; nil uses a client with a 20s timeout.
func NewHTMLProbe(client *http.Client) *HTMLProbe {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLProbe{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HTMLProbe) Name() string {
	return "html"
}

// Probe reports the source active when the page lists at least one article link.
func (h *HTMLProbe) Probe(ctx context.Context, target probe.Target) (probe.Result, error) {
	doc, err := h.fetchDocument(ctx, target.URL)
	if err != nil {
		return probe.Result{}, err
	}

	selector := target.Options[selectorOption]
	if selector == "" {
		selector = defaultSelector
	}

	items := countArticleLinks(doc, selector, target.URL)
	status := domain.SourceActive
	if items == 0 {
		status = domain.SourceInactive
	}
	return probe.Result{Status: status, Items: items}, nil
}

func (h *HTMLProbe) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// countArticleLinks counts distinct links matched by selector that stay on the source's host.
func countArticleLinks(doc *goquery.Document, selector, pageURL string) int {
	base, err := url.Parse(pageURL)
	if err != nil {
		return 0
	}

	seen := map[string]struct{}{}
	doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil || !sameSite(resolved.Hostname(), base.Hostname()) {
			return
		}
		resolved.Fragment = ""
		seen[resolved.String()] = struct{}{}
	})

	return len(seen)
}

func sameSite(host, base string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	base = strings.TrimPrefix(strings.ToLower(base), "www.")
	return host == base || strings.HasSuffix(host, "."+base)
}
