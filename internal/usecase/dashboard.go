package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/ports"
	"ThreatMonitor/internal/records"
)

// Cache keys written by the Poller and read by the Dashboard.
const (
	KeyAlerts        = "alerts"
	KeyScraperStatus = "scraper_status"
	KeyDashboard     = "dashboard"
	KeySources       = "sources"
)

const overviewHotspots = 10

// DashboardDeps wires the driven adapters behind the dashboard views.
type DashboardDeps struct {
	Articles  ports.ArticleStore
	Threats   ports.ThreatStore
	Snapshots ports.DashboardStore
	Analyzer  ports.Analyzer
	Cache     ports.SnapshotCache
	Location  *time.Location
	Now       func() time.Time
	Logger    *zap.Logger
}

// Dashboard serves the read views and the analysis actions.
type Dashboard struct {
	articles  ports.ArticleStore
	threats   ports.ThreatStore
	snapshots ports.DashboardStore
	analyzer  ports.Analyzer
	cache     ports.SnapshotCache
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// PageView is one category, entity or source page after filtering.
type PageView struct {
	Slug     string           `json:"slug"`
	Intent   records.Intent   `json:"intent"`
	Title    string           `json:"title"`
	Total    int              `json:"total"`
	Articles []domain.Article `json:"articles"`
}

// ThreatFeed is the filtered social threat list with its daily trend.
type ThreatFeed struct {
	Total   int                 `json:"total"`
	Threats []domain.Threat     `json:"threats"`
	Trend   []domain.TrendPoint `json:"trend"`
}

// DashboardState is the aggregated row plus the newest articles, refreshed together.
type DashboardState struct {
	Snapshot *domain.DashboardSnapshot `json:"snapshot"`
	Latest   []domain.Article          `json:"latest_articles"`
}

// Overview is the landing page payload.
type Overview struct {
	Snapshot         *domain.DashboardSnapshot `json:"snapshot"`
	ActiveMonitoring int                       `json:"active_monitoring"`
	LatestArticles   []domain.Article          `json:"latest_articles"`
	Hotspots         []domain.Hotspot          `json:"hotspots"`
	Alerts           []domain.LiveAlert        `json:"alerts"`
	ScraperStatus    *domain.ScraperStatus     `json:"scraper_status,omitempty"`
	Sources          []domain.DataSource       `json:"sources"`
}

// NewDashboard constructs the view component.
func NewDashboard(deps DashboardDeps) *Dashboard {
	d := &Dashboard{
		articles:  deps.Articles,
		threats:   deps.Threats,
		snapshots: deps.Snapshots,
		analyzer:  deps.Analyzer,
		cache:     deps.Cache,
		loc:       deps.Location,
		now:       deps.Now,
		logger:    deps.Logger,
	}
	if d.loc == nil {
		d.loc = time.UTC
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// Page classifies the slug, loads the page's articles, parses their entities and applies c.
// A blank slug yields an empty view without touching the store.
func (d *Dashboard) Page(ctx context.Context, rawSlug string, c records.Criteria) (PageView, error) {
	if d.articles == nil {
		return PageView{}, fmt.Errorf("article store: %w", domain.ErrNotConfigured)
	}

	slug := records.NormalizeSlug(rawSlug)
	if slug == "" {
		return PageView{Articles: []domain.Article{}}, nil
	}
	intent := records.Classify(slug)

	fetched, err := d.articles.PageArticles(ctx, ports.PageQuery{Slug: slug, Intent: intent})
	if err != nil {
		return PageView{}, fmt.Errorf("load page %s: %w", slug, err)
	}

	enriched := records.EnrichAll(fetched)
	matched := records.Filter(enriched, c, d.clock())
	d.logger.Debug("page served",
		zap.String("slug", slug),
		zap.String("intent", string(intent)),
		zap.Int("fetched", len(fetched)),
		zap.Int("matched", len(matched)))

	return PageView{
		Slug:     slug,
		Intent:   intent,
		Title:    records.DisplayTitle(slug, intent),
		Total:    len(fetched),
		Articles: matched,
	}, nil
}

// Threats loads the social threat feed and applies c. The trend covers the filtered set.
func (d *Dashboard) Threats(ctx context.Context, c records.Criteria) (ThreatFeed, error) {
	if d.threats == nil {
		return ThreatFeed{}, fmt.Errorf("threat store: %w", domain.ErrNotConfigured)
	}

	fetched, err := d.threats.Threats(ctx, 0)
	if err != nil {
		return ThreatFeed{}, fmt.Errorf("load threats: %w", err)
	}

	matched := records.Filter(fetched, c, d.clock())
	return ThreatFeed{
		Total:   len(fetched),
		Threats: matched,
		Trend:   records.Trend(matched, d.loc),
	}, nil
}

// LoadDashboardState reads the aggregated row and the latest articles from the store.
func (d *Dashboard) LoadDashboardState(ctx context.Context) (DashboardState, error) {
	if d.snapshots == nil || d.articles == nil {
		return DashboardState{}, fmt.Errorf("dashboard store: %w", domain.ErrNotConfigured)
	}

	snap, err := d.snapshots.LatestDashboard(ctx)
	if err != nil {
		return DashboardState{}, fmt.Errorf("load dashboard: %w", err)
	}
	latest, err := d.articles.LatestArticles(ctx, 0)
	if err != nil {
		return DashboardState{}, fmt.Errorf("load latest articles: %w", err)
	}
	return DashboardState{Snapshot: snap, Latest: records.EnrichAll(latest)}, nil
}

// Overview assembles the landing page from the poll cache, falling back to the
// store for the dashboard row when the cache is cold.
func (d *Dashboard) Overview(ctx context.Context) (Overview, error) {
	var state DashboardState
	found, err := d.cached(ctx, KeyDashboard, &state)
	if err != nil || !found {
		state, err = d.LoadDashboardState(ctx)
		if err != nil {
			return Overview{}, err
		}
	}

	out := Overview{
		Snapshot:         state.Snapshot,
		ActiveMonitoring: state.Snapshot.ActiveSources(),
		LatestArticles:   nonNil(state.Latest),
		Hotspots:         records.Hotspots(state.Latest, overviewHotspots),
		Alerts:           []domain.LiveAlert{},
		Sources:          []domain.DataSource{},
	}

	if _, err := d.cached(ctx, KeyAlerts, &out.Alerts); err != nil {
		d.logger.Warn("read cached alerts", zap.Error(err))
	}
	var status domain.ScraperStatus
	if ok, err := d.cached(ctx, KeyScraperStatus, &status); err != nil {
		d.logger.Warn("read cached scraper status", zap.Error(err))
	} else if ok {
		out.ScraperStatus = &status
	}
	if _, err := d.cached(ctx, KeySources, &out.Sources); err != nil {
		d.logger.Warn("read cached sources", zap.Error(err))
	}

	out.Alerts = nonNil(out.Alerts)
	out.Sources = nonNil(out.Sources)
	return out, nil
}

// Alerts returns the last polled alerts, or asks the service when nothing is cached yet.
func (d *Dashboard) Alerts(ctx context.Context) ([]domain.LiveAlert, error) {
	var alerts []domain.LiveAlert
	if ok, err := d.cached(ctx, KeyAlerts, &alerts); err == nil && ok {
		return nonNil(alerts), nil
	}
	if d.analyzer == nil {
		return nil, fmt.Errorf("analysis service: %w", domain.ErrNotConfigured)
	}
	alerts, err := d.analyzer.RecentAlerts(ctx)
	if err != nil {
		return nil, err
	}
	return withTiers(alerts), nil
}

// Sources returns the last source health snapshot.
func (d *Dashboard) Sources(ctx context.Context) ([]domain.DataSource, error) {
	var sources []domain.DataSource
	if _, err := d.cached(ctx, KeySources, &sources); err != nil {
		return nil, err
	}
	return nonNil(sources), nil
}

// ScraperStatus returns the last polled status, or asks the service when nothing is cached yet.
func (d *Dashboard) ScraperStatus(ctx context.Context) (domain.ScraperStatus, error) {
	var status domain.ScraperStatus
	if ok, err := d.cached(ctx, KeyScraperStatus, &status); err == nil && ok {
		return status, nil
	}
	if d.analyzer == nil {
		return domain.ScraperStatus{}, fmt.Errorf("analysis service: %w", domain.ErrNotConfigured)
	}
	return d.analyzer.ScraperStatus(ctx)
}

// Analyze submits text to the analysis service and attaches the severity tier.
func (d *Dashboard) Analyze(ctx context.Context, text string) (domain.AnalysisResult, error) {
	if d.analyzer == nil {
		return domain.AnalysisResult{}, fmt.Errorf("analysis service: %w", domain.ErrNotConfigured)
	}
	result, err := d.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	result.Tier = records.SeverityTier(result.SeverityScore)
	return result, nil
}

// RunScrapers starts collection on the analysis service.
func (d *Dashboard) RunScrapers(ctx context.Context) (domain.ActionResult, error) {
	if d.analyzer == nil {
		return domain.ActionResult{}, fmt.Errorf("analysis service: %w", domain.ErrNotConfigured)
	}
	return d.analyzer.RunScrapers(ctx)
}

// AddTestAlert injects a synthetic alert.
func (d *Dashboard) AddTestAlert(ctx context.Context) (domain.ActionResult, error) {
	if d.analyzer == nil {
		return domain.ActionResult{}, fmt.Errorf("analysis service: %w", domain.ErrNotConfigured)
	}
	return d.analyzer.AddTestAlert(ctx)
}

func (d *Dashboard) cached(ctx context.Context, key string, dest any) (bool, error) {
	if d.cache == nil {
		return false, nil
	}
	return d.cache.Get(ctx, key, dest)
}

func (d *Dashboard) clock() time.Time {
	return d.now().In(d.loc)
}

// withTiers fills a missing severity tier from the threat level.
func withTiers(alerts []domain.LiveAlert) []domain.LiveAlert {
	out := make([]domain.LiveAlert, len(alerts))
	for i, alert := range alerts {
		if alert.Tier == "" {
			alert.Tier = records.SeverityTier(alert.ThreatLevel)
		}
		out[i] = alert
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
