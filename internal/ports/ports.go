package ports

import (
	"context"
	"time"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/records"
)

// PageQuery selects the articles shown on one dashboard page.
type PageQuery struct {
	Slug   string
	Intent records.Intent
	Limit  int
}

// ArticleStore reads scraped articles from the hosted database.
type ArticleStore interface {
	PageArticles(ctx context.Context, q PageQuery) ([]domain.Article, error)
	LatestArticles(ctx context.Context, limit int) ([]domain.Article, error)
}

// ThreatStore reads flagged social posts.
type ThreatStore interface {
	Threats(ctx context.Context, limit int) ([]domain.Threat, error)
}

// DashboardStore reads the aggregated dashboard table. A nil snapshot means no rows.
type DashboardStore interface {
	LatestDashboard(ctx context.Context) (*domain.DashboardSnapshot, error)
}

// Analyzer is the external analysis service.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (domain.AnalysisResult, error)
	RunScrapers(ctx context.Context) (domain.ActionResult, error)
	ScraperStatus(ctx context.Context) (domain.ScraperStatus, error)
	AddTestAlert(ctx context.Context) (domain.ActionResult, error)
	RecentAlerts(ctx context.Context) ([]domain.LiveAlert, error)
}

// SourceProber checks the health of configured data sources.
type SourceProber interface {
	ProbeAll(ctx context.Context) []domain.DataSource
}

// SnapshotCache keeps the latest result of every polling loop.
type SnapshotCache interface {
	Put(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get decodes the cached value into dest and reports whether it existed.
	Get(ctx context.Context, key string, dest any) (bool, error)
}

// Notifier pushes alerts to an outbound channel (Telegram, etc.).
type Notifier interface {
	PublishAlert(ctx context.Context, alert domain.LiveAlert) error
}

// Scheduler controls when polling jobs execute.
type Scheduler interface {
	Schedule(spec string, job func()) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
