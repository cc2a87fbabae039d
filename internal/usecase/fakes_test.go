package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/ports"
)

var errUpstream = errors.New("upstream unavailable")

type fakeStore struct {
	mu        sync.Mutex
	page      []domain.Article
	latest    []domain.Article
	threats   []domain.Threat
	snapshot  *domain.DashboardSnapshot
	err       error
	lastQuery ports.PageQuery
}

func (f *fakeStore) PageArticles(_ context.Context, q ports.PageQuery) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	return f.page, f.err
}

func (f *fakeStore) LatestArticles(context.Context, int) ([]domain.Article, error) {
	return f.latest, f.err
}

func (f *fakeStore) Threats(context.Context, int) ([]domain.Threat, error) {
	return f.threats, f.err
}

func (f *fakeStore) LatestDashboard(context.Context) (*domain.DashboardSnapshot, error) {
	return f.snapshot, f.err
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	alerts   []domain.LiveAlert
	status   domain.ScraperStatus
	result   domain.AnalysisResult
	err      error
	alertsN  int
	analyzed []string
}

func (f *fakeAnalyzer) AnalyzeText(_ context.Context, text string) (domain.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text == "" {
		return domain.AnalysisResult{}, domain.ErrEmptyText
	}
	f.analyzed = append(f.analyzed, text)
	return f.result, f.err
}

func (f *fakeAnalyzer) RunScrapers(context.Context) (domain.ActionResult, error) {
	return domain.ActionResult{Status: "started", Message: "Scrapers started"}, f.err
}

func (f *fakeAnalyzer) ScraperStatus(context.Context) (domain.ScraperStatus, error) {
	return f.status, f.err
}

func (f *fakeAnalyzer) AddTestAlert(context.Context) (domain.ActionResult, error) {
	return domain.ActionResult{Status: "ok", Message: "Test alert added"}, f.err
}

func (f *fakeAnalyzer) RecentAlerts(context.Context) ([]domain.LiveAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertsN++
	return f.alerts, f.err
}

func (f *fakeAnalyzer) setAlerts(alerts []domain.LiveAlert, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts, f.err = alerts, err
}

type fakeProber struct {
	sources []domain.DataSource
}

func (f fakeProber) ProbeAll(context.Context) []domain.DataSource {
	return f.sources
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) PublishAlert(_ context.Context, alert domain.LiveAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, alert.ID)
	return nil
}

func (f *fakeNotifier) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fakeDriver struct {
	mu      sync.Mutex
	specs   []string
	started bool
	stopped bool
}

func (f *fakeDriver) Schedule(spec string, _ func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if spec == "bad" {
		return errors.New("bad spec")
	}
	f.specs = append(f.specs, spec)
	return nil
}

func (f *fakeDriver) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakeDriver) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
