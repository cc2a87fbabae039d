package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/metrics"
	"ThreatMonitor/internal/ports"
)

// Poll job names, also used as metric labels.
const (
	JobAlerts        = "alerts"
	JobScraperStatus = "scraper_status"
	JobDashboard     = "dashboard"
	JobSources       = "sources"
)

const notifiedRetention = 24 * time.Hour

// Schedules holds the cron spec of every polling loop. An empty spec disables the loop.
type Schedules struct {
	Alerts        string
	ScraperStatus string
	Dashboard     string
	Sources       string
}

// PollerDeps wires the driver, the data sources and the outbound channels of the poller.
type PollerDeps struct {
	Driver    ports.Scheduler
	Dashboard *Dashboard
	Analyzer  ports.Analyzer
	Prober    ports.SourceProber
	Cache     ports.SnapshotCache
	Notifier  ports.Notifier
	Metrics   *metrics.Metrics
	Schedules Schedules
	TTL       time.Duration
	Logger    *zap.Logger
}

// Poller keeps the snapshot cache fresh. Each loop runs independently; a failed
// poll is logged and counted, and the previous snapshot stays in place.
type Poller struct {
	driver    ports.Scheduler
	dashboard *Dashboard
	analyzer  ports.Analyzer
	prober    ports.SourceProber
	cache     ports.SnapshotCache
	notifier  ports.Notifier
	metrics   *metrics.Metrics
	schedules Schedules
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	notified map[string]time.Time
}

type pollJob struct {
	name string
	spec string
	run  func(context.Context) error
}

// NewPoller returns a helper to start/stop the recurring polls.
func NewPoller(deps PollerDeps) *Poller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		driver:    deps.Driver,
		dashboard: deps.Dashboard,
		analyzer:  deps.Analyzer,
		prober:    deps.Prober,
		cache:     deps.Cache,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		schedules: deps.Schedules,
		ttl:       deps.TTL,
		logger:    logger,
		now:       time.Now,
		notified:  map[string]time.Time{},
	}
}

func (p *Poller) jobs() []pollJob {
	var jobs []pollJob
	if p.analyzer != nil {
		jobs = append(jobs,
			pollJob{name: JobAlerts, spec: p.schedules.Alerts, run: p.PollAlerts},
			pollJob{name: JobScraperStatus, spec: p.schedules.ScraperStatus, run: p.PollScraperStatus},
		)
	}
	if p.dashboard != nil {
		jobs = append(jobs, pollJob{name: JobDashboard, spec: p.schedules.Dashboard, run: p.PollDashboard})
	}
	if p.prober != nil {
		jobs = append(jobs, pollJob{name: JobSources, spec: p.schedules.Sources, run: p.PollSources})
	}
	return jobs
}

// Start registers every polling loop, runs each once right away and starts the driver.
func (p *Poller) Start(ctx context.Context) error {
	if p.driver == nil || p.cache == nil {
		return nil
	}

	for _, job := range p.jobs() {
		if job.spec == "" {
			continue
		}
		if err := p.driver.Schedule(job.spec, func() { p.execute(ctx, job) }); err != nil {
			return fmt.Errorf("schedule %s poll: %w", job.name, err)
		}
		go p.execute(ctx, job)
	}

	return p.driver.Start(ctx)
}

// Stop gracefully tears down the underlying scheduler.
func (p *Poller) Stop(ctx context.Context) error {
	if p.driver == nil {
		return nil
	}

	return p.driver.Stop(ctx)
}

// RunOnce executes every polling loop a single time and returns the first failure.
func (p *Poller) RunOnce(ctx context.Context) error {
	var firstErr error
	for _, job := range p.jobs() {
		if err := p.execute(ctx, job); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s poll: %w", job.name, err)
		}
	}
	return firstErr
}

func (p *Poller) execute(ctx context.Context, job pollJob) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	err := job.run(ctx)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
		p.logger.Warn("poll failed", zap.String("job", job.name), zap.Error(err))
	} else {
		p.logger.Debug("poll done", zap.String("job", job.name))
	}

	if p.metrics != nil {
		p.metrics.PollsTotal.WithLabelValues(job.name, outcome).Inc()
		if err == nil {
			p.metrics.LastPollSuccess.WithLabelValues(job.name).Set(float64(p.now().Unix()))
		}
	}
	return err
}

// PollAlerts replaces the cached alert list and pushes new critical alerts.
func (p *Poller) PollAlerts(ctx context.Context) error {
	alerts, err := p.analyzer.RecentAlerts(ctx)
	if err != nil {
		return err
	}
	alerts = withTiers(alerts)

	if err := p.cache.Put(ctx, KeyAlerts, alerts, p.ttl); err != nil {
		return err
	}

	p.notifyCritical(ctx, alerts)
	return nil
}

// PollScraperStatus replaces the cached scraper status.
func (p *Poller) PollScraperStatus(ctx context.Context) error {
	status, err := p.analyzer.ScraperStatus(ctx)
	if err != nil {
		return err
	}
	return p.cache.Put(ctx, KeyScraperStatus, status, p.ttl)
}

// PollDashboard replaces the cached dashboard row and latest articles.
func (p *Poller) PollDashboard(ctx context.Context) error {
	state, err := p.dashboard.LoadDashboardState(ctx)
	if err != nil {
		return err
	}
	return p.cache.Put(ctx, KeyDashboard, state, p.ttl)
}

// PollSources probes every configured source and replaces the health snapshot.
func (p *Poller) PollSources(ctx context.Context) error {
	sources := p.prober.ProbeAll(ctx)

	if p.metrics != nil {
		counts := map[domain.SourceStatus]int{domain.SourceActive: 0, domain.SourceInactive: 0, domain.SourceError: 0}
		for _, src := range sources {
			counts[src.Status]++
		}
		for status, n := range counts {
			p.metrics.SourcesByStatus.WithLabelValues(string(status)).Set(float64(n))
		}
	}

	return p.cache.Put(ctx, KeySources, sources, p.ttl)
}

func (p *Poller) notifyCritical(ctx context.Context, alerts []domain.LiveAlert) {
	if p.notifier == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	current := make(map[string]struct{}, len(alerts))
	for _, alert := range alerts {
		current[alert.ID] = struct{}{}
	}
	// Forget IDs that left the feed a while ago.
	for id, at := range p.notified {
		if _, live := current[id]; !live && now.Sub(at) > notifiedRetention {
			delete(p.notified, id)
		}
	}

	for _, alert := range alerts {
		if alert.Tier != domain.TierCritical || alert.ID == "" {
			continue
		}
		if _, done := p.notified[alert.ID]; done {
			continue
		}
		if err := p.notifier.PublishAlert(ctx, alert); err != nil {
			p.logger.Warn("publish alert", zap.String("alert_id", alert.ID), zap.Error(err))
			continue
		}
		p.notified[alert.ID] = now
		if p.metrics != nil {
			p.metrics.AlertsNotified.Inc()
		}
	}
}
