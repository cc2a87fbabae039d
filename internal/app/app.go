package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ThreatMonitor/internal/api"
	"ThreatMonitor/internal/config"
	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/infrastructure/analysis"
	"ThreatMonitor/internal/infrastructure/cache"
	probeinfra "ThreatMonitor/internal/infrastructure/probe"
	"ThreatMonitor/internal/infrastructure/scheduler"
	"ThreatMonitor/internal/infrastructure/storage"
	"ThreatMonitor/internal/infrastructure/telegram"
	"ThreatMonitor/internal/metrics"
	"ThreatMonitor/internal/ports"
	"ThreatMonitor/internal/probe"
	"ThreatMonitor/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *zap.Logger
	db        *sqlx.DB
	redis     *redis.Client
	metrics   *metrics.Metrics
	dashboard *usecase.Dashboard
	prober    *probeinfra.SourceProber
	poller    *usecase.Poller
	server    *api.Server
}

// New builds every adapter from cfg. The database handle is lazy; Redis is dialled
// only when an address is configured.
func New(cfg config.Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	repo := storage.NewPostgresRepository(db, storage.Limits{
		Page:    cfg.Database.PageLimit,
		Latest:  cfg.Database.LatestLimit,
		Threats: cfg.Database.ThreatLimit,
	})

	var (
		snapshots   ports.SnapshotCache = cache.NewMemorySnapshots()
		redisClient *redis.Client
	)
	if cfg.Cache.RedisAddress != "" {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Address:  cfg.Cache.RedisAddress,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		snapshots = cache.NewRedisSnapshots(redisClient)
	}

	analyzer := analysis.NewClient(cfg.Analysis.BaseURL, cfg.Analysis.Timeout)
	m := metrics.New()

	dashboard := usecase.NewDashboard(usecase.DashboardDeps{
		Articles:  repo,
		Threats:   repo,
		Snapshots: repo,
		Analyzer:  analyzer,
		Cache:     snapshots,
		Location:  cfg.Scheduler.Location(),
		Logger:    logger.Named("dashboard"),
	})

	registry := probe.NewRegistry(probeinfra.NewHTMLProbe(nil), probeinfra.NewHTTPProbe(nil))
	prober := probeinfra.NewSourceProber(registry, cfg.Sources, logger.Named("probe"))

	var notifier ports.Notifier
	tg := telegram.NewNotifier(cfg.Notifications.Telegram.APIBase, cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	if tg.Enabled() {
		notifier = tg
	} else {
		logger.Info("telegram notifications disabled")
	}

	poller := usecase.NewPoller(usecase.PollerDeps{
		Driver:    scheduler.NewCronScheduler(logger.Named("cron")),
		Dashboard: dashboard,
		Analyzer:  analyzer,
		Prober:    prober,
		Cache:     snapshots,
		Notifier:  notifier,
		Metrics:   m,
		Schedules: usecase.Schedules{
			Alerts:        cfg.Scheduler.Alerts,
			ScraperStatus: cfg.Scheduler.Status,
			Dashboard:     cfg.Scheduler.Dashboard,
			Sources:       cfg.Scheduler.Sources,
		},
		TTL:    cfg.Cache.TTL,
		Logger: logger.Named("poller"),
	})

	if cfg.Logging.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Application{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		metrics:   m,
		dashboard: dashboard,
		prober:    prober,
		poller:    poller,
		server:    api.NewServer(cfg.HTTP.Address, dashboard, m, logger.Named("http")),
	}, nil
}

// Dashboard exposes the use case for one-shot CLI commands.
func (a *Application) Dashboard() *usecase.Dashboard {
	return a.dashboard
}

// ProbeSources checks every configured source once.
func (a *Application) ProbeSources(ctx context.Context) []domain.DataSource {
	return a.prober.ProbeAll(ctx)
}

// PollOnce refreshes every cached snapshot a single time.
func (a *Application) PollOnce(ctx context.Context) error {
	return a.poller.RunOnce(ctx)
}

// Serve runs the HTTP API and the polling loops until ctx is cancelled or one of them fails.
func (a *Application) Serve(ctx context.Context) error {
	if err := storage.Ping(ctx, a.db); err != nil {
		a.logger.Warn("database not reachable at start-up", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start()
	})

	g.Go(func() error {
		if err := a.poller.Start(gctx); err != nil {
			return fmt.Errorf("start poller: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		return errors.Join(a.server.Shutdown(shutdownCtx), a.poller.Stop(shutdownCtx))
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the database and cache connections.
func (a *Application) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
