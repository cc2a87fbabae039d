package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ThreatMonitor/internal/ports"
)

// CronScheduler runs polling jobs on cron specs, including "@every 30s" descriptors.
type CronScheduler struct {
	cron    *cron.Cron
	parser  cron.Parser
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
	quit    chan struct{}
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler that skips a tick while the previous run of the
// same job is still in flight and recovers job panics.
func NewCronScheduler(logger *zap.Logger) *CronScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	cronLogger := zapCronLogger{log: logger.Sugar()}

	return &CronScheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		parser: parser,
		logger: logger,
	}
}

// Schedule registers job under spec.
func (c *CronScheduler) Schedule(spec string, job func()) error {
	if job == nil {
		return fmt.Errorf("schedule %q: nil job", spec)
	}
	if _, err := c.parser.Parse(spec); err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if _, err := c.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("add job %q: %w", spec, err)
	}
	c.logger.Debug("job scheduled", zap.String("spec", spec))
	return nil
}

// Start begins dispatching jobs. The scheduler stops by itself when ctx is cancelled.
func (c *CronScheduler) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	c.running = true
	c.quit = make(chan struct{})
	c.cron.Start()

	go func(quit <-chan struct{}) {
		select {
		case <-ctx.Done():
			_ = c.Stop(context.Background())
		case <-quit:
		}
	}(c.quit)

	return nil
}

// Stop halts dispatching and waits for running jobs until ctx expires.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	close(c.quit)
	c.mu.Unlock()

	done := c.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type zapCronLogger struct {
	log *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
