package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ThreatMonitor/internal/config"
	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/ports"
	"ThreatMonitor/internal/probe"
)

const maxConcurrentProbes = 4

// SourceProber implements ports.SourceProber via registered probe strategies.
type SourceProber struct {
	registry *probe.Registry
	sources  []config.SourceConfig
	logger   *zap.Logger
	now      func() time.Time
}

var _ ports.SourceProber = (*SourceProber)(nil)

// NewSourceProber wires the strategy registry with config-defined sources.
func NewSourceProber(reg *probe.Registry, sources []config.SourceConfig, logger *zap.Logger) *SourceProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceProber{
		registry: reg,
		sources:  sources,
		logger:   logger,
		now:      time.Now,
	}
}

// ProbeAll checks every configured source and returns one entry per source in
// configuration order. A failing source is reported with status error.
func (s *SourceProber) ProbeAll(ctx context.Context) []domain.DataSource {
	results := make([]domain.DataSource, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for i, src := range s.sources {
		g.Go(func() error {
			results[i] = s.probeOne(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *SourceProber) probeOne(ctx context.Context, src config.SourceConfig) domain.DataSource {
	entry := domain.DataSource{
		Name:      src.Name,
		URL:       src.URL,
		Type:      src.Type,
		LastCheck: s.now().UTC(),
	}

	res, err := s.run(ctx, src)
	if err != nil {
		s.logger.Warn("source probe failed", zap.String("source", src.Name), zap.Error(err))
		entry.Status = domain.SourceError
		entry.Error = err.Error()
		return entry
	}

	s.logger.Debug("source probed",
		zap.String("source", src.Name),
		zap.String("status", string(res.Status)),
		zap.Int("items", res.Items))
	entry.Status = res.Status
	entry.Items = res.Items
	return entry
}

func (s *SourceProber) run(ctx context.Context, src config.SourceConfig) (probe.Result, error) {
	if s.registry == nil {
		return probe.Result{}, fmt.Errorf("probe registry is not configured")
	}
	strategy, err := s.registry.Resolve(src.Probe)
	if err != nil {
		return probe.Result{}, err
	}
	return strategy.Probe(ctx, probe.Target{
		Name:    src.Name,
		URL:     src.URL,
		Type:    src.Type,
		Options: src.Options,
	})
}
