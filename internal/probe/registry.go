// Package probe defines the health-check strategies used for monitored data sources.
package probe

import (
	"context"
	"fmt"
	"sync"

	"ThreatMonitor/internal/domain"
)

// Target describes a configured source to check.
type Target struct {
	Name    string
	URL     string
	Type    string
	Options map[string]string
}

// Result is what a strategy observed on a successful request.
type Result struct {
	Status domain.SourceStatus
	Items  int
}

// Strategy captures a single probing implementation (html, http, etc.).
type Strategy interface {
	Name() string
	Probe(ctx context.Context, target Target) (Result, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry builds a registry pre-filled with strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: map[string]Strategy{}}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("probe %s is not registered", name)
}
