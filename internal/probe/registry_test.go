package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ThreatMonitor/internal/domain"
)

type stubStrategy struct {
	name  string
	items int
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Probe(context.Context, Target) (Result, error) {
	return Result{Status: domain.SourceActive, Items: s.items}, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(stubStrategy{name: "html", items: 1})
	reg.Register(stubStrategy{name: "html", items: 2})

	strategy, err := reg.Resolve("html")
	require.NoError(t, err)
	res, err := strategy.Probe(context.Background(), Target{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items)

	_, err = reg.Resolve("rss")
	assert.ErrorContains(t, err, "probe rss is not registered")

	var zero Registry
	zero.Register(stubStrategy{name: "http"})
	_, err = zero.Resolve("http")
	assert.NoError(t, err)
}
