package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(nil)
	assert.Error(t, s.Schedule("every now and then", func() {}))
	assert.Error(t, s.Schedule("@every 30s", nil))
	assert.NoError(t, s.Schedule("@every 30s", func() {}))
	assert.NoError(t, s.Schedule("*/5 * * * *", func() {}))
}

func TestJobsRunUntilStopped(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(nil)
	var runs atomic.Int32
	require.NoError(t, s.Schedule("@every 1s", func() { runs.Add(1) }))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))

	after := runs.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestPanickingJobIsRecovered(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(nil)
	var runs atomic.Int32
	require.NoError(t, s.Schedule("@every 1s", func() {
		runs.Add(1)
		panic("boom")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	cancel()
}
