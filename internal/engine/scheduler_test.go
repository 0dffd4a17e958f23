package engine

import (
	"context"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appleMocks "github.com/donaldgifford/apple-stock-notifier/internal/apple/mocks"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	notifyMocks "github.com/donaldgifford/apple-stock-notifier/internal/notify/mocks"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

func newSchedulerTestEngine(t *testing.T, w WatchSource) (*Engine, *appleMocks.MockProber) {
	t.Helper()
	p := appleMocks.NewMockProber(t)
	return newTestEngine(w, p, notifyMocks.NewMockNotifier(t)), p
}

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	eng, _ := newSchedulerTestEngine(t, &watchList{})

	sched, err := NewScheduler(eng, 2*time.Minute, quietLogger())
	require.NoError(t, err)

	entries := sched.Entries()
	assert.Len(t, entries, 1)
	assert.NotZero(t, sched.sweepEntryID)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	eng, _ := newSchedulerTestEngine(t, &watchList{})

	sched, err := NewScheduler(eng, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start(context.Background())
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_SyncNextRunTimestamp(t *testing.T) {
	t.Parallel()

	eng, _ := newSchedulerTestEngine(t, &watchList{})

	sched, err := NewScheduler(eng, 2*time.Minute, quietLogger())
	require.NoError(t, err)

	// Start so that cron populates Next times.
	sched.Start(context.Background())
	defer sched.Stop()

	sched.SyncNextRunTimestamp()

	next := ptestutil.ToFloat64(metrics.SchedulerNextSweepTimestamp)
	assert.Greater(t, next, float64(0), "next sweep timestamp should be set")
}

func TestScheduler_RunNow(t *testing.T) {
	t.Parallel()

	eng, p := newSchedulerTestEngine(t, &watchList{entries: []domain.WatchEntry{ginza}})
	p.EXPECT().Probe(mock.Anything, "MFYG4J/A", "Ginza").Return(nil).Once()

	sched, err := NewScheduler(eng, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.RunNow(context.Background())

	snap := eng.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, domain.Unavailable, snap[0].State)
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	t.Parallel()

	swept := make(chan struct{}, 4)
	eng, p := newSchedulerTestEngine(t, &watchList{entries: []domain.WatchEntry{ginza}})
	p.EXPECT().Probe(mock.Anything, "MFYG4J/A", "Ginza").
		RunAndReturn(func(context.Context, string, string) []domain.StoreResult {
			select {
			case swept <- struct{}{}:
			default:
			}
			return nil
		}).Maybe()

	sched, err := NewScheduler(eng, time.Second, quietLogger())
	require.NoError(t, err)

	sched.Start(context.Background())
	defer func() { <-sched.Stop().Done() }()

	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		t.Fatal("no sweep within 5s")
	}
}
