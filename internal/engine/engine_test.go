package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appleMocks "github.com/donaldgifford/apple-stock-notifier/internal/apple/mocks"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	"github.com/donaldgifford/apple-stock-notifier/internal/notify"
	notifyMocks "github.com/donaldgifford/apple-stock-notifier/internal/notify/mocks"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// watchList is a WatchSource whose entries can be swapped between sweeps.
type watchList struct {
	mu      sync.Mutex
	entries []domain.WatchEntry
	err     error
}

func (w *watchList) Watches(context.Context) ([]domain.WatchEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries, w.err
}

func (w *watchList) set(entries ...domain.WatchEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = entries
}

var (
	shibuya = domain.WatchEntry{Key: domain.NewWatchKey("256GB Xanh", "Shibuya"), PartNumber: "MFYA4J/A"}
	ginza   = domain.WatchEntry{Key: domain.NewWatchKey("1TB Cosmic", "Ginza"), PartNumber: "MFYG4J/A"}

	inStock = []domain.StoreResult{{Name: "Shibuya", Address: "a", Phone: "p", Email: "e"}}
)

var fixedNow = time.Date(2025, 9, 20, 9, 0, 0, 0, time.UTC)

func newTestEngine(w WatchSource, p *appleMocks.MockProber, n *notifyMocks.MockNotifier) *Engine {
	return NewEngine(w, p, n,
		WithLogger(quietLogger()),
		WithStaggerOffset(0),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	eng := NewEngine(&watchList{}, appleMocks.NewMockProber(t), notifyMocks.NewMockNotifier(t))
	assert.Equal(t, 2*time.Second, eng.staggerOffset)
	assert.NotNil(t, eng.log)
	assert.NotNil(t, eng.Snapshot())
	assert.Empty(t, eng.Snapshot())
}

func TestRunSweep_TwoAvailableProbesAlertOnce(t *testing.T) {
	t.Parallel()

	p := appleMocks.NewMockProber(t)
	p.EXPECT().Probe(mock.Anything, "MFYA4J/A", "Shibuya").Return(inStock).Twice()

	n := notifyMocks.NewMockNotifier(t)
	n.EXPECT().SendAlert(mock.Anything, mock.MatchedBy(func(a *notify.StockAlert) bool {
		return a.Kind == notify.InStock && a.Key == shibuya.Key && len(a.Stores) == 1
	})).Return(nil).Once()

	eng := newTestEngine(&watchList{entries: []domain.WatchEntry{shibuya}}, p, n)

	require.NoError(t, eng.RunSweep(context.Background()))
	require.NoError(t, eng.RunSweep(context.Background()))
}

func TestRunSweep_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		probes    [][]domain.StoreResult
		wantKinds []notify.AlertKind
		wantState domain.Availability
	}{
		{
			name:      "starts unavailable and stays quiet",
			probes:    [][]domain.StoreResult{{}, {}},
			wantState: domain.Unavailable,
		},
		{
			name:      "in stock then sold out",
			probes:    [][]domain.StoreResult{inStock, {}},
			wantKinds: []notify.AlertKind{notify.InStock, notify.OutOfStock},
			wantState: domain.Unavailable,
		},
		{
			name:      "flapping alerts on every change",
			probes:    [][]domain.StoreResult{inStock, {}, inStock},
			wantKinds: []notify.AlertKind{notify.InStock, notify.OutOfStock, notify.InStock},
			wantState: domain.Available,
		},
		{
			name:      "failed probe after in stock reads as sold out",
			probes:    [][]domain.StoreResult{inStock, nil},
			wantKinds: []notify.AlertKind{notify.InStock, notify.OutOfStock},
			wantState: domain.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := appleMocks.NewMockProber(t)
			for _, r := range tt.probes {
				p.EXPECT().Probe(mock.Anything, "MFYA4J/A", "Shibuya").Return(r).Once()
			}

			var kinds []notify.AlertKind
			n := notifyMocks.NewMockNotifier(t)
			if len(tt.wantKinds) > 0 {
				n.EXPECT().SendAlert(mock.Anything, mock.Anything).
					Run(func(_ context.Context, a *notify.StockAlert) {
						kinds = append(kinds, a.Kind)
						if a.Kind == notify.OutOfStock {
							assert.Empty(t, a.Stores)
						}
					}).
					Return(nil).Times(len(tt.wantKinds))
			}

			eng := newTestEngine(&watchList{entries: []domain.WatchEntry{shibuya}}, p, n)
			for range tt.probes {
				require.NoError(t, eng.RunSweep(context.Background()))
			}

			assert.Equal(t, tt.wantKinds, kinds)

			snap := eng.Snapshot()
			require.Len(t, snap, 1)
			assert.Equal(t, tt.wantState, snap[0].State)
			assert.Equal(t, tt.wantState.String(), snap[0].StateName)
			assert.Equal(t, fixedNow, snap[0].CheckedAt)
		})
	}
}

func TestRunSweep_DeliveryFailureDoesNotRealert(t *testing.T) {
	t.Parallel()

	p := appleMocks.NewMockProber(t)
	p.EXPECT().Probe(mock.Anything, "MFYA4J/A", "Shibuya").Return(inStock).Twice()

	n := notifyMocks.NewMockNotifier(t)
	n.EXPECT().SendAlert(mock.Anything, mock.Anything).Return(errors.New("telegram down")).Once()

	eng := newTestEngine(&watchList{entries: []domain.WatchEntry{shibuya}}, p, n)
	require.NoError(t, eng.RunSweep(context.Background()))
	require.NoError(t, eng.RunSweep(context.Background()))
}

func TestRunSweep_PrunesRemovedWatches(t *testing.T) {
	t.Parallel()

	p := appleMocks.NewMockProber(t)
	p.EXPECT().Probe(mock.Anything, "MFYA4J/A", "Shibuya").Return(inStock).Twice()
	p.EXPECT().Probe(mock.Anything, "MFYG4J/A", "Ginza").Return([]domain.StoreResult{}).Once()

	n := notifyMocks.NewMockNotifier(t)
	// Re-adding a pruned watch starts from unavailable again.
	n.EXPECT().SendAlert(mock.Anything, mock.Anything).Return(nil).Twice()

	w := &watchList{entries: []domain.WatchEntry{ginza, shibuya}}
	eng := newTestEngine(w, p, n)

	require.NoError(t, eng.RunSweep(context.Background()))
	snap := eng.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "1TB Cosmic | Ginza", snap[0].Key)
	assert.Equal(t, "256GB Xanh | Shibuya", snap[1].Key)
	assert.Equal(t, domain.Available, snap[1].State)
	assert.Equal(t, 1, snap[1].Stores)
	assert.True(t, snap[0].ChangedAt.IsZero())

	w.set()
	require.NoError(t, eng.RunSweep(context.Background()))
	assert.Empty(t, eng.Snapshot())

	w.set(shibuya)
	require.NoError(t, eng.RunSweep(context.Background()))
}

func TestRunSweep_WatchSourceError(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(
		&watchList{err: errors.New("state stopped")},
		appleMocks.NewMockProber(t),
		notifyMocks.NewMockNotifier(t),
	)

	err := eng.RunSweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing watches")
}

func TestRunSweep_StaggerRespectsCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	p := appleMocks.NewMockProber(t)
	p.EXPECT().Probe(mock.Anything, "MFYG4J/A", "Ginza").
		RunAndReturn(func(context.Context, string, string) []domain.StoreResult {
			cancel()
			return nil
		}).Once()

	eng := NewEngine(&watchList{entries: []domain.WatchEntry{ginza, shibuya}}, p, notifyMocks.NewMockNotifier(t),
		WithLogger(quietLogger()),
		WithStaggerOffset(time.Hour),
	)

	err := eng.RunSweep(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunSweep_UpdatesMetrics(t *testing.T) {
	t.Parallel()

	p := appleMocks.NewMockProber(t)
	p.EXPECT().Probe(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	eng := newTestEngine(&watchList{entries: []domain.WatchEntry{ginza}}, p, notifyMocks.NewMockNotifier(t))

	before := ptestutil.ToFloat64(metrics.SweepsTotal)
	require.NoError(t, eng.RunSweep(context.Background()))
	assert.Greater(t, ptestutil.ToFloat64(metrics.SweepsTotal), before)
}
