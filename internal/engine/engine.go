// Package engine runs the periodic availability sweep: probe every watch,
// track its last known state and alert on transitions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/apple-stock-notifier/internal/apple"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	"github.com/donaldgifford/apple-stock-notifier/internal/notify"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// WatchSource lists the watches to sweep.
type WatchSource interface {
	Watches(ctx context.Context) ([]domain.WatchEntry, error)
}

// Engine probes watches and alerts when a watch changes between available
// and unavailable. Every watch starts as unavailable, so the first available
// probe after startup alerts.
type Engine struct {
	watches  WatchSource
	prober   apple.Prober
	notifier notify.Notifier
	log      *slog.Logger

	staggerOffset time.Duration
	now           func() time.Time

	sweepMu  sync.Mutex // serializes sweeps; guards records
	records  map[string]domain.AvailabilityRecord
	snapshot atomic.Pointer[[]domain.AvailabilityRecord]
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	w WatchSource,
	p apple.Prober,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		watches:       w,
		prober:        p,
		notifier:      n,
		log:           slog.Default(),
		staggerOffset: 2 * time.Second,
		now:           time.Now,
		records:       map[string]domain.AvailabilityRecord{},
	}
	for _, opt := range opts {
		opt(eng)
	}
	eng.snapshot.Store(&[]domain.AvailabilityRecord{})
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithStaggerOffset sets the delay between probing each watch.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// RunSweep probes every watch once. Records of watches that are no longer
// listed are dropped at the end of the sweep.
func (eng *Engine) RunSweep(ctx context.Context) error {
	eng.sweepMu.Lock()
	defer eng.sweepMu.Unlock()

	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := eng.watches.Watches(ctx)
	if err != nil {
		return fmt.Errorf("listing watches: %w", err)
	}

	eng.log.Debug("sweep starting", "watches", len(entries))

	listed := make(map[string]struct{}, len(entries))
	for i := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		e := entries[i]
		listed[e.Key.String()] = struct{}{}

		stores := eng.prober.Probe(ctx, e.PartNumber, e.Location())
		eng.observe(ctx, e, stores)

		// Stagger between watches to avoid API bursts.
		if i < len(entries)-1 && eng.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(eng.staggerOffset):
			}
		}
	}

	for key := range eng.records {
		if _, ok := listed[key]; !ok {
			delete(eng.records, key)
		}
	}
	eng.publish()

	metrics.SweepsTotal.Inc()
	eng.log.Info("sweep complete", "watches", len(entries), "elapsed", time.Since(start))
	return nil
}

// observe applies one probe result to the watch's record and alerts on a
// transition. An empty result, including a failed probe, reads as
// unavailable.
func (eng *Engine) observe(ctx context.Context, e domain.WatchEntry, stores []domain.StoreResult) {
	key := e.Key.String()
	now := eng.now()

	rec, ok := eng.records[key]
	if !ok {
		rec = domain.AvailabilityRecord{Key: key, State: domain.Unavailable}
	}
	rec.CheckedAt = now
	rec.Stores = len(stores)

	next := domain.Unavailable
	if len(stores) > 0 {
		next = domain.Available
	}

	changed := next != rec.State
	if changed {
		rec.State = next
		rec.ChangedAt = now
	}
	rec.StateName = rec.State.String()
	eng.records[key] = rec

	if !changed {
		return
	}

	metrics.TransitionsTotal.WithLabelValues(next.String()).Inc()
	eng.log.Info("availability changed", "watch", key, "state", next.String(), "stores", len(stores))

	alert := &notify.StockAlert{
		Kind:       notify.InStock,
		Key:        e.Key,
		PartNumber: e.PartNumber,
		Stores:     stores,
		DetectedAt: now,
	}
	if next == domain.Unavailable {
		alert.Kind = notify.OutOfStock
		alert.Stores = nil
	}

	// The new state is kept even if delivery fails so one transition never
	// alerts twice.
	if err := eng.notifier.SendAlert(ctx, alert); err != nil {
		eng.log.Warn("alert delivery failed", "watch", key, "error", err)
	}
}

func (eng *Engine) publish() {
	out := make([]domain.AvailabilityRecord, 0, len(eng.records))
	available := 0
	for _, key := range slices.Sorted(maps.Keys(eng.records)) {
		rec := eng.records[key]
		if rec.State == domain.Available {
			available++
		}
		out = append(out, rec)
	}
	eng.snapshot.Store(&out)
	metrics.WatchesAvailable.Set(float64(available))
}

// Snapshot returns the availability records as of the last completed sweep,
// sorted by watch key.
func (eng *Engine) Snapshot() []domain.AvailabilityRecord {
	return slices.Clone(*eng.snapshot.Load())
}
