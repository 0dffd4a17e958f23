package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
)

// Scheduler runs the availability sweep on a fixed interval.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger

	ctx          context.Context
	sweepEntryID cron.EntryID
}

// NewScheduler creates a new Scheduler that sweeps every interval. A sweep
// that is still running when the next one is due causes that one to be
// skipped.
func NewScheduler(
	eng *Engine,
	interval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
		ctx:    context.Background(),
	}

	id, err := c.AddFunc("@every "+interval.String(), s.runSweep)
	if err != nil {
		return nil, err
	}
	s.sweepEntryID = id

	return s, nil
}

// Start begins running scheduled sweeps. Sweeps run under ctx, so cancelling
// it aborts a sweep in progress.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// RunNow runs one sweep immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) {
	if err := s.engine.RunSweep(ctx); err != nil {
		s.log.Error("sweep failed", "error", err)
	}
}

// SyncNextRunTimestamp publishes the next scheduled sweep time.
func (s *Scheduler) SyncNextRunTimestamp() {
	next := s.cron.Entry(s.sweepEntryID).Next
	if !next.IsZero() {
		metrics.SchedulerNextSweepTimestamp.Set(float64(next.Unix()))
	}
}

func (s *Scheduler) runSweep() {
	s.log.Debug("scheduled sweep starting")
	s.RunNow(s.ctx)
	s.SyncNextRunTimestamp()
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
