package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/apple-stock-notifier/internal/api/handlers"
	"github.com/donaldgifford/apple-stock-notifier/pkg/logger"
)

type ctxKey struct{}

type fakeSweeper struct {
	err   error
	calls int
	ctx   context.Context
}

func (f *fakeSweeper) RunSweep(ctx context.Context) error {
	f.calls++
	f.ctx = ctx
	return f.err
}

// deferredSpawner holds spawned work until the test runs it.
type deferredSpawner struct {
	pending []func()
}

func (d *deferredSpawner) spawn(f func()) { d.pending = append(d.pending, f) }

func (d *deferredSpawner) runAll() {
	for _, f := range d.pending {
		f()
	}
	d.pending = nil
}

func TestSweep_RunsInBackgroundUnderBaseContext(t *testing.T) {
	t.Parallel()

	base := context.WithValue(context.Background(), ctxKey{}, "service")
	sw := &fakeSweeper{}
	sp := &deferredSpawner{}

	_, api := humatest.New(t)
	handlers.RegisterSweepRoutes(api, handlers.NewSweepHandler(sw,
		handlers.WithSweepContext(base),
		handlers.WithSpawner(sp.spawn),
		handlers.WithSweepLogger(logger.Discard()),
	))

	resp := api.Post("/api/v1/sweep")
	require.Equal(t, http.StatusAccepted, resp.Code)
	assert.Contains(t, resp.Body.String(), "sweep started")
	assert.Zero(t, sw.calls, "the response does not wait for the sweep")

	require.Len(t, sp.pending, 1)
	sp.runAll()

	assert.Equal(t, 1, sw.calls)
	require.NotNil(t, sw.ctx)
	assert.Equal(t, "service", sw.ctx.Value(ctxKey{}))
	assert.NoError(t, sw.ctx.Err())
}

func TestSweep_ConflictWhileRunning(t *testing.T) {
	t.Parallel()

	sw := &fakeSweeper{}
	sp := &deferredSpawner{}

	_, api := humatest.New(t)
	handlers.RegisterSweepRoutes(api, handlers.NewSweepHandler(sw,
		handlers.WithSpawner(sp.spawn),
		handlers.WithSweepLogger(logger.Discard()),
	))

	require.Equal(t, http.StatusAccepted, api.Post("/api/v1/sweep").Code)

	resp := api.Post("/api/v1/sweep")
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already running")
	assert.Len(t, sp.pending, 1)

	sp.runAll()
	assert.Equal(t, http.StatusAccepted, api.Post("/api/v1/sweep").Code)
}

func TestSweep_FailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sw := &fakeSweeper{err: errors.New("listing watches: state owner stopped")}
	sp := &deferredSpawner{}

	_, api := humatest.New(t)
	handlers.RegisterSweepRoutes(api, handlers.NewSweepHandler(sw,
		handlers.WithSpawner(sp.spawn),
		handlers.WithSweepLogger(logger.NewWithWriter(&buf, "info", "text")),
	))

	require.Equal(t, http.StatusAccepted, api.Post("/api/v1/sweep").Code)
	sp.runAll()

	assert.Contains(t, buf.String(), "manual sweep failed")
	assert.Contains(t, buf.String(), "state owner stopped")
}
