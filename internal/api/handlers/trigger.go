package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/danielgtaylor/huma/v2"
)

// Sweeper runs one availability sweep.
type Sweeper interface {
	RunSweep(ctx context.Context) error
}

// SweepHandler starts manual sweeps. A sweep outlives the request that
// started it: it runs under the handler's base context and is only stopped
// when that context is cancelled at shutdown.
type SweepHandler struct {
	sweeper Sweeper
	base    context.Context
	spawn   func(func())
	log     *slog.Logger
	running atomic.Bool
}

// SweepOption configures a SweepHandler.
type SweepOption func(*SweepHandler)

// WithSweepContext sets the context background sweeps run under.
func WithSweepContext(ctx context.Context) SweepOption {
	return func(h *SweepHandler) {
		h.base = ctx
	}
}

// WithSpawner sets how the background sweep goroutine is started, so the
// caller can wait for it on shutdown.
func WithSpawner(spawn func(func())) SweepOption {
	return func(h *SweepHandler) {
		h.spawn = spawn
	}
}

// WithSweepLogger sets the logger for sweep failures.
func WithSweepLogger(l *slog.Logger) SweepOption {
	return func(h *SweepHandler) {
		h.log = l
	}
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(s Sweeper, opts ...SweepOption) *SweepHandler {
	h := &SweepHandler{
		sweeper: s,
		base:    context.Background(),
		spawn:   func(f func()) { go f() },
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SweepOutput is the response body for the sweep endpoint.
type SweepOutput struct {
	Body struct {
		Status string `json:"status" example:"sweep started" doc:"Sweep status"`
	}
}

// Sweep starts a sweep of every watch and returns without waiting for it.
// The sweep waits for a scheduled sweep in progress to finish first. Only
// one manual sweep runs at a time.
func (h *SweepHandler) Sweep(_ context.Context, _ *struct{}) (*SweepOutput, error) {
	if !h.running.CompareAndSwap(false, true) {
		return nil, huma.Error409Conflict("a manual sweep is already running")
	}

	h.spawn(func() {
		defer h.running.Store(false)
		if err := h.sweeper.RunSweep(h.base); err != nil {
			h.log.Error("manual sweep failed", "error", err)
			return
		}
		h.log.Info("manual sweep completed")
	})

	resp := &SweepOutput{}
	resp.Body.Status = "sweep started"
	return resp, nil
}

// RegisterSweepRoutes registers the manual sweep endpoint on the Huma API.
func RegisterSweepRoutes(api huma.API, h *SweepHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "trigger-sweep",
		Method:        http.MethodPost,
		Path:          "/api/v1/sweep",
		Summary:       "Trigger a sweep",
		Description:   "Starts probing every watch in the background and alerts on availability changes.",
		Tags:          []string{"availability"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusConflict},
	}, h.Sweep)
}
