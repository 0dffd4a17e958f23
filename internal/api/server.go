// Package api assembles the HTTP server: probes, Prometheus scrape and the
// read-only JSON API documented through OpenAPI.
package api

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/apple-stock-notifier/internal/api/handlers"
	"github.com/donaldgifford/apple-stock-notifier/internal/api/middleware"
)

const apiTitle = "Apple Stock Notifier API"

// Deps are the components the HTTP server reads from.
type Deps struct {
	Checks   map[string]handlers.Pinger
	Watches  handlers.WatchLister
	Snapshot handlers.SnapshotSource
	Sweeper  handlers.Sweeper
	Version  string
	Log      *slog.Logger

	// SweepContext bounds manual sweeps started over HTTP. It defaults to
	// context.Background.
	SweepContext context.Context
	// Spawn starts a manual sweep's goroutine. It defaults to a bare go
	// statement.
	Spawn func(func())
}

// NewServer builds the Echo instance with every route registered. The OpenAPI
// document is served at /openapi.json and browsable at /docs.
func NewServer(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(d.Checks)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig(apiTitle, d.Version))
	handlers.RegisterWatchRoutes(api, handlers.NewWatchHandler(d.Watches))
	handlers.RegisterAvailabilityRoutes(api, handlers.NewAvailabilityHandler(d.Snapshot))
	if d.Sweeper != nil {
		opts := []handlers.SweepOption{handlers.WithSweepLogger(log)}
		if d.SweepContext != nil {
			opts = append(opts, handlers.WithSweepContext(d.SweepContext))
		}
		if d.Spawn != nil {
			opts = append(opts, handlers.WithSpawner(d.Spawn))
		}
		handlers.RegisterSweepRoutes(api, handlers.NewSweepHandler(d.Sweeper, opts...))
	}

	return e
}
