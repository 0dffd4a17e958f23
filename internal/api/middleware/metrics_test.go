package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/apple-stock-notifier/internal/api/middleware"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		route     string
		target    string
		status    int
		wantLabel string
	}{
		{
			name:      "records 200 response",
			method:    http.MethodGet,
			route:     "/api/v1/watches",
			target:    "/api/v1/watches",
			status:    http.StatusOK,
			wantLabel: "/api/v1/watches",
		},
		{
			name:      "records POST request",
			method:    http.MethodPost,
			route:     "/api/v1/sweep",
			target:    "/api/v1/sweep",
			status:    http.StatusInternalServerError,
			wantLabel: "/api/v1/sweep",
		},
		{
			name:      "labels by route pattern",
			method:    http.MethodGet,
			route:     "/api/v1/watches/:key",
			target:    "/api/v1/watches/abc",
			status:    http.StatusNotFound,
			wantLabel: "/api/v1/watches/:key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.route, func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)

			statusStr := strconv.Itoa(tt.status)

			counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				tt.method, tt.wantLabel, statusStr,
			)
			require.NoError(t, err)
			assert.Positive(t, testutil.ToFloat64(counter))

			observer, err := metrics.HTTPRequestDuration.GetMetricWithLabelValues(
				tt.method, tt.wantLabel, statusStr,
			)
			require.NoError(t, err)

			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_HealthGauges(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())

	ready := true
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/readyz", func(c echo.Context) error {
		if ready {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})

	serve := func(path string) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	before := testutil.CollectAndCount(metrics.HTTPRequestsTotal)

	serve("/healthz")
	serve("/readyz")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.HealthzUp), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ReadyzUp), 0)

	ready = false
	serve("/readyz")
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.ReadyzUp), 0)

	assert.Equal(t, before, testutil.CollectAndCount(metrics.HTTPRequestsTotal),
		"probe paths must not create request series")
}
