package main

import "errors"

// KnownMetrics is the set of metric names exported by apple-stock-notifier
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"asn_http_request_duration_seconds": true,
	"asn_http_requests_total":           true,

	// Health metrics.
	"asn_healthz_up": true,
	"asn_readyz_up":  true,

	// Probe metrics.
	"asn_probes_total":           true,
	"asn_probe_duration_seconds": true,

	// Sweep metrics.
	"asn_sweeps_total":                   true,
	"asn_sweep_duration_seconds":         true,
	"asn_availability_transitions_total": true,
	"asn_watches_available":              true,
	"asn_scheduler_next_sweep_timestamp": true,

	// Bot metrics.
	"asn_updates_total":            true,
	"asn_update_poll_errors_total": true,
	"asn_auth_attempts_total":      true,

	// State metrics.
	"asn_watches_total":          true,
	"asn_authorized_users_total": true,
	"asn_persist_failures_total": true,

	// Alert metrics.
	"asn_alerts_sent_total":           true,
	"asn_notification_failures_total": true,

	// Recording rules.
	"asn:http_requests:rate5m":    true,
	"asn:http_errors:rate5m":      true,
	"asn:probes:rate5m":           true,
	"asn:probe_failures:ratio15m": true,
	"asn:alerts_sent:rate5m":      true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
