package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SweepDuration returns a timeseries panel of sweep wall time.
func SweepDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Sweep Duration").
		Description("p95 wall time of a full sweep, including stagger delays").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(asn_sweep_duration_seconds_bucket{job="apple-stock-notifier"}[15m])) by (le))`,
			"p95", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// Transitions returns a timeseries panel of availability transitions.
func Transitions() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Availability Transitions").
		Description("Watches flipping state per hour, by new state").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum by (to) (increase(asn_availability_transitions_total{job="apple-stock-notifier"}[1h]))`,
			"{{to}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// InStockGauge returns a gauge of the share of watches currently in stock.
func InStockGauge() *gauge.PanelBuilder {
	return gauge.NewPanelBuilder().
		Title("Watches In Stock").
		Description("Percentage of watches available for pickup as of the last sweep").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth / 2).
		WithTarget(PromQuery(
			`asn_watches_available{job="apple-stock-notifier"} / clamp_min(asn_watches_total{job="apple-stock-notifier"}, 1) * 100`,
			"", "A",
		)).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds())
}

// NextSweep returns a stat panel counting down to the next scheduled sweep.
func NextSweep() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Sweep").
		Description("Seconds until the next scheduled sweep").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth / 2).
		WithTarget(PromQuery(
			`asn_scheduler_next_sweep_timestamp{job="apple-stock-notifier"} - time()`,
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
