package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ProbeRate returns a timeseries panel of pickup probes by outcome.
func ProbeRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Probes by Outcome").
		Description("Pickup availability probes per second, split by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`asn:probes:rate5m`, "{{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ProbeLatency returns a timeseries panel of probe latency percentiles.
func ProbeLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Probe Latency").
		Description("p50 and p95 latency of pickup availability requests").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(asn_probe_duration_seconds_bucket{job="apple-stock-notifier"}[5m])) by (le))`,
			"p50", "A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(asn_probe_duration_seconds_bucket{job="apple-stock-notifier"}[5m])) by (le))`,
			"p95", "B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(2, 5)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
