package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// UpdatesRate returns a timeseries panel of Telegram updates by kind.
func UpdatesRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Telegram Updates").
		Description("Updates handled per second, by kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum by (kind) (rate(asn_updates_total{job="apple-stock-notifier"}[5m]))`,
			"{{kind}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PollErrors returns a stat panel of getUpdates failures in the last hour.
func PollErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Poll Errors (1h)").
		Description("Failed getUpdates calls in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`increase(asn_update_poll_errors_total{job="apple-stock-notifier"}[1h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// AuthAttempts returns a timeseries panel of /start attempts by result.
func AuthAttempts() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Authorization Attempts").
		Description("Password attempts per hour, by result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum by (result) (increase(asn_auth_attempts_total{job="apple-stock-notifier"}[1h]))`,
			"{{result}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}
