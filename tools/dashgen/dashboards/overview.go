// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/panels"
)

// OverviewUID is the stable UID of the overview dashboard.
const OverviewUID = "asn-overview"

// BuildOverview constructs the overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Apple Stock Notifier").
		Uid(OverviewUID).
		Tags([]string{"asn", "apple-stock-notifier"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.WatchesStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Pickup Probes").
		WithPanel(panels.ProbeRate()).
		WithPanel(panels.ProbeLatency()))

	b.WithRow(dashboard.NewRowBuilder("Sweeps").
		WithPanel(panels.SweepDuration()).
		WithPanel(panels.Transitions()).
		WithPanel(panels.InStockGauge()).
		WithPanel(panels.NextSweep()))

	b.WithRow(dashboard.NewRowBuilder("Telegram Bot").
		WithPanel(panels.UpdatesRate()).
		WithPanel(panels.PollErrors()).
		WithPanel(panels.AuthAttempts()))

	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationFailures()).
		WithPanel(panels.PersistFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
