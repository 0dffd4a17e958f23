package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return resource("asn-recording-rules",
		RuleGroup{
			Name: "asn-recording",
			Rules: []Rule{
				{
					Record: "asn:http_requests:rate5m",
					Expr:   `sum(rate(asn_http_requests_total[5m]))`,
				},
				{
					Record: "asn:http_errors:rate5m",
					Expr:   `sum(rate(asn_http_requests_total{status=~"5.."}[5m]))`,
				},
				{
					Record: "asn:probes:rate5m",
					Expr:   `sum by (outcome) (rate(asn_probes_total[5m]))`,
				},
				{
					Record: "asn:probe_failures:ratio15m",
					Expr:   `sum(rate(asn_probes_total{outcome="failed"}[15m])) / clamp_min(sum(rate(asn_probes_total[15m])), 1e-9)`,
				},
				{
					Record: "asn:alerts_sent:rate5m",
					Expr:   `sum by (channel) (rate(asn_alerts_sent_total[5m]))`,
				},
			},
		},
	)
}
