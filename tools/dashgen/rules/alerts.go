package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// apple-stock-notifier operational monitoring.
func AlertRules() PrometheusRule {
	return resource("asn-alerts",
		RuleGroup{
			Name: "asn-alerts",
			Rules: []Rule{
				{
					Alert: "AsnDown",
					Expr:  `absent(up{job="apple-stock-notifier"})`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Apple Stock Notifier is down",
						"description": "The apple-stock-notifier job has been absent for more than 2 minutes.",
					},
				},
				{
					Alert: "AsnReadinessDown",
					Expr:  `asn_readyz_up == 0`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Apple Stock Notifier readiness check is failing",
						"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
					},
				},
				{
					Alert: "AsnHighErrorRate",
					Expr:  `asn:http_errors:rate5m / asn:http_requests:rate5m > 0.05`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "High HTTP error rate on Apple Stock Notifier",
						"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
					},
				},
				{
					Alert: "AsnProbeFailures",
					Expr:  `asn:probe_failures:ratio15m > 0.5`,
					For:   "10m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Most pickup probes are failing",
						"description": "More than half of Apple pickup requests failed over the last 15 minutes. Watches are being reported as unavailable.",
					},
				},
				{
					Alert: "AsnSweepStalled",
					Expr:  `increase(asn_sweeps_total{job="apple-stock-notifier"}[15m]) == 0`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "No availability sweep has completed",
						"description": "The scheduler has not finished a sweep in the last 15 minutes.",
					},
				},
				{
					Alert: "AsnTelegramPollErrors",
					Expr:  `increase(asn_update_poll_errors_total{job="apple-stock-notifier"}[10m]) > 5`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Telegram update polling is failing",
						"description": "getUpdates failed more than 5 times in 10 minutes. Bot commands are not being handled.",
					},
				},
				{
					Alert: "AsnNotificationFailures",
					Expr:  `sum(increase(asn_notification_failures_total{job="apple-stock-notifier"}[1h])) > 0`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Stock alert notifications are failing",
						"description": "At least one stock alert could not be delivered in the last hour.",
					},
				},
				{
					Alert: "AsnPersistFailures",
					Expr:  `increase(asn_persist_failures_total{job="apple-stock-notifier"}[1h]) > 0`,
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Watchlist changes are not being saved",
						"description": "A watchlist or user write failed and was rolled back in the last hour. Check the storage backend.",
					},
				},
			},
		},
	)
}
