package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/rules"
	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/validate"
)

var metrics = map[string]bool{
	"asn_probes_total":           true,
	"asn_probe_duration_seconds": true,
	"asn:probes:rate5m":          true,
	"up":                         true,
}

func TestExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		want    []string
		wantErr bool
	}{
		{
			name: "plain selector",
			expr: `asn_probes_total{outcome="failed"}`,
			want: []string{"asn_probes_total"},
		},
		{
			name: "histogram quantile",
			expr: `histogram_quantile(0.95, sum(rate(asn_probe_duration_seconds_bucket[5m])) by (le))`,
			want: []string{"asn_probe_duration_seconds_bucket"},
		},
		{
			name: "binary expression dedups names",
			expr: `asn_probes_total / asn_probes_total`,
			want: []string{"asn_probes_total"},
		},
		{
			name: "recording rule name",
			expr: `asn:probes:rate5m > 0`,
			want: []string{"asn:probes:rate5m"},
		},
		{
			name:    "syntax error",
			expr:    `sum(rate(asn_probes_total[5m])`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := validate.Expr(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	dash := map[string]any{
		"panels": []any{
			map[string]any{
				"type":  "row",
				"title": "Probes",
				"panels": []any{
					map[string]any{
						"type":  "timeseries",
						"title": "Latency",
						"targets": []any{
							map[string]any{"refId": "A", "expr": `rate(asn_probe_duration_seconds_sum[5m])`},
							map[string]any{"refId": "B", "expr": `asn_unknown_total`},
						},
					},
					map[string]any{"type": "text", "title": "Notes"},
				},
			},
		},
	}

	result := validate.Dashboard(dash, metrics)
	assert.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `unknown metric "asn_unknown_total"`)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"Notes" has no targets`)
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{
		Spec: rules.PrometheusRuleSpec{
			Groups: []rules.RuleGroup{{
				Name: "g",
				Rules: []rules.Rule{
					{Record: "asn:probes:rate5m", Expr: `sum by (outcome) (rate(asn_probes_total[5m]))`},
					{
						Alert:       "Down",
						Expr:        `absent(up{job="x"})`,
						Labels:      map[string]string{"severity": "critical"},
						Annotations: map[string]string{"summary": "down"},
					},
					{Alert: "NoSeverity", Expr: `up == 0`},
					{Record: "asn:broken", Expr: `rate(`},
				},
			}},
		},
	}

	result := validate.Rules(cr, metrics)
	assert.False(t, result.Ok())
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `"NoSeverity": missing severity`)
	assert.Contains(t, result.Errors[1], "invalid PromQL")
	require.Len(t, result.Warnings, 1)
}
