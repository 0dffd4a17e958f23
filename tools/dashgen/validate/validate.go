// Package validate checks generated dashboards and rule files for PromQL
// syntax errors and references to metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/rules"
)

// histogramSuffixes are the series suffixes a histogram exposes beyond its
// base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects the problems found in one artifact.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found. Warnings do not fail validation.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Expr parses a PromQL expression and returns every metric name it
// selects, in order of first appearance.
func Expr(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !slices.Contains(names, vs.Name) {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names, nil
}

// known reports whether name is a known metric, accepting histogram series
// of a known base name.
func known(name string, metrics map[string]bool) bool {
	if metrics[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && metrics[base] {
			return true
		}
	}
	return false
}

func checkExpr(r *Result, where, expr string, metrics map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		r.errorf("%s: empty expression", where)
		return
	}
	names, err := Expr(expr)
	if err != nil {
		r.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	for _, name := range names {
		if !known(name, metrics) {
			r.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// jsonPanel is the subset of a rendered Grafana panel the checks need.
type jsonPanel struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Panels  []jsonPanel `json:"panels"`
	Targets []struct {
		Expr  string `json:"expr"`
		RefID string `json:"refId"`
	} `json:"targets"`
}

// Dashboard validates every query target of a built dashboard. The
// dashboard is inspected through its JSON rendering, which is what Grafana
// loads.
func Dashboard(dash any, metrics map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("marshaling dashboard: %v", err)
		return r
	}

	var doc struct {
		Panels []jsonPanel `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("decoding dashboard: %v", err)
		return r
	}

	for _, p := range doc.Panels {
		if p.Type == "row" {
			if len(p.Panels) == 0 {
				r.warnf("row %q has no panels", p.Title)
			}
			for _, inner := range p.Panels {
				checkPanel(&r, inner, metrics)
			}
			continue
		}
		checkPanel(&r, p, metrics)
	}
	return r
}

func checkPanel(r *Result, p jsonPanel, metrics map[string]bool) {
	if len(p.Targets) == 0 {
		r.warnf("panel %q has no targets", p.Title)
		return
	}
	seen := make(map[string]bool, len(p.Targets))
	for _, t := range p.Targets {
		where := fmt.Sprintf("panel %q target %s", p.Title, t.RefID)
		if seen[t.RefID] {
			r.errorf("panel %q: duplicate refId %s", p.Title, t.RefID)
		}
		seen[t.RefID] = true
		checkExpr(r, where, t.Expr, metrics)
	}
}

// Rules validates a PrometheusRule CR. Recording rule names count as known
// metrics for the rules that follow them, so alerts may build on them.
func Rules(cr rules.PrometheusRule, metrics map[string]bool) Result {
	var r Result

	for _, g := range cr.Spec.Groups {
		if len(g.Rules) == 0 {
			r.warnf("group %q has no rules", g.Name)
		}
		for i, rule := range g.Rules {
			switch {
			case rule.Record != "" && rule.Alert != "":
				r.errorf("group %q rule %d: both record and alert set", g.Name, i)
				continue
			case rule.Record == "" && rule.Alert == "":
				r.errorf("group %q rule %d: neither record nor alert set", g.Name, i)
				continue
			}

			name := rule.Record
			if name == "" {
				name = rule.Alert
				if rule.Labels["severity"] == "" {
					r.errorf("alert %q: missing severity label", name)
				}
				if rule.Annotations["summary"] == "" {
					r.warnf("alert %q: missing summary annotation", name)
				}
			}
			checkExpr(&r, fmt.Sprintf("group %q rule %q", g.Name, name), rule.Expr, metrics)
		}
	}
	return r
}
