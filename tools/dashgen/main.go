package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/dashboards"
	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/rules"
	"github.com/donaldgifford/apple-stock-notifier/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

// artifact is one generated file, relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	files, err := generate(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, f := range files {
		dst := filepath.Join(cfg.OutputDir, f.path)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(dst, f.data, 0o644); err != nil { //nolint:gosec // generated manifests are world-readable
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", dst)
	}
	return nil
}

// generate builds and validates every enabled artifact.
func generate(cfg Config) ([]artifact, error) {
	var files []artifact

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, fmt.Errorf("building dashboard: %w", err)
		}
		if err := check("dashboard", validate.Dashboard(dash, KnownMetrics)); err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling dashboard: %w", err)
		}
		files = append(files, artifact{
			path: filepath.Join("grafana", "data", dashboards.OverviewUID+".json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for _, cr := range []rules.PrometheusRule{rules.RecordingRules(), rules.AlertRules()} {
			if err := check(cr.Metadata.Name, validate.Rules(cr, KnownMetrics)); err != nil {
				return nil, err
			}
			data, err := yaml.Marshal(cr)
			if err != nil {
				return nil, fmt.Errorf("marshaling %s: %w", cr.Metadata.Name, err)
			}
			files = append(files, artifact{
				path: filepath.Join("prometheus", cr.Metadata.Name+".yaml"),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	return files, nil
}

func check(name string, r validate.Result) error {
	for _, w := range r.Warnings {
		fmt.Fprintf(os.Stderr, "dashgen: %s: warning: %s\n", name, w)
	}
	if r.Ok() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, errors.New(e))
	}
	return fmt.Errorf("%s failed validation: %w", name, errors.Join(errs...))
}
