// Package pipeline wires the stages together: load → merge → aggregate →
// report, plus the optional database export. One call is one self-contained
// run; identical inputs produce identical outputs.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"salesreport/internal/aggregate"
	"salesreport/internal/config"
	"salesreport/internal/loader"
	"salesreport/internal/report"
	"salesreport/internal/sales"
	"salesreport/internal/storage"
	"salesreport/internal/viz"
)

// Run executes one full pipeline pass described by cfg, writing the text
// report to stdout. All fatal errors return before any artifact is written:
// loading, merging and aggregation complete first, and only then do charts,
// report text and the export touch the outside world.
func Run(ctx context.Context, cfg config.Pipeline, stdout io.Writer) error {
	customers, lines, err := loader.Load(cfg.Sources.Customers, cfg.Sources.Sales)
	if err != nil {
		return err
	}
	log.Printf("pipeline: loaded %d customer(s), %d sale line(s)", len(customers), len(lines))

	unified, err := sales.Merge(customers, lines)
	if err != nil {
		return err
	}

	aggs := aggregate.Compute(unified)
	kpis := aggregate.ComputeKPIs(unified, customers)

	renderer := viz.NewRenderer(viz.Theme{Palette: cfg.Charts.Palette})
	paths, err := report.RenderCharts(renderer, config.EnabledCharts(cfg), aggs, cfg.Report.OutputDir)
	if err != nil {
		return err
	}
	log.Printf("pipeline: rendered %d chart(s)", len(paths))

	opts := report.Options{TopN: cfg.Report.TopN, OutputDir: cfg.Report.OutputDir}
	if err := report.WriteReport(stdout, kpis, aggs, opts); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.Export.Enabled {
		if err := runExport(ctx, cfg.Export, unified, aggs); err != nil {
			return err
		}
	}
	return nil
}

// runExport opens the configured backend and persists the run's tables. The
// backend must have been registered, typically by a blank import of
// salesreport/internal/storage/all in the main package.
func runExport(ctx context.Context, cfg config.Export, unified []sales.Unified, aggs aggregate.Set) error {
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Kind, DSN: cfg.DSN, TablePrefix: cfg.TablePrefix})
	if err != nil {
		return err
	}
	defer repo.Close()
	return storage.Export(ctx, repo, cfg.TablePrefix, unified, aggs)
}
