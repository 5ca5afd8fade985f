package report

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"salesreport/internal/aggregate"
)

// Chart names a renderable view. Each chart is fed exactly one aggregate
// view; everything past that boundary (colors, axes, interactivity) belongs
// to the Renderer implementation.
type Chart string

const (
	ChartTopCustomers   Chart = "top_customers"
	ChartMonthlyTrend   Chart = "monthly_revenue_trend"
	ChartRegionHeatmap  Chart = "region_product_heatmap"
	ChartProductRevenue Chart = "product_revenue"
	ChartRegionShare    Chart = "region_share"
)

// DefaultCharts is the chart set rendered when the configuration does not
// narrow it.
var DefaultCharts = []Chart{
	ChartTopCustomers,
	ChartMonthlyTrend,
	ChartRegionHeatmap,
	ChartProductRevenue,
}

// KnownChart reports whether name is a chart this pipeline can render.
func KnownChart(name Chart) bool {
	switch name {
	case ChartTopCustomers, ChartMonthlyTrend, ChartRegionHeatmap, ChartProductRevenue, ChartRegionShare:
		return true
	}
	return false
}

// Renderer turns one named aggregate view into an artifact under dir and
// returns the artifact path. Implementations must be safe for concurrent
// calls with distinct charts.
type Renderer interface {
	Render(chart Chart, aggs aggregate.Set, dir string) (string, error)
}

// RenderCharts creates dir if absent and renders every requested chart,
// fanning out across charts since each writes a distinct file. It returns
// the artifact paths in the order requested.
func RenderCharts(r Renderer, charts []Chart, aggs aggregate.Set, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, len(charts))
	var g errgroup.Group
	for i, chart := range charts {
		g.Go(func() error {
			if !KnownChart(chart) {
				return fmt.Errorf("unknown chart %q", chart)
			}
			path, err := r.Render(chart, aggs, dir)
			if err != nil {
				return fmt.Errorf("render %s: %w", chart, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
