// Package viz renders aggregate views as chart artifacts. The go-echarts
// implementation writes self-contained HTML files, one per chart; pixel-level
// presentation (colors, axes, interactivity) lives entirely here, behind the
// report.Renderer boundary.
package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"salesreport/internal/aggregate"
	"salesreport/internal/report"
)

// Theme is the styling configuration handed in from the outside; no
// package-level mutable state.
type Theme struct {
	// Palette lists series colors in order. Empty keeps library defaults.
	Palette []string
}

// DefaultTheme mirrors the curriculum dashboards' palette.
var DefaultTheme = Theme{
	Palette: []string{"#6366f1", "#8b5cf6", "#ec4899", "#10b981", "#f59e0b", "#06b6d4"},
}

// maxBarCustomers bounds the top-customers bar so the chart stays readable.
const maxBarCustomers = 10

// Renderer implements report.Renderer on go-echarts.
type Renderer struct {
	theme Theme
}

// NewRenderer returns a Renderer using the given theme; a zero Theme keeps
// the library defaults.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Render writes the named chart under dir and returns the artifact path.
func (r *Renderer) Render(chart report.Chart, aggs aggregate.Set, dir string) (string, error) {
	path := filepath.Join(dir, string(chart)+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := r.RenderTo(chart, aggs, f); err != nil {
		return "", err
	}
	return path, nil
}

// RenderTo writes the named chart to w as a self-contained HTML document.
// The dashboard serves charts straight from this path; the batch pipeline
// goes through Render.
func (r *Renderer) RenderTo(chart report.Chart, aggs aggregate.Set, w io.Writer) error {
	var build func(aggs aggregate.Set) (renderable, error)
	switch chart {
	case report.ChartTopCustomers:
		build = r.topCustomers
	case report.ChartMonthlyTrend:
		build = r.monthlyTrend
	case report.ChartRegionHeatmap:
		build = r.regionHeatmap
	case report.ChartProductRevenue:
		build = r.productRevenue
	case report.ChartRegionShare:
		build = r.regionShare
	default:
		return fmt.Errorf("viz: unknown chart %q", chart)
	}

	c, err := build(aggs)
	if err != nil {
		return err
	}
	return c.Render(w)
}

// renderable is the slice of the go-echarts chart API the renderer needs.
type renderable interface {
	Render(w io.Writer) error
}

func (r *Renderer) colorOpts() []charts.GlobalOpts {
	if len(r.theme.Palette) == 0 {
		return nil
	}
	return []charts.GlobalOpts{charts.WithColorsOpts(opts.Colors(r.theme.Palette))}
}

func (r *Renderer) topCustomers(aggs aggregate.Set) (renderable, error) {
	top := aggs.TopCustomers
	if len(top) > maxBarCustomers {
		top = top[:maxBarCustomers]
	}

	names := make([]string, len(top))
	data := make([]opts.BarData, len(top))
	// Reverse so the biggest customer renders at the top of the flipped axis.
	for i, c := range top {
		j := len(top) - 1 - i
		names[j] = c.CustomerName
		data[j] = opts.BarData{Value: c.Revenue}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(r.colorOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Top Customers by Revenue"}),
	)...)
	bar.SetXAxis(names).AddSeries("revenue", data)
	bar.XYReversal()
	return bar, nil
}

func (r *Renderer) monthlyTrend(aggs aggregate.Set) (renderable, error) {
	months := make([]string, len(aggs.MonthlyTrend))
	data := make([]opts.LineData, len(aggs.MonthlyTrend))
	for i, m := range aggs.MonthlyTrend {
		months[i] = m.Month.Format("2006-01")
		data[i] = opts.LineData{Value: m.Revenue}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(r.colorOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Monthly Revenue Trend"}),
	)...)
	line.SetXAxis(months).AddSeries("revenue", data)
	return line, nil
}

func (r *Renderer) regionHeatmap(aggs aggregate.Set) (renderable, error) {
	p := aggs.Pivot
	var maxVal float64
	data := make([]opts.HeatMapData, 0, len(p.Regions)*len(p.Products))
	for i := range p.Regions {
		for j := range p.Products {
			v := p.Values[i][j]
			if v > maxVal {
				maxVal = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(append(r.colorOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Revenue by Region and Product"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: p.Products}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: p.Regions}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: 0, Max: float32(maxVal)}),
	)...)
	hm.AddSeries("revenue", data)
	return hm, nil
}

func (r *Renderer) productRevenue(aggs aggregate.Set) (renderable, error) {
	products := make([]string, len(aggs.ProductPerf))
	data := make([]opts.BarData, len(aggs.ProductPerf))
	for i, ps := range aggs.ProductPerf {
		products[i] = ps.Product
		data[i] = opts.BarData{Value: ps.TotalRevenue}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(r.colorOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Product Revenue"}),
	)...)
	bar.SetXAxis(products).AddSeries("total_revenue", data)
	return bar, nil
}

func (r *Renderer) regionShare(aggs aggregate.Set) (renderable, error) {
	data := make([]opts.PieData, len(aggs.RegionSummary))
	for i, reg := range aggs.RegionSummary {
		data[i] = opts.PieData{Name: reg.Region, Value: reg.Revenue}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(append(r.colorOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Revenue Share by Region"}),
	)...)
	pie.AddSeries("revenue", data)
	return pie, nil
}
