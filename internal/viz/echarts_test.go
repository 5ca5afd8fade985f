package viz

import (
	"os"
	"strings"
	"testing"
	"time"

	"salesreport/internal/aggregate"
	"salesreport/internal/report"
)

func testAggs() aggregate.Set {
	return aggregate.Set{
		TopCustomers: []aggregate.CustomerRevenue{
			{CustomerID: "1", CustomerName: "Alice", Revenue: 25},
			{CustomerID: "2", CustomerName: "Bob", Revenue: 10},
		},
		ProductPerf: []aggregate.ProductStats{
			{Product: "X", TotalRevenue: 30, UnitsSold: 3, AvgPrice: 10},
			{Product: "Y", TotalRevenue: 5, UnitsSold: 1, AvgPrice: 5},
		},
		RegionSummary: []aggregate.RegionRevenue{
			{Region: "W", Revenue: 25},
			{Region: "E", Revenue: 10},
		},
		MonthlyTrend: []aggregate.MonthPoint{
			{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: 25, Orders: 1},
			{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Revenue: 10, Orders: 1},
		},
		ComboCounts: []aggregate.ProductPair{{ProductA: "X", ProductB: "Y", Count: 1}},
		Pivot: aggregate.Pivot{
			Regions:  []string{"E", "W"},
			Products: []string{"X", "Y"},
			Values:   [][]float64{{10, 0}, {20, 5}},
		},
	}
}

func TestRenderAllCharts(t *testing.T) {
	r := NewRenderer(DefaultTheme)
	dir := t.TempDir()
	aggs := testAggs()

	charts := append([]report.Chart{}, report.DefaultCharts...)
	charts = append(charts, report.ChartRegionShare)
	for _, chart := range charts {
		t.Run(string(chart), func(t *testing.T) {
			path, err := r.Render(chart, aggs, dir)
			if err != nil {
				t.Fatalf("Render(%s): %v", chart, err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("artifact missing: %v", err)
			}
			if info.Size() == 0 {
				t.Fatal("artifact is empty")
			}
			if !strings.HasSuffix(path, string(chart)+".html") {
				t.Fatalf("artifact path %q not named after chart", path)
			}
		})
	}
}

func TestRenderUnknownChart(t *testing.T) {
	r := NewRenderer(Theme{})
	if _, err := r.Render("sparkline", testAggs(), t.TempDir()); err == nil {
		t.Fatal("want error for unknown chart, got nil")
	}
}

func TestRenderEmptyAggregates(t *testing.T) {
	// Charts over empty views still produce a valid artifact.
	r := NewRenderer(Theme{})
	path, err := r.Render(report.ChartMonthlyTrend, aggregate.Set{}, t.TempDir())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
}
