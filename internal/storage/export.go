package storage

import (
	"context"
	"fmt"
	"log"

	"salesreport/internal/aggregate"
	"salesreport/internal/sales"
)

const dateLayout = "2006-01-02"

// Export persists the unified record set and every aggregate view into repo,
// one table per view, each named with cfg's prefix. Tables are dropped and
// recreated so re-running the pipeline leaves the database in the same state
// as a first run.
func Export(ctx context.Context, repo Repository, prefix string, unified []sales.Unified, aggs aggregate.Set) error {
	for _, t := range exportTables(unified, aggs) {
		name := prefix + t.name
		if err := repo.Reset(ctx, name, t.columns); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
		cols := make([]string, len(t.columns))
		for i, c := range t.columns {
			cols[i] = c.Name
		}
		n, err := repo.InsertRows(ctx, name, cols, t.rows)
		if err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
		log.Printf("export: %s: %d row(s)", name, n)
	}
	return nil
}

type table struct {
	name    string
	columns []Column
	rows    [][]any
}

func exportTables(unified []sales.Unified, aggs aggregate.Set) []table {
	unifiedRows := make([][]any, len(unified))
	for i, u := range unified {
		unifiedRows[i] = []any{
			u.OrderID, u.CustomerID, u.CustomerName, u.Segment, u.Product,
			u.Quantity, u.UnitPrice, u.Revenue,
			u.OrderDate.Format(dateLayout), u.OrderMonth.Format(dateLayout), u.Region,
		}
	}

	topRows := make([][]any, len(aggs.TopCustomers))
	for i, c := range aggs.TopCustomers {
		topRows[i] = []any{c.CustomerID, c.CustomerName, c.Revenue}
	}

	productRows := make([][]any, len(aggs.ProductPerf))
	for i, p := range aggs.ProductPerf {
		productRows[i] = []any{p.Product, p.TotalRevenue, p.UnitsSold, p.AvgPrice}
	}

	regionRows := make([][]any, len(aggs.RegionSummary))
	for i, r := range aggs.RegionSummary {
		regionRows[i] = []any{r.Region, r.Revenue}
	}

	monthRows := make([][]any, len(aggs.MonthlyTrend))
	for i, m := range aggs.MonthlyTrend {
		monthRows[i] = []any{m.Month.Format(dateLayout), m.Revenue, m.Orders}
	}

	comboRows := make([][]any, len(aggs.ComboCounts))
	for i, c := range aggs.ComboCounts {
		comboRows[i] = []any{c.ProductA, c.ProductB, c.Count}
	}

	// The pivot exports in long form: one row per (region, product) cell,
	// zero cells included.
	var pivotRows [][]any
	for i, region := range aggs.Pivot.Regions {
		for j, product := range aggs.Pivot.Products {
			pivotRows = append(pivotRows, []any{region, product, aggs.Pivot.Values[i][j]})
		}
	}

	return []table{
		{
			name: "unified",
			columns: []Column{
				{"order_id", "text"}, {"customer_id", "text"}, {"customer_name", "text"},
				{"segment", "text"}, {"product", "text"}, {"quantity", "integer"},
				{"unit_price", "real"}, {"revenue", "real"}, {"order_date", "text"},
				{"order_month", "text"}, {"region", "text"},
			},
			rows: unifiedRows,
		},
		{
			name:    "top_customers",
			columns: []Column{{"customer_id", "text"}, {"customer_name", "text"}, {"revenue", "real"}},
			rows:    topRows,
		},
		{
			name:    "product_perf",
			columns: []Column{{"product", "text"}, {"total_revenue", "real"}, {"units_sold", "integer"}, {"avg_price", "real"}},
			rows:    productRows,
		},
		{
			name:    "region_summary",
			columns: []Column{{"region", "text"}, {"revenue", "real"}},
			rows:    regionRows,
		},
		{
			name:    "monthly_trend",
			columns: []Column{{"order_month", "text"}, {"revenue", "real"}, {"orders", "integer"}},
			rows:    monthRows,
		},
		{
			name:    "combo_counts",
			columns: []Column{{"product_a", "text"}, {"product_b", "text"}, {"count", "integer"}},
			rows:    comboRows,
		},
		{
			name:    "pivot_region_product",
			columns: []Column{{"region", "text"}, {"product", "text"}, {"revenue", "real"}},
			rows:    pivotRows,
		},
	}
}
