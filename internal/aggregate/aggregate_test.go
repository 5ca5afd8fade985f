package aggregate

import (
	"math"
	"testing"
	"time"

	"salesreport/internal/sales"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixture is the worked scenario: two customers, three line items, one
// multi-product order.
func fixture(t *testing.T) ([]sales.Customer, []sales.Unified) {
	t.Helper()
	customers := []sales.Customer{
		{ID: "1", Name: "Alice", Region: "W"},
		{ID: "2", Name: "Bob", Region: "E"},
	}
	lines := []sales.Sale{
		{OrderID: "1", CustomerID: "1", Product: "X", Quantity: 2, UnitPrice: 10, Revenue: 20, OrderDate: date(2024, 1, 5)},
		{OrderID: "1", CustomerID: "1", Product: "Y", Quantity: 1, UnitPrice: 5, Revenue: 5, OrderDate: date(2024, 1, 5)},
		{OrderID: "2", CustomerID: "2", Product: "X", Quantity: 1, UnitPrice: 10, Revenue: 10, OrderDate: date(2024, 2, 1)},
	}
	unified, err := sales.Merge(customers, lines)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return customers, unified
}

func TestScenarioKPIs(t *testing.T) {
	customers, unified := fixture(t)
	k := ComputeKPIs(unified, customers)

	if k.TotalRevenue != 35 {
		t.Errorf("total revenue = %v, want 35", k.TotalRevenue)
	}
	if k.TotalCustomers != 2 {
		t.Errorf("total customers = %d, want 2", k.TotalCustomers)
	}
	if math.Abs(k.AvgOrderValue-35.0/3) > 1e-9 {
		t.Errorf("avg order value = %v, want %v", k.AvgOrderValue, 35.0/3)
	}
	if k.TopCustomerName != "Alice" || k.TopCustomerRevenue != 25 {
		t.Errorf("top customer = %s (%v), want Alice (25)", k.TopCustomerName, k.TopCustomerRevenue)
	}
}

func TestScenarioViews(t *testing.T) {
	_, unified := fixture(t)
	aggs := Compute(unified)

	if len(aggs.TopCustomers) != 2 || aggs.TopCustomers[0].CustomerName != "Alice" || aggs.TopCustomers[0].Revenue != 25 {
		t.Errorf("top customers = %+v", aggs.TopCustomers)
	}

	if len(aggs.ProductPerf) != 2 {
		t.Fatalf("product perf = %+v", aggs.ProductPerf)
	}
	if aggs.ProductPerf[0].Product != "X" || aggs.ProductPerf[0].TotalRevenue != 30 || aggs.ProductPerf[0].UnitsSold != 3 {
		t.Errorf("product X = %+v", aggs.ProductPerf[0])
	}
	if aggs.ProductPerf[1].Product != "Y" || aggs.ProductPerf[1].TotalRevenue != 5 {
		t.Errorf("product Y = %+v", aggs.ProductPerf[1])
	}
	// X appears on two lines priced 10 each.
	if aggs.ProductPerf[0].AvgPrice != 10 {
		t.Errorf("avg price X = %v, want 10", aggs.ProductPerf[0].AvgPrice)
	}

	if len(aggs.MonthlyTrend) != 2 {
		t.Fatalf("monthly trend = %+v", aggs.MonthlyTrend)
	}
	jan, feb := aggs.MonthlyTrend[0], aggs.MonthlyTrend[1]
	if !jan.Month.Equal(date(2024, 1, 1)) || jan.Revenue != 25 || jan.Orders != 1 {
		t.Errorf("january = %+v", jan)
	}
	if !feb.Month.Equal(date(2024, 2, 1)) || feb.Revenue != 10 || feb.Orders != 1 {
		t.Errorf("february = %+v", feb)
	}

	if len(aggs.ComboCounts) != 1 {
		t.Fatalf("combo counts = %+v", aggs.ComboCounts)
	}
	if c := aggs.ComboCounts[0]; c.ProductA != "X" || c.ProductB != "Y" || c.Count != 1 {
		t.Errorf("combo = %+v", c)
	}
}

func TestRevenueAggregationsAgree(t *testing.T) {
	customers, unified := fixture(t)
	aggs := Compute(unified)
	k := ComputeKPIs(unified, customers)

	var byProduct, byRegion float64
	for _, p := range aggs.ProductPerf {
		byProduct += p.TotalRevenue
	}
	for _, r := range aggs.RegionSummary {
		byRegion += r.Revenue
	}
	if math.Abs(byProduct-k.TotalRevenue) > 1e-9 || math.Abs(byRegion-k.TotalRevenue) > 1e-9 {
		t.Fatalf("aggregations disagree: product=%v region=%v kpi=%v", byProduct, byRegion, k.TotalRevenue)
	}
}

func TestRegionSummaryIncludesUnassigned(t *testing.T) {
	// A sale with no region anywhere lands in the sentinel bucket, keeping
	// the region summary in agreement with total revenue.
	unified, err := sales.Merge(
		[]sales.Customer{{ID: "1", Name: "Alice"}},
		[]sales.Sale{{OrderID: "1", CustomerID: "1", Product: "X", Revenue: 10, OrderDate: date(2024, 1, 1)}},
	)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	aggs := Compute(unified)
	if len(aggs.RegionSummary) != 1 || aggs.RegionSummary[0].Region != sales.RegionUnassigned {
		t.Fatalf("region summary = %+v", aggs.RegionSummary)
	}
}

func TestComboThreeProducts(t *testing.T) {
	var lines []sales.Sale
	// Order with distinct products {A, B, C}, A repeated on two lines.
	for _, p := range []string{"A", "A", "B", "C"} {
		lines = append(lines, sales.Sale{OrderID: "1", CustomerID: "1", Product: p, Revenue: 1, OrderDate: date(2024, 1, 1)})
	}
	unified, err := sales.Merge([]sales.Customer{{ID: "1", Name: "Alice"}}, lines)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	got := Compute(unified).ComboCounts
	want := []ProductPair{
		{ProductA: "A", ProductB: "B", Count: 1},
		{ProductA: "A", ProductB: "C", Count: 1},
		{ProductA: "B", ProductB: "C", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("combos = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("combo %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComboEmptyIsWellTyped(t *testing.T) {
	// Every order has a single distinct product.
	unified, err := sales.Merge(
		[]sales.Customer{{ID: "1", Name: "Alice"}},
		[]sales.Sale{
			{OrderID: "1", CustomerID: "1", Product: "X", Revenue: 1, OrderDate: date(2024, 1, 1)},
			{OrderID: "1", CustomerID: "1", Product: "X", Revenue: 1, OrderDate: date(2024, 1, 2)},
			{OrderID: "2", CustomerID: "1", Product: "Y", Revenue: 1, OrderDate: date(2024, 1, 3)},
		},
	)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got := Compute(unified).ComboCounts
	if got == nil {
		t.Fatal("combo counts is nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("combo counts = %+v, want empty", got)
	}
}

func TestPivotZeroFill(t *testing.T) {
	unified, err := sales.Merge(
		[]sales.Customer{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}},
		[]sales.Sale{
			{OrderID: "1", CustomerID: "1", Product: "X", Revenue: 20, OrderDate: date(2024, 1, 1), Region: "W"},
			{OrderID: "2", CustomerID: "2", Product: "Y", Revenue: 5, OrderDate: date(2024, 1, 2), Region: "E"},
		},
	)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	p := Compute(unified).Pivot
	if len(p.Regions) != 2 || len(p.Products) != 2 {
		t.Fatalf("pivot axes = %v x %v", p.Regions, p.Products)
	}
	// Regions sorted: E, W. Products sorted: X, Y.
	if p.Values[0][0] != 0 || p.Values[0][1] != 5 || p.Values[1][0] != 20 || p.Values[1][1] != 0 {
		t.Fatalf("pivot values = %v", p.Values)
	}
}

func TestUnmatchedCustomerExcludedFromRanking(t *testing.T) {
	unified, err := sales.Merge(
		[]sales.Customer{{ID: "1", Name: "Alice"}},
		[]sales.Sale{
			{OrderID: "1", CustomerID: "1", Product: "X", Revenue: 10, OrderDate: date(2024, 1, 1)},
			{OrderID: "2", CustomerID: "99", Product: "X", Revenue: 100, OrderDate: date(2024, 1, 2)},
		},
	)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	aggs := Compute(unified)
	if len(aggs.TopCustomers) != 1 || aggs.TopCustomers[0].CustomerName != "Alice" {
		t.Fatalf("ranking should only hold matched customers: %+v", aggs.TopCustomers)
	}

	// The unmatched row still counts toward revenue.
	k := ComputeKPIs(unified, []sales.Customer{{ID: "1", Name: "Alice"}})
	if k.TotalRevenue != 110 {
		t.Errorf("total revenue = %v, want 110", k.TotalRevenue)
	}
}

func TestRankingTieBreakIsDeterministic(t *testing.T) {
	unified, err := sales.Merge(
		[]sales.Customer{{ID: "2", Name: "Bob"}, {ID: "1", Name: "Alice"}},
		[]sales.Sale{
			{OrderID: "1", CustomerID: "2", Product: "X", Revenue: 10, OrderDate: date(2024, 1, 1)},
			{OrderID: "2", CustomerID: "1", Product: "X", Revenue: 10, OrderDate: date(2024, 1, 2)},
		},
	)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	// Equal revenue: the lower customer id wins, every run.
	for i := 0; i < 20; i++ {
		top := Compute(unified).TopCustomers
		if top[0].CustomerID != "1" {
			t.Fatalf("run %d: tie broke to %q, want customer 1", i, top[0].CustomerID)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	aggs := Compute(nil)
	if aggs.TopCustomers == nil || aggs.ComboCounts == nil || aggs.MonthlyTrend == nil {
		t.Fatal("views must be empty slices, not nil")
	}
	k := ComputeKPIs(nil, nil)
	if k.TotalRevenue != 0 || k.AvgOrderValue != 0 || k.TopCustomerName != "" {
		t.Fatalf("kpis on empty input = %+v", k)
	}
}
