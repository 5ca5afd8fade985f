// Package aggregate computes the derived summary views and top-line KPIs
// from the unified record set. Every view is independent of the others and
// every ordering is total: descending measures tie-break on the ascending
// grouping key, never on map iteration order.
package aggregate

import (
	"sort"
	"time"

	"salesreport/internal/sales"
)

// CustomerRevenue is one row of the top-customers ranking.
type CustomerRevenue struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Revenue      float64 `json:"revenue"`
}

// ProductStats is one row of the product performance view.
type ProductStats struct {
	Product      string  `json:"product"`
	TotalRevenue float64 `json:"total_revenue"`
	UnitsSold    int     `json:"units_sold"`
	AvgPrice     float64 `json:"avg_price"`
}

// RegionRevenue is one row of the region summary.
type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
}

// MonthPoint is one point of the monthly trend: summed revenue and the
// distinct order count for that calendar month.
type MonthPoint struct {
	Month   time.Time `json:"month"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

// ProductPair counts how many orders contained both products. ProductA sorts
// before ProductB lexicographically, so each unordered pair has one canonical
// form.
type ProductPair struct {
	ProductA string `json:"product_a"`
	ProductB string `json:"product_b"`
	Count    int    `json:"count"`
}

// Pivot is the region × product matrix of summed revenue. Regions and
// Products are sorted ascending; Values[i][j] is the revenue for
// (Regions[i], Products[j]), zero when the combination never occurs.
type Pivot struct {
	Regions  []string    `json:"regions"`
	Products []string    `json:"products"`
	Values   [][]float64 `json:"values"`
}

// Set bundles the six derived views. All slices are non-nil: a view with no
// contributing rows is empty, not missing.
type Set struct {
	TopCustomers  []CustomerRevenue `json:"top_customers"`
	ProductPerf   []ProductStats    `json:"product_perf"`
	RegionSummary []RegionRevenue   `json:"region_summary"`
	MonthlyTrend  []MonthPoint      `json:"monthly_trend"`
	ComboCounts   []ProductPair     `json:"combo_counts"`
	Pivot         Pivot             `json:"pivot_region_product"`
}

// KPIs are the top-line figures, recomputed each run.
type KPIs struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalCustomers     int     `json:"total_customers"`
	AvgOrderValue      float64 `json:"avg_order_value"`
	TopCustomerName    string  `json:"top_customer_name"`
	TopCustomerRevenue float64 `json:"top_customer_revenue"`
}

// Compute derives all six views from the unified records.
func Compute(unified []sales.Unified) Set {
	return Set{
		TopCustomers:  topCustomers(unified),
		ProductPerf:   productPerf(unified),
		RegionSummary: regionSummary(unified),
		MonthlyTrend:  monthlyTrend(unified),
		ComboCounts:   comboCounts(unified),
		Pivot:         pivotRegionProduct(unified),
	}
}

// ComputeKPIs derives the top-line figures. The customer count comes from the
// reference table, not from the sales data, so customers without orders still
// count. The top customer is the first row of the top-customers ranking.
func ComputeKPIs(unified []sales.Unified, customers []sales.Customer) KPIs {
	k := KPIs{TotalCustomers: len(customers)}
	for _, u := range unified {
		k.TotalRevenue += u.Revenue
	}
	if len(unified) > 0 {
		k.AvgOrderValue = k.TotalRevenue / float64(len(unified))
	}
	if top := topCustomers(unified); len(top) > 0 {
		k.TopCustomerName = top[0].CustomerName
		k.TopCustomerRevenue = top[0].Revenue
	}
	return k
}

// topCustomers sums revenue per (customer_id, customer_name). Rows whose
// customer was unmatched in the join (empty name) are excluded from this
// ranking; they still count everywhere else.
func topCustomers(unified []sales.Unified) []CustomerRevenue {
	sums := map[string]*CustomerRevenue{}
	for _, u := range unified {
		if u.CustomerName == "" {
			continue
		}
		cr, ok := sums[u.CustomerID]
		if !ok {
			cr = &CustomerRevenue{CustomerID: u.CustomerID, CustomerName: u.CustomerName}
			sums[u.CustomerID] = cr
		}
		cr.Revenue += u.Revenue
	}

	out := make([]CustomerRevenue, 0, len(sums))
	for _, cr := range sums {
		out = append(out, *cr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

func productPerf(unified []sales.Unified) []ProductStats {
	type acc struct {
		revenue  float64
		units    int
		priceSum float64
		rows     int
	}
	sums := map[string]*acc{}
	for _, u := range unified {
		a, ok := sums[u.Product]
		if !ok {
			a = &acc{}
			sums[u.Product] = a
		}
		a.revenue += u.Revenue
		a.units += u.Quantity
		a.priceSum += u.UnitPrice
		a.rows++
	}

	out := make([]ProductStats, 0, len(sums))
	for product, a := range sums {
		out = append(out, ProductStats{
			Product:      product,
			TotalRevenue: a.revenue,
			UnitsSold:    a.units,
			AvgPrice:     a.priceSum / float64(a.rows),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].Product < out[j].Product
	})
	return out
}

func regionSummary(unified []sales.Unified) []RegionRevenue {
	sums := map[string]float64{}
	for _, u := range unified {
		sums[u.Region] += u.Revenue
	}

	out := make([]RegionRevenue, 0, len(sums))
	for region, revenue := range sums {
		out = append(out, RegionRevenue{Region: region, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Region < out[j].Region
	})
	return out
}

func monthlyTrend(unified []sales.Unified) []MonthPoint {
	type acc struct {
		revenue float64
		orders  map[string]struct{}
	}
	sums := map[time.Time]*acc{}
	for _, u := range unified {
		a, ok := sums[u.OrderMonth]
		if !ok {
			a = &acc{orders: map[string]struct{}{}}
			sums[u.OrderMonth] = a
		}
		a.revenue += u.Revenue
		a.orders[u.OrderID] = struct{}{}
	}

	out := make([]MonthPoint, 0, len(sums))
	for month, a := range sums {
		out = append(out, MonthPoint{Month: month, Revenue: a.revenue, Orders: len(a.orders)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// comboCounts counts co-purchase pairs: within each order, the distinct set
// of products contributes every unordered pair exactly once, regardless of
// how many line items repeat a product. The result is empty (never nil) when
// no order has two or more distinct products.
func comboCounts(unified []sales.Unified) []ProductPair {
	perOrder := map[string]map[string]struct{}{}
	for _, u := range unified {
		set, ok := perOrder[u.OrderID]
		if !ok {
			set = map[string]struct{}{}
			perOrder[u.OrderID] = set
		}
		set[u.Product] = struct{}{}
	}

	type key struct{ a, b string }
	counts := map[key]int{}
	for _, set := range perOrder {
		if len(set) < 2 {
			continue
		}
		products := make([]string, 0, len(set))
		for p := range set {
			products = append(products, p)
		}
		sort.Strings(products)
		for i := 0; i < len(products); i++ {
			for j := i + 1; j < len(products); j++ {
				counts[key{products[i], products[j]}]++
			}
		}
	}

	out := make([]ProductPair, 0, len(counts))
	for k, n := range counts {
		out = append(out, ProductPair{ProductA: k.a, ProductB: k.b, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].ProductA != out[j].ProductA {
			return out[i].ProductA < out[j].ProductA
		}
		return out[i].ProductB < out[j].ProductB
	})
	return out
}

// pivotRegionProduct materializes the full region × product matrix: every
// region and product seen in the data gets a row/column, and combinations
// that never co-occur hold zero rather than being omitted.
func pivotRegionProduct(unified []sales.Unified) Pivot {
	regionSet := map[string]struct{}{}
	productSet := map[string]struct{}{}
	cells := map[[2]string]float64{}
	for _, u := range unified {
		regionSet[u.Region] = struct{}{}
		productSet[u.Product] = struct{}{}
		cells[[2]string{u.Region, u.Product}] += u.Revenue
	}

	p := Pivot{
		Regions:  sortedKeys(regionSet),
		Products: sortedKeys(productSet),
	}
	p.Values = make([][]float64, len(p.Regions))
	for i, region := range p.Regions {
		row := make([]float64, len(p.Products))
		for j, product := range p.Products {
			row[j] = cells[[2]string{region, product}]
		}
		p.Values[i] = row
	}
	return p
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
