// Package sales defines the typed domain records the pipeline operates on
// and the merge step that joins the two input tables into the unified set.
package sales

import "time"

// RegionUnassigned is the bucket for rows where neither the sale nor the
// customer carries a region. Keeping such rows under an explicit sentinel
// preserves the invariant that the region summary sums to total revenue.
const RegionUnassigned = "unassigned"

// Customer is one row of the reference table. ID is unique across the set.
type Customer struct {
	ID      string
	Name    string
	Region  string // optional; "" when absent
	Segment string // optional; "" when absent
}

// Sale is one line item. OrderID repeats across the line items of one order.
// Revenue is trusted as supplied and never re-derived from Quantity*UnitPrice.
type Sale struct {
	OrderID    string
	CustomerID string
	Product    string
	Quantity   int
	UnitPrice  float64
	Revenue    float64
	OrderDate  time.Time
	Region     string // optional; "" when absent
}

// Unified is a Sale joined with its customer row. CustomerName is "" when the
// sale references a customer absent from the reference table; such rows are
// kept, never dropped. Region is resolved (sale first, then customer, then
// RegionUnassigned) and OrderMonth is the first of the order date's month.
type Unified struct {
	Sale
	CustomerName string
	Segment      string
	OrderMonth   time.Time
}

// MonthOf truncates t to the first of its calendar month, dropping the time
// of day. The zone is normalized to UTC so equal months compare equal.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
