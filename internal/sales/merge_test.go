package sales

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMergePreservesRowCount(t *testing.T) {
	customers := []Customer{
		{ID: "1", Name: "Alice", Region: "W"},
		{ID: "2", Name: "Bob", Region: "E"},
	}
	sales := []Sale{
		{OrderID: "1", CustomerID: "1", Product: "X", Quantity: 2, UnitPrice: 10, Revenue: 20, OrderDate: date(2024, 1, 5)},
		{OrderID: "1", CustomerID: "1", Product: "Y", Quantity: 1, UnitPrice: 5, Revenue: 5, OrderDate: date(2024, 1, 5)},
		{OrderID: "2", CustomerID: "2", Product: "X", Quantity: 1, UnitPrice: 10, Revenue: 10, OrderDate: date(2024, 2, 1)},
	}

	unified, err := Merge(customers, sales)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(unified) != len(sales) {
		t.Fatalf("row count changed: got %d, want %d", len(unified), len(sales))
	}
	if unified[0].CustomerName != "Alice" || unified[2].CustomerName != "Bob" {
		t.Fatalf("customer names not joined: %+v", unified)
	}
	if unified[0].OrderMonth != date(2024, 1, 1) {
		t.Fatalf("order month = %v, want 2024-01-01", unified[0].OrderMonth)
	}
}

func TestMergeUnmatchedCustomerKept(t *testing.T) {
	customers := []Customer{{ID: "1", Name: "Alice", Region: "W"}}
	sales := []Sale{
		{OrderID: "7", CustomerID: "99", Product: "X", Quantity: 1, UnitPrice: 10, Revenue: 10, OrderDate: date(2024, 3, 9)},
	}

	unified, err := Merge(customers, sales)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(unified) != 1 {
		t.Fatalf("unmatched row dropped: got %d rows", len(unified))
	}
	u := unified[0]
	if u.CustomerName != "" || u.Segment != "" {
		t.Fatalf("unmatched row should have empty customer fields: %+v", u)
	}
	if u.Region != RegionUnassigned {
		t.Fatalf("region = %q, want %q", u.Region, RegionUnassigned)
	}
}

func TestMergeRegionPrecedence(t *testing.T) {
	customers := []Customer{{ID: "1", Name: "Alice", Region: "W"}}

	tests := []struct {
		name       string
		saleRegion string
		want       string
	}{
		{"sale region wins", "N", "N"},
		{"customer region fills gap", "", "W"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales := []Sale{{OrderID: "1", CustomerID: "1", Product: "X", Revenue: 1, OrderDate: date(2024, 1, 1), Region: tt.saleRegion}}
			unified, err := Merge(customers, sales)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if got := unified[0].Region; got != tt.want {
				t.Errorf("region = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeDuplicateCustomerID(t *testing.T) {
	customers := []Customer{
		{ID: "1", Name: "Alice"},
		{ID: "1", Name: "Alice again"},
	}
	_, err := Merge(customers, nil)
	if err == nil {
		t.Fatal("want error for duplicate customer_id, got nil")
	}
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("error %v is not ErrSchema", err)
	}
}

func TestMonthOfNormalizesZone(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	got := MonthOf(time.Date(2024, 5, 31, 23, 59, 0, 0, loc))
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("MonthOf = %v, want %v", got, want)
	}
}
