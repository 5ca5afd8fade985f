// Package loader reads the two raw input tables (customers, sales) from CSV
// or XLSX files, normalizes their headers, coerces cell values to typed
// domain records, and applies the basic cleaning pass (trim, drop empties,
// drop exact duplicate sale lines).
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"salesreport/internal/sales"
	"salesreport/pkg/records"
)

// ErrSourceNotFound marks an input path that is missing or unreadable.
var ErrSourceNotFound = errors.New("source not found")

// dateLayouts are tried in order when parsing order_date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02.01.2006",
}

var customerColumns = []string{"customer_id", "customer_name"}
var saleColumns = []string{"order_id", "customer_id", "product", "quantity", "unit_price", "revenue", "order_date"}

// Load reads both input tables. The two files are independent, so they load
// concurrently; both are fully materialized before Load returns.
func Load(customersPath, salesPath string) ([]sales.Customer, []sales.Sale, error) {
	var (
		customers []sales.Customer
		lines     []sales.Sale
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		customers, err = LoadCustomers(customersPath)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = LoadSales(salesPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return customers, lines, nil
}

// LoadCustomers reads the customer reference table.
func LoadCustomers(path string) ([]sales.Customer, error) {
	rows, headers, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(path, headers, customerColumns); err != nil {
		return nil, err
	}

	out := make([]sales.Customer, 0, len(rows))
	for i, rec := range rows {
		if rec.Empty() {
			continue
		}
		id, _ := rec.String("customer_id")
		if id == "" {
			return nil, fmt.Errorf("%s row %d: empty customer_id: %w", filepath.Base(path), i+2, sales.ErrSchema)
		}
		name, _ := rec.String("customer_name")
		region, _ := rec.String("region")
		segment, _ := rec.String("segment")
		out = append(out, sales.Customer{ID: id, Name: name, Region: region, Segment: segment})
	}
	return out, nil
}

// LoadSales reads the sales line items, coercing quantity, prices and the
// order date at load time. Revenue is taken as supplied.
func LoadSales(path string) ([]sales.Sale, error) {
	rows, headers, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(path, headers, saleColumns); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	out := make([]sales.Sale, 0, len(rows))
	for i, rec := range rows {
		if rec.Empty() {
			continue
		}
		line := i + 2 // 1-based, after the header row

		s := sales.Sale{}
		s.OrderID, _ = rec.String("order_id")
		s.CustomerID, _ = rec.String("customer_id")
		s.Product, _ = rec.String("product")
		s.Region, _ = rec.String("region")

		qty, ok := rec.Int("quantity")
		if !ok || qty < 0 {
			return nil, cellErr(name, line, "quantity", rec["quantity"])
		}
		s.Quantity = qty

		price, ok := rec.Float("unit_price")
		if !ok || price < 0 {
			return nil, cellErr(name, line, "unit_price", rec["unit_price"])
		}
		s.UnitPrice = price

		revenue, ok := rec.Float("revenue")
		if !ok {
			return nil, cellErr(name, line, "revenue", rec["revenue"])
		}
		s.Revenue = revenue

		date, ok := rec.Time("order_date", dateLayouts...)
		if !ok {
			return nil, cellErr(name, line, "order_date", rec["order_date"])
		}
		s.OrderDate = date

		out = append(out, s)
	}
	return dedupe(out), nil
}

// readTable dispatches on file extension and reads the whole table.
func readTable(path string) ([]records.Record, []string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		if _, err := os.Stat(path); err != nil {
			return nil, nil, pathErr(path, err)
		}
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, pathErr(path, err)
		}
		defer f.Close()
		return readCSV(f)
	}
}

func pathErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%s: %v: %w", path, err, ErrSourceNotFound)
	}
	return fmt.Errorf("%s: %w", path, err)
}

func cellErr(file string, line int, column string, v any) error {
	return fmt.Errorf("%s row %d: bad %s value %v: %w", file, line, column, v, sales.ErrSchema)
}

// requireColumns checks that every required column survived header
// normalization.
func requireColumns(path string, headers, required []string) error {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}
	for _, col := range required {
		if !have[col] {
			return fmt.Errorf("%s: missing required column %q: %w", filepath.Base(path), col, sales.ErrSchema)
		}
	}
	return nil
}
