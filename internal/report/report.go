// Package report renders the aggregate views as a plain-text summary and
// dispatches chart rendering to a pluggable Renderer. The text output is
// deterministic: identical inputs produce byte-identical reports.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesreport/internal/aggregate"
)

// Options controls the textual report.
type Options struct {
	// TopN bounds the customer and combo tables. Zero means the default of 5.
	TopN int

	// OutputDir is echoed in the final line so readers know where the chart
	// artifacts went. Empty suppresses the line.
	OutputDir string
}

const defaultTopN = 5

// WriteReport writes the full text report to w: header, KPI lines, top-N
// customers, full product performance, full region summary, and the top-N
// co-purchase pairs (or the explicit insufficient-data message when there are
// none).
// errWriter makes write failures sticky: after the first error every write
// is a no-op, and the error surfaces once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

func WriteReport(out io.Writer, kpis aggregate.KPIs, aggs aggregate.Set, opts Options) error {
	topN := opts.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	p := message.NewPrinter(language.English)
	w := &errWriter{w: out}

	fmt.Fprintln(w, "CUSTOMER SALES ANALYSIS REPORT")
	p.Fprintf(w, "Total Revenue: $%.2f\n", kpis.TotalRevenue)
	p.Fprintf(w, "Total Customers: %d\n", kpis.TotalCustomers)
	p.Fprintf(w, "Average Order Value: $%.2f\n", kpis.AvgOrderValue)
	if kpis.TopCustomerName != "" {
		p.Fprintf(w, "Top Customer: %s - $%.2f\n", kpis.TopCustomerName, kpis.TopCustomerRevenue)
	} else {
		fmt.Fprintln(w, "Top Customer: (none)")
	}

	p.Fprintf(w, "\nTop %d Customers:\n", topN)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "customer_id\tcustomer_name\trevenue")
	for i, c := range aggs.TopCustomers {
		if i >= topN {
			break
		}
		p.Fprintf(tw, "%s\t%s\t%.2f\n", c.CustomerID, c.CustomerName, c.Revenue)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nProduct Performance:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "product\ttotal_revenue\tunits_sold\tavg_price")
	for _, ps := range aggs.ProductPerf {
		p.Fprintf(tw, "%s\t%.2f\t%d\t%.2f\n", ps.Product, ps.TotalRevenue, ps.UnitsSold, ps.AvgPrice)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nRevenue by Region:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "region\trevenue")
	for _, r := range aggs.RegionSummary {
		p.Fprintf(tw, "%s\t%.2f\n", r.Region, r.Revenue)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(aggs.ComboCounts) > 0 {
		p.Fprintf(w, "\nFrequently Bought Together (top %d combos):\n", topN)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "product_a\tproduct_b\tcount")
		for i, c := range aggs.ComboCounts {
			if i >= topN {
				break
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ProductA, c.ProductB, c.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, "\nFrequently Bought Together: insufficient multi-product orders to analyze.")
	}

	if opts.OutputDir != "" {
		fmt.Fprintf(w, "\nVisualizations saved to: %s\n", opts.OutputDir)
	}
	return w.err
}
