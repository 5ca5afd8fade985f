package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"salesreport/pkg/records"
)

// readCSV parses delimited text from r into records keyed by normalized
// header names, returning the normalized headers alongside the rows. The
// reader runs in a lenient mode (lazy quotes, variable field count, trimmed
// leading space) so real-world exports with sloppy quoting still load; short
// rows leave their trailing columns nil and long rows drop the excess.
func readCSV(r io.Reader) ([]records.Record, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h)

	var out []records.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		rec := make(records.Record, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			if i < len(row) {
				rec[key] = emptyToNil(strings.TrimSpace(row[i]))
			} else {
				rec[key] = nil
			}
		}
		out = append(out, rec)
	}
	return out, headers, nil
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
