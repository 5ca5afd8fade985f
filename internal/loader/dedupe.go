package loader

import (
	"log"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"salesreport/internal/sales"
)

// dedupe drops exact duplicate sale lines, keeping the first occurrence.
// Rows are keyed by an xxh3 fingerprint of the canonical field tuple, so the
// pass stays cheap on wide inputs.
func dedupe(in []sales.Sale) []sales.Sale {
	seen := make(map[uint64]struct{}, len(in))
	out := in[:0]
	dropped := 0
	for _, s := range in {
		key := fingerprint(s)
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	if dropped > 0 {
		log.Printf("loader: dropped %d duplicate sale line(s)", dropped)
	}
	return out
}

func fingerprint(s sales.Sale) uint64 {
	var b strings.Builder
	for _, part := range []string{
		s.OrderID,
		s.CustomerID,
		s.Product,
		strconv.Itoa(s.Quantity),
		strconv.FormatFloat(s.UnitPrice, 'g', -1, 64),
		strconv.FormatFloat(s.Revenue, 'g', -1, 64),
		s.OrderDate.Format("2006-01-02"),
		s.Region,
	} {
		b.WriteString(part)
		b.WriteByte('\x1f')
	}
	return xxh3.HashString(b.String())
}
