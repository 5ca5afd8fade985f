package sales

import "fmt"

// Merge left-joins sales onto customers by customer id. Every sale row is
// preserved: unmatched customer ids produce a Unified row with empty customer
// fields. The output length always equals len(sales).
//
// The join assumes each customer id appears at most once in the reference
// table; a duplicate is a fatal ErrSchema because it would fan out rows and
// break the count-preservation contract.
func Merge(customers []Customer, sales []Sale) ([]Unified, error) {
	byID := make(map[string]Customer, len(customers))
	for _, c := range customers {
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("customers: duplicate customer_id %q: %w", c.ID, ErrSchema)
		}
		byID[c.ID] = c
	}

	out := make([]Unified, 0, len(sales))
	for _, s := range sales {
		u := Unified{Sale: s, OrderMonth: MonthOf(s.OrderDate)}
		cust, matched := byID[s.CustomerID]
		if matched {
			u.CustomerName = cust.Name
			u.Segment = cust.Segment
		}

		// Region precedence: sale-level wins, customer-level fills the gap,
		// anything left lands in the unassigned bucket.
		switch {
		case s.Region != "":
			u.Region = s.Region
		case matched && cust.Region != "":
			u.Region = cust.Region
		default:
			u.Region = RegionUnassigned
		}
		out = append(out, u)
	}
	return out, nil
}
