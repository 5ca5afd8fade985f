package sales

import "errors"

// ErrSchema marks fatal input-shape violations: a required column is absent,
// a cell cannot be coerced to its declared type, or the customer table breaks
// the unique-key assumption of the join. Wrap with context and match with
// errors.Is.
var ErrSchema = errors.New("schema violation")
