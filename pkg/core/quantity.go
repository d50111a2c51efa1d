package core

import (
	"strconv"

	"github.com/sukidesuka/binance-go/pkg/decfmt"
)

// Quantity is an order or transfer amount. It is either an exact,
// pre-formatted string that is sent as-is, or a numeric value that must
// be resolved to a string at some precision before it reaches the wire.
// The request engine itself only ever sees strings.
type Quantity struct {
	str   string
	val   float64
	exact bool
}

// ExactQuantity wraps a pre-formatted amount string. It is transmitted
// verbatim, with no rounding applied.
func ExactQuantity(s string) Quantity {
	return Quantity{str: s, exact: true}
}

// IntQuantity wraps a whole-unit amount. Integers need no precision
// handling and are formatted exactly.
func IntQuantity(i int64) Quantity {
	return Quantity{str: strconv.FormatInt(i, 10), exact: true}
}

// FloatQuantity wraps a computed amount that must be rounded to the
// instrument's precision before use.
func FloatQuantity(f float64) Quantity {
	return Quantity{val: f}
}

// IsExact reports whether the quantity is already wire-ready.
func (q Quantity) IsExact() bool {
	return q.exact
}

// Float returns the numeric value of a non-exact quantity.
func (q Quantity) Float() float64 {
	return q.val
}

// Resolve renders the quantity at the given precision and rounding mode.
// Exact quantities are returned unchanged.
func (q Quantity) Resolve(precision int, mode decfmt.Rounding) string {
	if q.exact {
		return q.str
	}
	return decfmt.Format(q.val, precision, mode)
}
