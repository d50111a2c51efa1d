// Package decfmt renders amounts as exchange-safe decimal strings at a
// fixed precision. All arithmetic is decimal (cockroachdb/apd); binary
// floating point is only ever an input.
package decfmt

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// MaxPrecision is the exchange's maximum quantity precision and the
// default when callers have no instrument-specific precision.
const MaxPrecision = 8

// Rounding selects how a value is fitted to the target precision.
type Rounding int

const (
	// Floor rounds toward negative infinity. Used when converting a
	// computed sell quantity so an order never over-commits funds.
	Floor Rounding = iota
	// Ceil rounds toward positive infinity. Used so a buy never
	// under-fills its target.
	Ceil
	// HalfEven is banker's rounding. Used to clean binary float noise
	// (0.999999999999 -> 1) before a bound is applied elsewhere.
	HalfEven
)

// String returns the string representation of the rounding mode.
func (r Rounding) String() string {
	switch r {
	case Floor:
		return "floor"
	case Ceil:
		return "ceil"
	case HalfEven:
		return "half-even"
	default:
		return "unknown"
	}
}

func (r Rounding) rounder() apd.Rounder {
	switch r {
	case Floor:
		return apd.RoundFloor
	case Ceil:
		return apd.RoundCeiling
	default:
		return apd.RoundHalfEven
	}
}

// FormatError is returned when an input cannot be parsed as a number.
type FormatError struct {
	// Input is the rejected text.
	Input string
	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse amount %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Format renders f at the given decimal precision using the rounding
// mode. Trailing fractional zeros are stripped, so integral results
// serialize without a decimal point ("12", not "12.0").
func Format(f float64, precision int, mode Rounding) string {
	var d apd.Decimal
	if _, err := d.SetFloat64(f); err != nil {
		// Only NaN and infinities fail; neither is a usable amount.
		return "0"
	}
	return render(&d, precision, mode)
}

// FormatString parses s as a decimal and renders it like Format. It
// returns a *FormatError when s is not a number.
func FormatString(s string, precision int, mode Rounding) (string, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return "", &FormatError{Input: s, Err: err}
	}
	return render(d, precision, mode), nil
}

func render(d *apd.Decimal, precision int, mode Rounding) string {
	ctx := apd.BaseContext.WithPrecision(50)
	ctx.Rounding = mode.rounder()

	var out apd.Decimal
	// Quantize is the scale/round/unscale step in one decimal operation.
	if _, err := ctx.Quantize(&out, d, -int32(precision)); err != nil {
		return d.Text('f')
	}
	out.Reduce(&out)
	if out.IsZero() {
		// Reduce keeps a negative exponent on zero (0.00); normalize.
		return "0"
	}
	return out.Text('f')
}
