package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller bugs. These are raised synchronously before
// any network call and are never retried.
var (
	// ErrInvalidMethod is returned for request methods outside GET, POST, PUT.
	ErrInvalidMethod = errors.New("method must be GET, POST or PUT")
	// ErrInvalidMode is returned for an unrecognized account or market mode.
	ErrInvalidMode = errors.New("unrecognized mode")
	// ErrMissingSymbol is returned when an isolated-margin operation is
	// requested without a trading-pair symbol.
	ErrMissingSymbol = errors.New("isolated margin requires a symbol")
	// ErrInvalidSide is returned for order sides outside BUY and SELL.
	ErrInvalidSide = errors.New("side must be BUY or SELL")
	// ErrNotFound is returned when a queried entity is absent from the
	// exchange response.
	ErrNotFound = errors.New("not found in exchange response")
	// ErrNoCredentials is returned when a signed request is attempted
	// without configured credentials.
	ErrNoCredentials = errors.New("no credentials configured")
)

// RejectedError is returned when the exchange answered with a non-200
// status after the retry budget was exhausted. It carries the final
// status code and raw body verbatim for caller inspection.
type RejectedError struct {
	// StatusCode is the HTTP status of the last attempt.
	StatusCode int
	// Body is the raw response body of the last attempt.
	Body string
	// Attempts is the total number of attempts made.
	Attempts int
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("exchange rejected request (status %d after %d attempts): %s",
		e.StatusCode, e.Attempts, e.Body)
}

// AsRejected unwraps err into a *RejectedError if it is one.
func AsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}

// IsRejected reports whether err is an exchange rejection.
func IsRejected(err error) bool {
	_, ok := AsRejected(err)
	return ok
}
