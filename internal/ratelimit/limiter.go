// Package ratelimit paces outbound requests against the exchange's
// request-weight budget.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a weight-per-period budget. Endpoints carry different
// documented weights, so a single heavy call may consume many tokens.
type Limiter struct {
	limiter *rate.Limiter
	burst   int

	waited  atomic.Int64
	debited atomic.Int64
}

// New creates a limiter allowing the given total weight per period.
func New(weight int, period time.Duration) *Limiter {
	perSecond := float64(weight) / period.Seconds()
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), weight),
		burst:   weight,
	}
}

// Wait blocks until the budget can cover the given weight or the context
// is canceled. Weights beyond the burst are clamped so a misdeclared
// request cannot deadlock the limiter.
func (l *Limiter) Wait(ctx context.Context, weight int) error {
	if weight < 1 {
		weight = 1
	}
	if weight > l.burst {
		weight = l.burst
	}
	l.waited.Add(1)
	if err := l.limiter.WaitN(ctx, weight); err != nil {
		return err
	}
	l.debited.Add(int64(weight))
	return nil
}

// Allow reports whether the budget can cover the weight right now,
// consuming it if so.
func (l *Limiter) Allow(weight int) bool {
	if weight < 1 {
		weight = 1
	}
	if weight > l.burst {
		weight = l.burst
	}
	if !l.limiter.AllowN(time.Now(), weight) {
		return false
	}
	l.debited.Add(int64(weight))
	return true
}

// Debited returns the total weight consumed so far.
func (l *Limiter) Debited() int64 {
	return l.debited.Load()
}

// Waits returns the number of Wait calls made so far.
func (l *Limiter) Waits() int64 {
	return l.waited.Load()
}
