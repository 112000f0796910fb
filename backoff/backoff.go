// Package backoff provides pluggable idle-wait strategies for workers.
//
// A worker that finds no work locally, in its inbound queue, or in any
// peer's deque waits on its wake signal with a bounded timeout. The
// Strategy computes that bound from the number of consecutive misses,
// so an idle worker can back off progressively while still observing
// cancellation promptly. All strategies are stateless and safe for
// concurrent use.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes the bounded wait before idle attempt n (1-indexed).
// Attempt 1 is the first wait after a full miss of local, inbound, and
// peer work.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Constant always returns the same bound regardless of attempt number.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant idle-wait strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ int) time.Duration {
	return c.Interval
}

// Linear increases the bound linearly with the attempt number.
// Delay = min(Initial * attempt, Max).
type Linear struct {
	Initial time.Duration
	Max     time.Duration
}

// NewLinear creates a linear idle-wait strategy.
func NewLinear(initial, maxDelay time.Duration) *Linear {
	return &Linear{Initial: initial, Max: maxDelay}
}

// Delay returns Initial * attempt, capped at Max.
func (l *Linear) Delay(attempt int) time.Duration {
	d := l.Initial * time.Duration(attempt)
	if l.Max > 0 && d > l.Max {
		return l.Max
	}
	return d
}

// Exponential doubles the bound each attempt.
// Delay = min(Initial * 2^(attempt-1), Max).
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponential creates an exponential idle-wait strategy.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

// Delay returns Initial * 2^(attempt-1), capped at Max.
func (e *Exponential) Delay(attempt int) time.Duration {
	// Cap in float space: the product overflows int64 within a few
	// dozen attempts, and an out-of-range conversion is not required
	// to saturate.
	d := float64(e.Initial) * math.Pow(2, float64(attempt-1))
	if e.Max > 0 && d > float64(e.Max) {
		return e.Max
	}
	return time.Duration(d)
}

// ExponentialWithJitter applies full jitter to an exponential base.
// Delay = random value in (0, min(Initial * 2^(attempt-1), Max)].
// Jitter staggers the re-poll times of many simultaneously idle
// workers so they do not hammer the same victim deques in lockstep.
type ExponentialWithJitter struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponentialWithJitter creates an exponential idle-wait strategy
// with full jitter.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Initial: initial, Max: maxDelay}
}

// Delay returns a random duration in (0, min(Initial * 2^(attempt-1), Max)].
func (e *ExponentialWithJitter) Delay(attempt int) time.Duration {
	base := float64(e.Initial) * math.Pow(2, float64(attempt-1))
	if e.Max > 0 && base > float64(e.Max) {
		base = float64(e.Max)
	}
	d := time.Duration(rand.Float64() * base) //nolint:gosec // jitter intentionally uses non-crypto rand
	if d <= 0 {
		d = time.Duration(base)
	}
	return d
}

// DefaultIdle returns the default worker idle strategy: exponential
// from 50µs capped at 1ms. The low cap keeps the wait functionally
// close to a poll, bounding both wake latency for late submissions and
// cancellation-detection latency at shutdown.
func DefaultIdle() Strategy {
	return NewExponential(50*time.Microsecond, time.Millisecond)
}
