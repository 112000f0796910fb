package scurry

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/xraph/scurry/backoff"
	"github.com/xraph/scurry/ext"
	"github.com/xraph/scurry/middleware"
)

// Option configures a Scheduler.
type Option func(*Scheduler) error

// WithWorkers sets the fixed number of workers. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Scheduler) error {
		if n <= 0 {
			return fmt.Errorf("scurry: worker count must be positive, got %d", n)
		}
		s.config.Workers = n
		return nil
	}
}

// WithDequeCapacity sets each worker's deque capacity (rounded up to a
// power of two).
func WithDequeCapacity(n int) Option {
	return func(s *Scheduler) error {
		if n <= 0 {
			return fmt.Errorf("scurry: deque capacity must be positive, got %d", n)
		}
		s.config.DequeCapacity = n
		return nil
	}
}

// WithDrainCap bounds how many inbound handles a worker moves into its
// deque per drain pass.
func WithDrainCap(n int) Option {
	return func(s *Scheduler) error {
		if n <= 0 {
			return fmt.Errorf("scurry: drain cap must be positive, got %d", n)
		}
		s.config.DrainCap = n
		return nil
	}
}

// WithIdleStrategy sets the bounded-wait strategy idle workers use
// between empty scans. Defaults to backoff.DefaultIdle.
func WithIdleStrategy(strategy backoff.Strategy) Option {
	return func(s *Scheduler) error {
		s.idle = strategy
		return nil
	}
}

// WithLogger sets the structured logger for the scheduler.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) error {
		s.logger = l
		return nil
	}
}

// WithExtension registers a lifecycle extension.
func WithExtension(e ext.Extension) Option {
	return func(s *Scheduler) error {
		s.exts = append(s.exts, e)
		return nil
	}
}

// WithMiddleware appends a middleware to the execution chain. Middleware
// run in registration order around every job.
func WithMiddleware(mw middleware.Middleware) Option {
	return func(s *Scheduler) error {
		s.mws = append(s.mws, mw)
		return nil
	}
}

// WithSubmitRate throttles Submit to r events per second with the given
// burst. Submissions beyond the rate block until a token is available.
func WithSubmitRate(r rate.Limit, burst int) Option {
	return func(s *Scheduler) error {
		s.limiter = rate.NewLimiter(r, burst)
		return nil
	}
}

// WithLockOSThread dedicates an OS thread to each worker goroutine.
func WithLockOSThread() Option {
	return func(s *Scheduler) error {
		s.lockThread = true
		return nil
	}
}

// WithPinCPUs pins workers to the given CPUs round-robin. Implies
// WithLockOSThread; pinning is a no-op outside Linux.
func WithPinCPUs(cpus []int) Option {
	return func(s *Scheduler) error {
		s.pinCPUs = cpus
		s.lockThread = true
		return nil
	}
}

// WithCronTickInterval sets how often the cron scheduler checks for due
// entries.
func WithCronTickInterval(d time.Duration) Option {
	return func(s *Scheduler) error {
		if d <= 0 {
			return fmt.Errorf("scurry: cron tick interval must be positive, got %v", d)
		}
		s.config.CronTickInterval = d
		return nil
	}
}

// WithShutdownTimeout sets the maximum time Stop waits for workers when
// the caller's context carries no deadline.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Scheduler) error {
		if d <= 0 {
			return fmt.Errorf("scurry: shutdown timeout must be positive, got %v", d)
		}
		s.config.ShutdownTimeout = d
		return nil
	}
}
