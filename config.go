package scurry

import (
	"runtime"
	"time"

	"github.com/xraph/scurry/deque"
	"github.com/xraph/scurry/worker"
)

// Config holds configuration for the Scheduler.
type Config struct {
	// Workers is the fixed number of worker goroutines.
	Workers int

	// DequeCapacity is each worker's local deque capacity, rounded up to
	// a power of two.
	DequeCapacity int

	// DrainCap bounds how many handles a worker moves from its inbound
	// queue into its deque in one drain pass.
	DrainCap int

	// CronTickInterval is how often the cron scheduler checks for due
	// entries.
	CronTickInterval time.Duration

	// ShutdownTimeout is the maximum time Stop waits for workers when
	// the caller's context has no deadline of its own.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:          runtime.GOMAXPROCS(0),
		DequeCapacity:    deque.DefaultCapacity,
		DrainCap:         worker.DefaultDrainCap,
		CronTickInterval: 1 * time.Second,
		ShutdownTimeout:  30 * time.Second,
	}
}
