package job

import (
	"context"
	"sync"
	"sync/atomic"
)

// Group tracks completion of a fixed-size batch of jobs. The count is
// set at construction, so a group whose jobs finish quickly cannot be
// observed complete before the remaining submissions are made.
//
// Finish signalling is safe from any worker; Wait is safe from any
// number of goroutines.
type Group struct {
	pending atomic.Int64
	done    chan struct{}

	errOnce sync.Once
	err     error
}

// NewGroup creates a group expecting exactly n completions.
// A group with n <= 0 is already complete.
func NewGroup(n int) *Group {
	g := &Group{done: make(chan struct{})}
	g.pending.Store(int64(n))
	if n <= 0 {
		close(g.done)
	}
	return g
}

// finishOne records one completion and the first non-nil error.
// The error write happens before the done close, so readers that
// observe the close see it without further synchronization.
func (g *Group) finishOne(err error) {
	if err != nil {
		g.errOnce.Do(func() { g.err = err })
	}
	if g.pending.Add(-1) == 0 {
		close(g.done)
	}
}

// Pending returns the number of jobs not yet finished.
func (g *Group) Pending() int {
	return int(g.pending.Load())
}

// Done returns a channel closed when every job in the group has
// finished.
func (g *Group) Done() <-chan struct{} { return g.done }

// Wait blocks until all jobs in the group finish or ctx is cancelled.
// On completion it returns the first job error observed, if any.
func (g *Group) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the first job error observed. It must only be consulted
// after Done is closed.
func (g *Group) Err() error { return g.err }
