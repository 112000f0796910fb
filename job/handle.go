package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/xraph/scurry/id"
)

// Handle pairs a submitted job with the completion metadata the
// scheduler tracks for it. Handles move between queues by pointer and
// are observed by exactly one consumer: the worker that pops or steals
// them. No component retains a handle after its Finish call completes;
// callers may keep one to wait on the outcome.
type Handle struct {
	id          id.JobID
	job         Job
	group       *Group
	timeout     time.Duration
	submittedAt time.Time

	// Execution record, written by the executing worker before Finish.
	worker    id.WorkerID
	stolen    bool
	startedAt time.Time

	err      error
	done     chan struct{}
	finished atomic.Bool
}

// Option configures a Handle at submission time.
type Option func(*Handle)

// WithTimeout sets a per-job execution deadline enforced by the Timeout
// middleware. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(h *Handle) { h.timeout = d }
}

// WithGroup attaches the handle to a completion group. The group is
// signalled exactly once when the job finishes.
func WithGroup(g *Group) Option {
	return func(h *Handle) { h.group = g }
}

// NewHandle wraps a job in a fresh handle.
func NewHandle(j Job, opts ...Option) *Handle {
	h := &Handle{
		id:          id.NewJobID(),
		job:         j,
		submittedAt: time.Now(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ID returns the handle's job identifier.
func (h *Handle) ID() id.JobID { return h.id }

// Job returns the wrapped job.
func (h *Handle) Job() Job { return h.job }

// Group returns the attached completion group, or nil.
func (h *Handle) Group() *Group { return h.group }

// Timeout returns the per-job execution deadline (zero = none).
func (h *Handle) Timeout() time.Duration { return h.timeout }

// SubmittedAt returns when the handle was created.
func (h *Handle) SubmittedAt() time.Time { return h.submittedAt }

// MarkStarted records which worker claimed the handle and whether it
// arrived by stealing. Called by the executing worker before the payload
// runs; single-writer by the exactly-one-consumer invariant.
func (h *Handle) MarkStarted(worker id.WorkerID, stolen bool) {
	h.worker = worker
	h.stolen = stolen
	h.startedAt = time.Now()
}

// StartedAt returns when execution began. Zero until MarkStarted runs.
func (h *Handle) StartedAt() time.Time { return h.startedAt }

// Worker returns the ID of the worker that executed the job. Valid only
// after Done is closed.
func (h *Handle) Worker() id.WorkerID { return h.worker }

// Stolen reports whether the job was taken from a peer's deque rather
// than the executing worker's own. Valid only after Done is closed.
func (h *Handle) Stolen() bool { return h.stolen }

// Finish records the execution outcome and releases waiters. The first
// call wins; repeated calls are no-ops. Returns true if this call
// completed the handle.
func (h *Handle) Finish(err error) bool {
	if !h.finished.CompareAndSwap(false, true) {
		return false
	}

	h.err = err
	close(h.done)

	if h.group != nil {
		h.group.finishOne(err)
	}
	return true
}

// Done returns a channel closed when the job has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Finished reports whether the job has finished.
func (h *Handle) Finished() bool { return h.finished.Load() }

// Err returns the job's execution error. It must only be consulted
// after Done is closed.
func (h *Handle) Err() error { return h.err }

// Wait blocks until the job finishes or ctx is cancelled. On completion
// it returns the job's execution error.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
