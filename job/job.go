package job

import "context"

// Job is an opaque unit of work. Execute may block or run for any
// duration; the scheduler never preempts it. An error return is recorded
// on the handle and propagated to waiters, never retried or suppressed.
type Job interface {
	Execute(ctx context.Context) error
}

// Func adapts a plain function to the Job interface.
type Func func(ctx context.Context) error

// Execute implements Job.
func (f Func) Execute(ctx context.Context) error { return f(ctx) }
