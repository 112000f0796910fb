// Package ext defines the extension system for scurry.
// Extensions are notified of scheduler lifecycle events (job submitted,
// started, stolen, completed, etc.) and can react to them — logging,
// metrics, tracing, audit.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
package ext

import (
	"context"
	"time"

	"github.com/xraph/scurry/id"
	"github.com/xraph/scurry/job"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// JobSubmitted is called after a job handle is enqueued on a worker's
// inbound queue.
type JobSubmitted interface {
	OnJobSubmitted(ctx context.Context, h *job.Handle) error
}

// JobStarted is called when a worker begins executing a job.
type JobStarted interface {
	OnJobStarted(ctx context.Context, h *job.Handle) error
}

// JobStolen is called when a worker claims a job from a peer's deque
// rather than its own. Fires before the corresponding JobStarted.
type JobStolen interface {
	OnJobStolen(ctx context.Context, h *job.Handle, thief id.WorkerID) error
}

// JobCompleted is called after a job finishes successfully.
type JobCompleted interface {
	OnJobCompleted(ctx context.Context, h *job.Handle, elapsed time.Duration) error
}

// JobFailed is called when a job's payload returns an error.
type JobFailed interface {
	OnJobFailed(ctx context.Context, h *job.Handle, err error) error
}

// CronFired is called when a cron entry fires and submits a job.
type CronFired interface {
	OnCronFired(ctx context.Context, entryName string, jobID id.JobID) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
