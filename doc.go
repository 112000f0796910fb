// Package scurry is an in-process work-stealing job scheduler for Go.
// Each worker owns a bounded lock-free deque it pushes and pops like a
// stack; idle workers steal the oldest entries from busy peers, so load
// spreads without a central run queue or a global lock.
//
// Scurry is a library, not a service. Jobs are ordinary Go functions;
// submitting one returns a handle the caller can wait on.
//
// # Quick Start
//
//	sched, err := scurry.New(
//	    scurry.WithWorkers(8),
//	    scurry.WithMiddleware(middleware.Recover(logger)),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := sched.Start(ctx); err != nil {
//	    return err
//	}
//	defer sched.Stop(ctx)
//
//	h, err := sched.SubmitFunc(ctx, func(ctx context.Context) error {
//	    return process(ctx, item)
//	})
//	if err != nil {
//	    return err
//	}
//	return h.Wait(ctx)
//
// # Architecture
//
// Submission places a handle on one worker's inbound queue (an MPSC
// staging area), never directly on a deque. The owning worker drains a
// bounded batch of inbound handles into its deque each loop iteration,
// pops local work newest-first, and falls back to stealing oldest-first
// from peers. A worker that finds nothing sleeps on a bounded backoff
// wait and is woken by the next submission.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based
// identifiers.
package scurry
