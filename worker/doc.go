// Package worker provides the work-distribution engine: a Pool of
// workers, each owning a bounded work-stealing deque and an inbound
// hand-off queue, and an Executor that runs a claimed job through the
// middleware chain.
//
// # Run loop
//
// Each worker runs a dedicated loop. Every iteration it:
//
//  1. Checks the shared cancellation context and exits if signalled.
//  2. Drains its inbound queue into the deque bottom while the local
//     size is below the drain cap, so freshly submitted work is never
//     starved behind stealing. An overflowing deque push executes the
//     item inline instead of dropping it.
//  3. Pops its own deque bottom (LIFO, cache-friendly) and executes.
//  4. Failing that, scans all peers' deques in index order, skipping
//     itself, and steals from the top (FIFO from the victim's view).
//  5. Failing that, waits on its wake signal with a bound computed by
//     the idle backoff strategy, so cancellation is observed promptly
//     even when no wake ever arrives.
//
// After executing a job — popped or stolen — the worker reports the
// outcome to the scheduler's Finish callback. The loop itself never
// catches payload errors or panics; install middleware.Recover for
// fault isolation.
package worker
