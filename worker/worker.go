package worker

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/xraph/scurry/deque"
	"github.com/xraph/scurry/id"
	"github.com/xraph/scurry/inbound"
	"github.com/xraph/scurry/job"
)

// Worker owns one inbound queue and one work-stealing deque and runs a
// dedicated loop draining the former into the latter, executing local
// work bottom-first and stealing from peers when dry.
//
// The deque's bottom end is touched only by the worker's own goroutine;
// every other worker may hit its top end concurrently.
type Worker struct {
	index int
	id    id.WorkerID
	pool  *Pool

	deque   *deque.Deque
	inbound *inbound.Queue

	// wake is a binary semaphore: a buffered single-slot channel.
	// Redundant wakes drop instead of blocking the submitter.
	wake chan struct{}
}

func newWorker(index int, pool *Pool) *Worker {
	return &Worker{
		index:   index,
		id:      id.NewWorkerID(),
		pool:    pool,
		deque:   deque.New(pool.dequeCapacity),
		inbound: inbound.New(),
		wake:    make(chan struct{}, 1),
	}
}

// Index returns the worker's position in the pool's worker list.
func (w *Worker) Index() int { return w.index }

// ID returns the worker's unique identifier.
func (w *Worker) ID() id.WorkerID { return w.id }

// LocalSize returns the number of handles on the worker's deque.
// Approximate under concurrent stealing.
func (w *Worker) LocalSize() int { return w.deque.Size() }

// InboundSize returns the number of handles waiting on the inbound
// queue, not yet drained into the deque.
func (w *Worker) InboundSize() int { return w.inbound.Len() }

// QueueDepth returns the number of handles held locally: deque plus
// inbound. Approximate under concurrent stealing.
func (w *Worker) QueueDepth() int {
	return w.LocalSize() + w.InboundSize()
}

// Enqueue hands a job to this worker and wakes it. Safe from any
// goroutine; the handle lands on the inbound queue, never directly on
// the owner-only deque.
func (w *Worker) Enqueue(h *job.Handle) {
	w.inbound.Enqueue(h)
	w.Wake()
}

// Wake nudges the worker out of its idle wait. Safe from any goroutine
// and never blocks: a wake that finds the slot occupied is redundant by
// definition.
func (w *Worker) Wake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// run is the worker's loop. It exits when ctx is cancelled, without
// draining remaining inbound or local work.
func (w *Worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	if w.pool.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	if cpus := w.pool.pinCPUs; len(cpus) > 0 {
		cpu := cpus[w.index%len(cpus)]
		if err := pinToCPU(cpu); err != nil {
			w.pool.logger.Warn("cpu pinning failed",
				slog.String("worker_id", w.id.String()),
				slog.Int("cpu", cpu),
				slog.String("error", err.Error()),
			)
		}
	}

	misses := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.drainInbound(ctx)

		if h, ok := w.deque.TryPopBottom(); ok {
			w.execute(ctx, h, false)
			misses = 0
			continue
		}

		if h, ok := w.stealFromPeers(ctx); ok {
			w.execute(ctx, h, true)
			misses = 0
			continue
		}

		misses++
		w.idleWait(ctx, misses)
	}
}

// drainInbound moves submitted handles onto the local deque bottom,
// stopping once the local size reaches the drain cap so one pass cannot
// hoard an unbounded batch. A full deque is handled by executing the
// overflow inline — a handle is never dropped.
func (w *Worker) drainInbound(ctx context.Context) {
	for w.deque.Size() < w.pool.drainCap {
		h, ok := w.inbound.TryDequeue()
		if !ok {
			return
		}
		if !w.deque.PushBottom(h) {
			w.execute(ctx, h, false)
		}
	}
}

// stealFromPeers scans every peer deque in index order, skipping self.
// The scan restarts from index zero on each call rather than resuming
// mid-scan.
func (w *Worker) stealFromPeers(ctx context.Context) (*job.Handle, bool) {
	for i, peer := range w.pool.workers {
		if i == w.index {
			continue
		}
		if h, ok := peer.deque.TrySteal(); ok {
			w.pool.extensions.EmitJobStolen(ctx, h, w.id)
			return h, true
		}
	}
	return nil, false
}

// execute claims the handle for this worker, runs it, and reports the
// outcome to the scheduler.
func (w *Worker) execute(ctx context.Context, h *job.Handle, stolen bool) {
	h.MarkStarted(w.id, stolen)
	err := w.pool.executor.Execute(ctx, h)
	w.pool.finisher.Finish(h, err)
}

// idleWait blocks on the wake signal with a bound from the idle
// strategy. The bound keeps cancellation-detection latency low even if
// no explicit wake ever arrives.
func (w *Worker) idleWait(ctx context.Context, misses int) {
	timer := time.NewTimer(w.pool.idle.Delay(misses))
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-w.wake:
	case <-timer.C:
	}
}
