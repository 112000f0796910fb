// Package inbound provides the per-worker hand-off queue that decouples
// job submission from the deque's owner-only push discipline.
//
// Any goroutine may enqueue; only the owning worker drains. Items are
// unordered across producers but every enqueued handle is observed by
// exactly one drain. The queue is soft-bounded by memory: it absorbs
// submission bursts that exceed the deque's drain cap and the worker
// picks the excess up on a later pass.
package inbound

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/xraph/scurry/job"
)

// Queue is a multi-producer, single-consumer hand-off buffer of job
// handles, backed by an auto-growing ring.
type Queue struct {
	mu   sync.Mutex
	ring *queue.Queue
}

// New creates an empty inbound queue.
func New() *Queue {
	return &Queue{ring: queue.New()}
}

// Enqueue adds a handle. Safe from any goroutine.
func (q *Queue) Enqueue(h *job.Handle) {
	q.mu.Lock()
	q.ring.Add(h)
	q.mu.Unlock()
}

// TryDequeue removes one handle, or reports empty. Intended for the
// owning worker only; the single-consumer discipline is what makes a
// drained handle's ownership unambiguous.
func (q *Queue) TryDequeue() (*job.Handle, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ring.Length() == 0 {
		return nil, false
	}
	return q.ring.Remove().(*job.Handle), true
}

// Len returns the number of pending handles.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Length()
}
