// Package deque implements the bounded work-stealing deque at the core
// of the scheduler.
//
// The structure has two logically distinct access roles: the owning
// worker pushes and pops at the bottom end with no contention on the
// fast path, while any number of thieves remove from the top end via
// CAS. The only cross-role contention is the last-element race between
// an owner pop and a concurrent steal, which the Chase-Lev index
// discipline resolves so that exactly one caller claims the item.
//
// Bottom-LIFO favours cache locality for the owner's freshest work;
// top-FIFO hands the oldest entries to idle peers, keeping thieves away
// from the hot bottom end.
package deque

import (
	"sync/atomic"

	"github.com/xraph/scurry/job"
)

// cacheLineSize pads the contended indices onto separate cache lines to
// avoid false sharing between the owner and thieves.
const cacheLineSize = 64

// DefaultCapacity is the backing array size used when none is given.
const DefaultCapacity = 256

// Deque is a fixed-capacity, array-backed work-stealing deque of job
// handles. PushBottom and TryPopBottom may only be called from the
// owning worker's goroutine; TrySteal is safe from any other goroutine.
// The deque is never resized: PushBottom reports a full deque and the
// owner decides what to do with the overflow.
type Deque struct {
	buf  []*job.Handle
	mask uint64

	_   [cacheLineSize]byte
	top atomic.Uint64

	_      [cacheLineSize]byte
	bottom atomic.Uint64
}

// nextPow2 rounds n up to the next power of two.
func nextPow2(n int) int {
	x := uint64(n - 1)
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return int(x + 1)
}

// New creates a deque with capacity rounded up to a power of two.
// A non-positive capacity yields DefaultCapacity.
func New(capacity int) *Deque {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	size := nextPow2(capacity)
	return &Deque{
		buf:  make([]*job.Handle, size),
		mask: uint64(size - 1),
	}
}

// Cap returns the fixed capacity of the deque.
func (d *Deque) Cap() int { return len(d.buf) }

// Size returns the number of live items. Exact when called by the
// owner with no concurrent steals; otherwise a snapshot that may lag
// in-flight thieves by a few entries.
func (d *Deque) Size() int {
	b := d.bottom.Load()
	t := d.top.Load()
	if b <= t {
		return 0
	}
	return int(b - t)
}

// PushBottom appends an item at the bottom end. Owner-only. It returns
// false when the deque is at capacity; the caller must handle overflow
// (typically by executing the item inline).
func (d *Deque) PushBottom(h *job.Handle) bool {
	b := d.bottom.Load()
	t := d.top.Load()
	if b-t >= uint64(len(d.buf)) {
		return false
	}

	d.buf[b&d.mask] = h
	d.bottom.Store(b + 1)
	return true
}

// TryPopBottom removes and returns the bottom item. Owner-only. When
// the deque holds exactly one item and a thief races for it, at most
// one of the two calls succeeds; the CAS on top decides the winner.
func (d *Deque) TryPopBottom() (*job.Handle, bool) {
	b := d.bottom.Load()
	if b == 0 {
		return nil, false
	}
	b--
	// Reserve the slot before re-reading top so a concurrent thief
	// cannot claim it unobserved.
	d.bottom.Store(b)

	t := d.top.Load()
	if t > b {
		// Deque was empty; restore the index.
		d.bottom.Store(b + 1)
		return nil, false
	}

	h := d.buf[b&d.mask]
	if t == b {
		// Last element: race the thieves for it.
		won := d.top.CompareAndSwap(t, t+1)
		d.bottom.Store(b + 1)
		if !won {
			return nil, false
		}
	}
	// Clear the claimed slot so the handle is collectable once the job
	// finishes; with bottom lowered (or the last-element CAS won) no
	// thief can still claim this index.
	d.buf[b&d.mask] = nil
	return h, true
}

// TrySteal removes and returns the top item. Safe from any non-owner
// goroutine; concurrent thieves serialize on the top CAS so no two of
// them claim the same slot. A lost race or an empty deque both report
// "no item" — callers treat either as a normal miss, not an error.
func (d *Deque) TrySteal() (*job.Handle, bool) {
	t := d.top.Load()
	b := d.bottom.Load()
	if t >= b {
		return nil, false
	}

	h := d.buf[t&d.mask]
	if !d.top.CompareAndSwap(t, t+1) {
		return nil, false
	}
	// The slot is left in place: another thief that loaded the same
	// top may still be reading it, so only a later owner push may
	// overwrite it.
	return h, true
}
