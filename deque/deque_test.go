package deque_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xraph/scurry/deque"
	"github.com/xraph/scurry/job"
)

func noopHandle() *job.Handle {
	return job.NewHandle(job.Func(func(context.Context) error { return nil }))
}

func TestNew_RoundsCapacityToPowerOfTwo(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{33, 64},
		{256, 256},
		{0, deque.DefaultCapacity},
		{-5, deque.DefaultCapacity},
	}

	for _, tt := range tests {
		if got := deque.New(tt.requested).Cap(); got != tt.want {
			t.Errorf("New(%d).Cap() = %d, want %d", tt.requested, got, tt.want)
		}
	}
}

func TestPushPopBottom_IsLIFO(t *testing.T) {
	d := deque.New(8)

	a, b, c := noopHandle(), noopHandle(), noopHandle()
	for _, h := range []*job.Handle{a, b, c} {
		if !d.PushBottom(h) {
			t.Fatal("push failed on non-full deque")
		}
	}

	want := []*job.Handle{c, b, a}
	for i, wantH := range want {
		got, ok := d.TryPopBottom()
		if !ok {
			t.Fatalf("pop %d: unexpectedly empty", i)
		}
		if got != wantH {
			t.Errorf("pop %d returned wrong handle", i)
		}
	}

	if _, ok := d.TryPopBottom(); ok {
		t.Error("pop on empty deque succeeded")
	}
}

func TestTrySteal_IsFIFO(t *testing.T) {
	d := deque.New(8)

	a, b, c := noopHandle(), noopHandle(), noopHandle()
	for _, h := range []*job.Handle{a, b, c} {
		d.PushBottom(h)
	}

	want := []*job.Handle{a, b, c}
	for i, wantH := range want {
		got, ok := d.TrySteal()
		if !ok {
			t.Fatalf("steal %d: unexpectedly empty", i)
		}
		if got != wantH {
			t.Errorf("steal %d returned wrong handle", i)
		}
	}

	if _, ok := d.TrySteal(); ok {
		t.Error("steal on empty deque succeeded")
	}
}

func TestPushBottom_ReportsFull(t *testing.T) {
	d := deque.New(4)

	for range 4 {
		if !d.PushBottom(noopHandle()) {
			t.Fatal("push failed before capacity")
		}
	}
	if d.PushBottom(noopHandle()) {
		t.Error("push succeeded at capacity")
	}
	if d.Size() != 4 {
		t.Errorf("Size() = %d, want 4", d.Size())
	}

	// A steal frees a slot for the owner.
	if _, ok := d.TrySteal(); !ok {
		t.Fatal("steal failed on full deque")
	}
	if !d.PushBottom(noopHandle()) {
		t.Error("push failed after steal freed a slot")
	}
}

func TestSize_TracksPopsAndSteals(t *testing.T) {
	d := deque.New(16)

	for range 10 {
		d.PushBottom(noopHandle())
	}
	if d.Size() != 10 {
		t.Fatalf("Size() = %d, want 10", d.Size())
	}

	d.TryPopBottom()
	d.TrySteal()
	d.TrySteal()
	if d.Size() != 7 {
		t.Errorf("Size() = %d, want 7", d.Size())
	}
}

// TestOneElementRace drives the owner's TryPopBottom against a
// concurrent TrySteal on a deque holding exactly one item. Exactly one
// side may claim it; the deque must stay consistent for the next round.
func TestOneElementRace_ExactlyOneWinner(t *testing.T) {
	d := deque.New(8)
	const rounds = 10000

	for range rounds {
		d.PushBottom(noopHandle())

		var popOK, stealOK atomic.Bool
		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			<-start
			_, ok := d.TryPopBottom()
			popOK.Store(ok)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, ok := d.TrySteal()
			stealOK.Store(ok)
		}()

		close(start)
		wg.Wait()

		wins := 0
		if popOK.Load() {
			wins++
		}
		if stealOK.Load() {
			wins++
		}
		if wins != 1 {
			t.Fatalf("one-element race: %d winners, want exactly 1", wins)
		}
		if d.Size() != 0 {
			t.Fatalf("deque size %d after race, want 0", d.Size())
		}
	}
}

// TestConcurrentStealers_NoDuplicates hammers one deque with many
// thieves while the owner keeps pushing and popping. Every handle must
// be claimed exactly once.
func TestConcurrentStealers_NoDuplicates(t *testing.T) {
	const (
		thieves = 8
		items   = 20000
	)

	d := deque.New(64)
	var claimed sync.Map // *job.Handle -> true
	var taken atomic.Int64

	claim := func(h *job.Handle) {
		if _, dup := claimed.LoadOrStore(h, true); dup {
			t.Error("handle claimed twice")
		}
		taken.Add(1)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for range thieves {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if h, ok := d.TrySteal(); ok {
					claim(h)
					continue
				}
				select {
				case <-stop:
					// Final sweep after the owner is done.
					if h, ok := d.TrySteal(); ok {
						claim(h)
						continue
					}
					return
				default:
				}
			}
		}()
	}

	// Owner: push all items, popping when full, occasionally popping anyway.
	for i := range items {
		h := noopHandle()
		for !d.PushBottom(h) {
			if popped, ok := d.TryPopBottom(); ok {
				claim(popped)
			}
		}
		if i%7 == 0 {
			if popped, ok := d.TryPopBottom(); ok {
				claim(popped)
			}
		}
	}
	// Owner drains what the thieves leave behind.
	for {
		h, ok := d.TryPopBottom()
		if !ok {
			break
		}
		claim(h)
	}

	close(stop)
	wg.Wait()

	// Anything still left belongs to no one; drain to count.
	for {
		h, ok := d.TrySteal()
		if !ok {
			break
		}
		claim(h)
	}

	if got := taken.Load(); got != items {
		t.Errorf("claimed %d handles, want %d", got, items)
	}
}
