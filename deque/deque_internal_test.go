package deque

import (
	"context"
	"testing"

	"github.com/xraph/scurry/job"
)

// Owner pops must release the slot's reference so finished handles do
// not stay reachable through the backing array until overwritten.
func TestTryPopBottom_ClearsSlot(t *testing.T) {
	d := New(8)
	noop := job.Func(func(context.Context) error { return nil })

	for range 3 {
		d.PushBottom(job.NewHandle(noop))
	}
	for range 3 {
		if _, ok := d.TryPopBottom(); !ok {
			t.Fatal("pop failed on a non-empty deque")
		}
	}

	for i, h := range d.buf {
		if h != nil {
			t.Errorf("buf[%d] still holds a handle after pop", i)
		}
	}
}

func TestTryPopBottom_ClearsSlotOnLastElementWin(t *testing.T) {
	d := New(8)
	d.PushBottom(job.NewHandle(job.Func(func(context.Context) error { return nil })))

	if _, ok := d.TryPopBottom(); !ok {
		t.Fatal("pop failed on a one-element deque with no contention")
	}
	if h := d.buf[0]; h != nil {
		t.Error("buf[0] still holds a handle after winning the last-element pop")
	}
}
