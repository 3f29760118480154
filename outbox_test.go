// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"testing"
	"time"
)

func TestOutbox_CoalescesPositions(t *testing.T) {
	t.Parallel()

	o := newOutbox()
	o.push(PositionChanged{Path: "x", Position: time.Second})
	o.push(PositionChanged{Path: "x", Position: 2 * time.Second})
	o.push(PlaybackFinished{Path: "x"})
	o.push(PositionChanged{Path: "y", Position: time.Second})
	o.push(PositionChanged{Path: "z", Position: time.Second})

	want := []Notification{
		PositionChanged{Path: "x", Position: 2 * time.Second},
		PlaybackFinished{Path: "x"},
		PositionChanged{Path: "y", Position: time.Second},
		PositionChanged{Path: "z", Position: time.Second},
	}

	for i, w := range want {
		got, ok := o.pop()
		if !ok {
			t.Fatalf("pop() #%d: queue empty", i)
		}
		if got != w {
			t.Errorf("pop() #%d = %+v, want %+v", i, got, w)
		}
	}

	if got, ok := o.pop(); ok {
		t.Errorf("pop() = %+v, want empty", got)
	}
}

func TestOutbox_DeliverInOrder(t *testing.T) {
	t.Parallel()

	o := newOutbox()
	out := make(chan Notification)
	quit := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		o.deliver(out, quit, quiet)
	}()

	for _, p := range []string{"a", "b", "c"} {
		o.push(PlaybackFinished{Path: p, Interrupted: true})
	}

	for _, p := range []string{"a", "b", "c"} {
		select {
		case n := <-out:
			if f, ok := n.(PlaybackFinished); !ok || f.Path != p {
				t.Errorf("got %+v, want PlaybackFinished for %s", n, p)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("no notification for %s", p)
		}
	}

	close(quit)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("deliver did not return after quit")
	}
}

func TestOutbox_FlushOnQuit(t *testing.T) {
	t.Parallel()

	o := newOutbox()
	out := make(chan Notification, 2)
	quit := make(chan struct{})
	close(quit)

	for _, p := range []string{"a", "b", "c"} {
		o.push(PlaybackFinished{Path: p})
	}

	o.deliver(out, quit, quiet)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if n := <-out; n != (PlaybackFinished{Path: "a"}) {
		t.Errorf("first = %+v, want a", n)
	}
}
