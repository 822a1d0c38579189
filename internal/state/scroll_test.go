package state

import "testing"

func TestScrollTrackerFiresOncePerGrowth(t *testing.T) {
	var tracker ScrollTracker
	steps := []struct {
		n    int
		want bool
	}{
		{0, false},
		{1, true},
		{1, false},
		{1, false},
		{3, true},
		{2, false},
		{3, true},
		{3, false},
	}
	for i, step := range steps {
		if got := tracker.Observe(step.n); got != step.want {
			t.Fatalf("step %d: Observe(%d) = %v, want %v", i, step.n, got, step.want)
		}
	}
}

func TestScrollTrackerReset(t *testing.T) {
	var tracker ScrollTracker
	tracker.Observe(5)
	tracker.Reset(10)
	if tracker.Observe(10) {
		t.Fatal("reset length should not count as growth")
	}
	if !tracker.Observe(11) {
		t.Fatal("growth after reset should fire")
	}
	if tracker.Last() != 11 {
		t.Fatalf("last = %d", tracker.Last())
	}
}
