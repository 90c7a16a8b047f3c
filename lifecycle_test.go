package sprout

import (
	"testing"
	"time"
)

// tickEvery advances l in 16ms steps from start until end.
func tickEvery(l *Lifecycle, start time.Time, from, to time.Duration, fn func(elapsed time.Duration)) {
	for e := from; e <= to; e += 16 * time.Millisecond {
		l.Tick(start.Add(e))
		if fn != nil {
			fn(e)
		}
	}
}

func TestLifecycleReadyEarly(t *testing.T) {
	start := time.Unix(0, 0)
	calls := 0
	var doneAt time.Duration
	l := NewLifecycle(start, 2*time.Second, 8*time.Second, 300*time.Millisecond, func() { calls++ })

	l.PageReady()
	tickEvery(l, start, 0, 4*time.Second, func(e time.Duration) {
		if calls == 1 && doneAt == 0 {
			doneAt = e
		}
		if e < 2*time.Second && !l.Visible() {
			t.Fatalf("dismissed at %v, before the minimum", e)
		}
	})

	if calls != 1 {
		t.Fatalf("onDone called %d times, want 1", calls)
	}
	if doneAt < 2*time.Second || doneAt >= 2300*time.Millisecond+32*time.Millisecond {
		t.Errorf("done at %v, want in [2s, 2.33s)", doneAt)
	}
	if l.Reason() != DismissReady {
		t.Errorf("reason = %v, want ready", l.Reason())
	}
	if l.Alpha() != 0 {
		t.Errorf("alpha = %v after done", l.Alpha())
	}
}

func TestLifecycleReadyLate(t *testing.T) {
	start := time.Unix(0, 0)
	calls := 0
	l := NewLifecycle(start, 2*time.Second, 8*time.Second, 300*time.Millisecond, func() { calls++ })

	tickEvery(l, start, 0, 3*time.Second, nil)
	if !l.Visible() || calls != 0 {
		t.Fatal("dismissed without a ready signal")
	}
	l.PageReady()
	l.Tick(start.Add(3*time.Second + 16*time.Millisecond))
	if l.Visible() {
		t.Fatal("still visible after late ready")
	}
	l.Tick(start.Add(3*time.Second + 400*time.Millisecond))
	if calls != 1 {
		t.Errorf("onDone called %d times, want 1", calls)
	}
}

func TestLifecycleFallback(t *testing.T) {
	start := time.Unix(0, 0)
	calls := 0
	var doneAt time.Duration
	l := NewLifecycle(start, 2*time.Second, 8*time.Second, 300*time.Millisecond, func() { calls++ })

	tickEvery(l, start, 0, 10*time.Second, func(e time.Duration) {
		if calls == 1 && doneAt == 0 {
			doneAt = e
		}
	})

	if calls != 1 {
		t.Fatalf("onDone called %d times, want 1", calls)
	}
	if doneAt < 8*time.Second || doneAt > 8*time.Second+16*time.Millisecond {
		t.Errorf("fallback fired at %v, want 8s", doneAt)
	}
	if l.Reason() != DismissFallback {
		t.Errorf("reason = %v, want fallback", l.Reason())
	}
}

func TestLifecycleReadyAfterDone(t *testing.T) {
	start := time.Unix(0, 0)
	calls := 0
	l := NewLifecycle(start, 0, time.Second, 0, func() { calls++ })
	l.Tick(start.Add(time.Second))
	l.PageReady()
	l.Tick(start.Add(2 * time.Second))
	if calls != 1 {
		t.Errorf("onDone called %d times, want 1", calls)
	}
}

func TestLifecycleFadeAlpha(t *testing.T) {
	start := time.Unix(0, 0)
	l := NewLifecycle(start, 0, 0, 300*time.Millisecond, nil)
	l.PageReady()
	l.Tick(start)
	if l.Visible() {
		t.Fatal("should be dismissed")
	}
	l.Tick(start.Add(150 * time.Millisecond))
	if a := l.Alpha(); a < 0.45 || a > 0.55 {
		t.Errorf("alpha mid fade = %v, want ~0.5", a)
	}
	l.Tick(start.Add(300 * time.Millisecond))
	if !l.Done() || l.Alpha() != 0 {
		t.Errorf("done = %v alpha = %v", l.Done(), l.Alpha())
	}
}

func TestLifecycleNilCallback(t *testing.T) {
	start := time.Unix(0, 0)
	l := NewLifecycle(start, 0, time.Second, 0, nil)
	l.Tick(start.Add(2 * time.Second))
	if !l.Done() {
		t.Error("expected done")
	}
}

func TestLifecycleNonPositiveMaxFallsBack(t *testing.T) {
	for _, maxDur := range []time.Duration{0, -time.Second} {
		start := time.Unix(0, 0)
		calls := 0
		l := NewLifecycle(start, 2*time.Second, maxDur, 300*time.Millisecond, func() { calls++ })
		if l.MaxDuration != DefaultMaxDuration {
			t.Errorf("max %v: MaxDuration = %v, want %v", maxDur, l.MaxDuration, DefaultMaxDuration)
		}
		for e := time.Duration(0); e <= time.Hour; e += time.Second {
			l.Tick(start.Add(e))
		}
		if calls != 1 || l.Visible() || l.Reason() != DismissFallback {
			t.Errorf("max %v: calls = %d visible = %v reason = %v", maxDur, calls, l.Visible(), l.Reason())
		}
	}
}
