package sprout

import (
	"math"
	"testing"
	"time"
)

func defaultClock() Clock {
	return DefaultConfig().clock()
}

func TestClockGrowthMidPhase(t *testing.T) {
	c := defaultClock()
	fs := c.Sample(1500 * time.Millisecond)
	if fs.Phase != PhaseGrowing {
		t.Fatalf("phase = %v, want growing", fs.Phase)
	}
	if math.Abs(fs.PhaseProgress-0.5) > 1e-9 {
		t.Errorf("phase progress = %v, want 0.5", fs.PhaseProgress)
	}
	if math.Abs(fs.Growth-0.875) > 1e-6 {
		t.Errorf("growth = %v, want 0.875", fs.Growth)
	}

	b := Branch{Waypoints: []Vec2{{0, 0}, {200, 0}}, GrowEnd: 1}
	c.Apply(&b, fs)
	if got := b.RevealedLength(); math.Abs(got-175) > 1e-3 {
		t.Errorf("revealed length = %v, want 175", got)
	}
}

func TestClockGrowthMonotonic(t *testing.T) {
	c := defaultClock()
	prev := -1.0
	for ms := 0; ms < 3000; ms += 16 {
		fs := c.Sample(time.Duration(ms) * time.Millisecond)
		if fs.Phase != PhaseGrowing {
			t.Fatalf("%dms: phase = %v", ms, fs.Phase)
		}
		if fs.Growth < prev {
			t.Fatalf("%dms: growth %v decreased from %v", ms, fs.Growth, prev)
		}
		if fs.Opacity != 1 {
			t.Fatalf("%dms: opacity %v while growing", ms, fs.Opacity)
		}
		prev = fs.Growth
	}
}

func TestClockFadeKeepsLength(t *testing.T) {
	c := defaultClock()
	b := Branch{Waypoints: []Vec2{{0, 0}, {200, 0}}, GrowEnd: 1}
	prevOpacity := 2.0
	for ms := 3000; ms < 5000; ms += 50 {
		fs := c.Sample(time.Duration(ms) * time.Millisecond)
		if fs.Phase != PhaseFading {
			t.Fatalf("%dms: phase = %v, want fading", ms, fs.Phase)
		}
		c.Apply(&b, fs)
		if b.RevealedLength() != 200 {
			t.Fatalf("%dms: revealed %v, want full length", ms, b.RevealedLength())
		}
		if b.Opacity > prevOpacity {
			t.Fatalf("%dms: opacity %v rose from %v", ms, b.Opacity, prevOpacity)
		}
		prevOpacity = b.Opacity
	}
	if prevOpacity > 0.01 {
		t.Errorf("opacity near cycle end = %v, want ~0", prevOpacity)
	}
}

func TestClockWraps(t *testing.T) {
	c := defaultClock()
	a := c.Sample(1200 * time.Millisecond)
	b := c.Sample(6200 * time.Millisecond)
	if b.Cycle != 1 {
		t.Errorf("cycle = %d, want 1", b.Cycle)
	}
	if math.Abs(a.Growth-b.Growth) > 1e-9 {
		t.Errorf("growth %v vs %v after wrap", a.Growth, b.Growth)
	}
}

func TestClockNegativeElapsed(t *testing.T) {
	fs := defaultClock().Sample(-time.Second)
	if fs.Phase != PhaseGrowing || fs.Growth != 0 {
		t.Errorf("got %+v, want start of growth", fs)
	}
}

func TestClockTipReveal(t *testing.T) {
	c := defaultClock()
	b := Branch{Waypoints: []Vec2{{0, 0}, {100, 0}}, GrowEnd: 1}

	c.Apply(&b, FrameState{Phase: PhaseGrowing, Growth: 0.5, Opacity: 1})
	if b.TipSize != 0 || b.TipOpacity != 0 {
		t.Errorf("tip visible below threshold: size %v opacity %v", b.TipSize, b.TipOpacity)
	}

	c.Apply(&b, FrameState{Phase: PhaseGrowing, Growth: 1, Opacity: 1})
	if math.Abs(b.TipSize-2.5) > 1e-6 || math.Abs(b.TipOpacity-1) > 1e-6 {
		t.Errorf("fully grown tip: size %v opacity %v", b.TipSize, b.TipOpacity)
	}
}

func TestClockGenerationWindow(t *testing.T) {
	c := defaultClock()
	b := Branch{Waypoints: []Vec2{{0, 0}, {10, 0}}, GrowStart: 0.5, GrowEnd: 0.75}

	tests := []struct {
		growth, want float64
	}{
		{0.25, 0},
		{0.5, 0},
		{0.625, 0.5},
		{0.75, 1},
		{0.9, 1},
	}
	for _, tt := range tests {
		c.Apply(&b, FrameState{Phase: PhaseGrowing, Growth: tt.growth, Opacity: 1})
		if math.Abs(b.Progress-tt.want) > 1e-9 {
			t.Errorf("growth %v: progress = %v, want %v", tt.growth, b.Progress, tt.want)
		}
	}
}
