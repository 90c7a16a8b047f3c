package sprout

import (
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// Clock maps elapsed time inside a cycle to phase and progress. It holds no
// per-frame state: every FrameState is a pure function of elapsed time, so
// dropped or late frames never desynchronize the animation.
type Clock struct {
	// CycleDuration is the length of one GROWING+FADING cycle.
	CycleDuration time.Duration
	// GrowthFraction is the share of the cycle spent GROWING, in (0, 1).
	GrowthFraction float64
	// RevealThreshold is the eased growth value at which tip markers begin
	// to appear.
	RevealThreshold float64

	// Grow eases the GROWING phase. Defaults to ease.OutCubic.
	Grow ease.TweenFunc
	// Fade eases the FADING phase. Defaults to ease.InOutCubic.
	Fade ease.TweenFunc
}

// FrameState is the scalar animation state for one tick.
type FrameState struct {
	Phase Phase
	// Cycle is the number of completed cycles since the animation started.
	Cycle int
	// CycleProgress is the position inside the current cycle, in [0, 1).
	CycleProgress float64
	// PhaseProgress is the linear position inside the current phase, in [0, 1].
	PhaseProgress float64
	// Growth is the eased growth fraction: rising during GROWING, 1 while FADING.
	Growth float64
	// Opacity is the global fade value: 1 while GROWING, falling to 0 while FADING.
	Opacity float64
}

// Sample returns the frame state for elapsed time since the cycle started.
// elapsed values of a full cycle or more wrap around; negative values clamp
// to zero.
func (c Clock) Sample(elapsed time.Duration) FrameState {
	if elapsed < 0 {
		elapsed = 0
	}
	var fs FrameState
	if c.CycleDuration <= 0 {
		return fs
	}
	fs.Cycle = int(elapsed / c.CycleDuration)
	fs.CycleProgress = float64(elapsed%c.CycleDuration) / float64(c.CycleDuration)

	if fs.CycleProgress < c.GrowthFraction {
		fs.Phase = PhaseGrowing
		fs.PhaseProgress = fs.CycleProgress / c.GrowthFraction
		fs.Growth = applyEase(c.growFunc(), fs.PhaseProgress)
		fs.Opacity = 1
		return fs
	}

	fs.Phase = PhaseFading
	fs.PhaseProgress = clamp01((fs.CycleProgress - c.GrowthFraction) / (1 - c.GrowthFraction))
	fs.Growth = 1
	fs.Opacity = 1 - applyEase(c.fadeFunc(), fs.PhaseProgress)
	return fs
}

// Apply writes the derived display fields of b for frame fs.
//
// While GROWING the branch reveals its local share of the eased growth and
// the tip marker eases in once the local progress passes RevealThreshold.
// While FADING the branch is fully revealed and only opacities shrink.
func (c Clock) Apply(b *Branch, fs FrameState) {
	if fs.Phase == PhaseFading {
		b.Progress = 1
		b.Opacity = fs.Opacity
		b.TipOpacity = fs.Opacity
		b.TipSize = 3 * fs.Opacity
		return
	}

	local := fs.Growth
	if span := b.GrowEnd - b.GrowStart; span > 0 && span < 1 {
		local = clamp01((fs.Growth - b.GrowStart) / span)
	}
	b.Progress = local
	b.Opacity = math.Min(1, local*1.4)

	b.TipSize, b.TipOpacity = 0, 0
	if local > c.RevealThreshold && c.RevealThreshold < 1 {
		dot := math.Min(1, (local-c.RevealThreshold)/(1-c.RevealThreshold))
		b.TipSize = 2.5 * applyEase(ease.OutCubic, dot)
		b.TipOpacity = b.Opacity * dot
	}
}

func (c Clock) growFunc() ease.TweenFunc {
	if c.Grow != nil {
		return c.Grow
	}
	return ease.OutCubic
}

func (c Clock) fadeFunc() ease.TweenFunc {
	if c.Fade != nil {
		return c.Fade
	}
	return ease.InOutCubic
}

// applyEase evaluates a gween easing curve over the unit interval.
func applyEase(fn ease.TweenFunc, t float64) float64 {
	return float64(fn(float32(clamp01(t)), 0, 1, 1))
}
