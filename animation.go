package sprout

import (
	"time"

	"go.uber.org/zap"
)

// Animation is one running growth cycle: it owns the clock, the branch set
// and the cycle start time. Each Animation owns its state exclusively, so
// any number of them can run side by side.
//
// There is no global animation manager; callers tick Update themselves.
type Animation struct {
	clock    Clock
	topology TopologyConfig
	count    int
	seed     int32
	policy   SeedPolicy
	center   Vec2
	log      *zap.Logger

	branches   []Branch
	cycleStart time.Time
	cycle      int
	started    bool
	frame      FrameState
}

// NewAnimation creates an animation for count branches. It generates the
// first branch set immediately so configuration errors surface here.
func NewAnimation(clock Clock, topology TopologyConfig, count int, seed int32, policy SeedPolicy) (*Animation, error) {
	if clock.CycleDuration <= 0 {
		return nil, invalidf("cycle duration %v must be positive", clock.CycleDuration)
	}
	if clock.GrowthFraction <= 0 || clock.GrowthFraction >= 1 {
		return nil, invalidf("growth phase fraction %v outside (0, 1)", clock.GrowthFraction)
	}
	a := &Animation{
		clock:    clock,
		topology: topology,
		count:    count,
		seed:     seed,
		policy:   policy,
		log:      zap.NewNop(),
	}
	if err := a.regenerate(); err != nil {
		return nil, err
	}
	return a, nil
}

// SetLogger sets the logger used for cycle reset messages.
func (a *Animation) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	a.log = l
}

// Start sets the cycle start time. Update calls it on first use.
func (a *Animation) Start(now time.Time) {
	a.cycleStart = now
	a.started = true
}

// Update recomputes the frame for wall-clock time now. Elapsed time is
// measured from the absolute cycle start, not accumulated from frame deltas.
// When one or more whole cycles have passed, the cycle start advances by
// that many cycle durations and the branch set is regenerated.
func (a *Animation) Update(now time.Time) {
	if !a.started {
		a.Start(now)
	}
	elapsed := now.Sub(a.cycleStart)
	if elapsed < 0 {
		elapsed = 0
	}

	if k := elapsed / a.clock.CycleDuration; k > 0 {
		a.cycleStart = a.cycleStart.Add(k * a.clock.CycleDuration)
		a.cycle += int(k)
		elapsed -= k * a.clock.CycleDuration
		if err := a.regenerate(); err != nil {
			// The topology was validated in NewAnimation; keep the old set.
			a.log.Warn("sprout: regenerate failed", zap.Error(err))
		}
		a.log.Debug("sprout: cycle reset",
			zap.Int("cycle", a.cycle),
			zap.Int32("seed", a.cycleSeed()),
			zap.Int("branches", len(a.branches)))
	}

	a.frame = a.clock.Sample(elapsed)
	a.frame.Cycle = a.cycle
	for i := range a.branches {
		a.clock.Apply(&a.branches[i], a.frame)
	}
}

// SetCenter moves the branch set so it grows from c. Geometry is translated,
// never regenerated, so in-flight growth is unaffected.
func (a *Animation) SetCenter(c Vec2) {
	dx, dy := c.X-a.center.X, c.Y-a.center.Y
	if dx == 0 && dy == 0 {
		return
	}
	for i := range a.branches {
		a.branches[i].Translate(dx, dy)
	}
	a.center = c
}

// Center returns the point the branches grow from.
func (a *Animation) Center() Vec2 { return a.center }

// Branches returns the current branch set. The returned slice MUST NOT be
// retained across Update calls; it is replaced at every cycle reset.
func (a *Animation) Branches() []Branch { return a.branches }

// Frame returns the state computed by the last Update.
func (a *Animation) Frame() FrameState { return a.frame }

// Cycle returns the number of completed cycles.
func (a *Animation) Cycle() int { return a.cycle }

func (a *Animation) cycleSeed() int32 {
	if a.policy == SeedPerCycle {
		return a.seed + int32(a.cycle)
	}
	return a.seed
}

func (a *Animation) regenerate() error {
	branches, err := Generate(a.count, a.cycleSeed(), a.center, a.topology)
	if err != nil {
		return err
	}
	a.branches = branches
	return nil
}
