package sprout

import "math"

// Branch is one growth arm. Geometry fields are fixed when the branch is
// generated; the derived fields are rewritten by Animation every tick.
type Branch struct {
	// Angle is the initial heading in radians.
	Angle float64
	// TargetLength is the length of the fully grown path.
	TargetLength float64
	// Curve is the perpendicular bend factor (RadialCurved only).
	Curve float64
	// Waypoints is the full path. Waypoints[0] is the branch origin.
	Waypoints []Vec2

	// Generation is 0 for arms leaving the center and n for the n-th split.
	Generation int
	// Parent is the index of the parent branch, or -1 for roots.
	Parent int
	// HasBranched reports whether this branch already spawned its children.
	HasBranched bool
	// GrowStart and GrowEnd bound the slice of the eased growth fraction
	// over which this branch extends. Roots of the single-level strategies
	// use [0, 1].
	GrowStart, GrowEnd float64

	// Progress is the revealed fraction of the path in [0, 1].
	Progress float64
	// Opacity is the stroke opacity in [0, 1].
	Opacity float64
	// TipSize is the radius of the tip marker core.
	TipSize float64
	// TipOpacity is the opacity of the tip marker.
	TipOpacity float64

	cumLen []float64 // cumulative length at each waypoint
}

// PathLength returns the length of the fully grown path.
func (b *Branch) PathLength() float64 {
	b.ensureCumLen()
	if len(b.cumLen) == 0 {
		return 0
	}
	return b.cumLen[len(b.cumLen)-1]
}

// RevealedLength returns the currently visible length of the path.
func (b *Branch) RevealedLength() float64 {
	return b.PathLength() * b.Progress
}

// PointAt returns the point at distance d along the path, clamped to the
// path ends.
func (b *Branch) PointAt(d float64) Vec2 {
	b.ensureCumLen()
	n := len(b.Waypoints)
	if n == 0 {
		return Vec2{}
	}
	if d <= 0 || n == 1 {
		return b.Waypoints[0]
	}
	for i := 1; i < n; i++ {
		if d <= b.cumLen[i] {
			seg := b.cumLen[i] - b.cumLen[i-1]
			if seg <= 0 {
				return b.Waypoints[i]
			}
			t := (d - b.cumLen[i-1]) / seg
			a, c := b.Waypoints[i-1], b.Waypoints[i]
			return Vec2{lerp(a.X, c.X, t), lerp(a.Y, c.Y, t)}
		}
	}
	return b.Waypoints[n-1]
}

// Tip returns the current end of the revealed path.
func (b *Branch) Tip() Vec2 {
	return b.PointAt(b.RevealedLength())
}

// AppendRevealed appends the visible part of the path (origin, every
// waypoint already passed, then the tip) to buf and returns it.
func (b *Branch) AppendRevealed(buf []Vec2) []Vec2 {
	if len(b.Waypoints) == 0 {
		return buf
	}
	d := b.RevealedLength()
	buf = append(buf, b.Waypoints[0])
	for i := 1; i < len(b.Waypoints); i++ {
		if b.cumLen[i] >= d {
			break
		}
		buf = append(buf, b.Waypoints[i])
	}
	return append(buf, b.PointAt(d))
}

// Translate shifts every waypoint by (dx, dy). Lengths are unchanged.
func (b *Branch) Translate(dx, dy float64) {
	for i := range b.Waypoints {
		b.Waypoints[i].X += dx
		b.Waypoints[i].Y += dy
	}
}

func (b *Branch) ensureCumLen() {
	if len(b.cumLen) == len(b.Waypoints) {
		return
	}
	b.cumLen = make([]float64, len(b.Waypoints))
	for i := 1; i < len(b.Waypoints); i++ {
		b.cumLen[i] = b.cumLen[i-1] + b.Waypoints[i].Sub(b.Waypoints[i-1]).Len()
	}
}

// TopologyConfig tunes Generate.
type TopologyConfig struct {
	Strategy Strategy
	// Length is the range target lengths are drawn from.
	Length Range
	// AngleJitter is the full spread of the random offset added to each
	// root's evenly spaced heading, and of the per-segment heading change
	// for SnakeSegmented.
	AngleJitter float64
	// CurveJitter is the full spread of the RadialCurved bend factor.
	CurveJitter float64
	// CurveSegments is the number of line segments a RadialCurved arm is
	// flattened into, at most 256.
	CurveSegments int

	// MaxDepth is the deepest generation RecursiveSymmetric spawns.
	MaxDepth int
	// Spread is the angle between the two children of a root.
	Spread float64
	// SpreadDecay scales Spread for each deeper generation.
	SpreadDecay float64
	// LengthDecay scales a child's length relative to its parent.
	LengthDecay float64
}

// maxRecursiveDepth bounds MaxDepth; each level doubles the arena.
const maxRecursiveDepth = 8

// maxCurveSegments bounds CurveSegments. Zero selects the default of 16.
const maxCurveSegments = 256

// DefaultTopologyConfig returns the settings of the site preloader.
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		Strategy:      StrategyRadialCurved,
		Length:        Range{Min: 120, Max: 260},
		AngleJitter:   0.5,
		CurveJitter:   0.6,
		CurveSegments: 16,
		MaxDepth:      5,
		Spread:        math.Pi / 3,
		SpreadDecay:   0.8,
		LengthDecay:   0.7,
	}
}

func (c TopologyConfig) validate() error {
	switch {
	case !(c.Length.Min > 0):
		return invalidf("branch length min %v must be positive", c.Length.Min)
	case !(c.Length.Max >= c.Length.Min) || math.IsInf(c.Length.Max, 0):
		return invalidf("branch length max %v below min %v or infinite", c.Length.Max, c.Length.Min)
	case !(c.AngleJitter >= 0) || !(c.CurveJitter >= 0) || math.IsInf(c.AngleJitter+c.CurveJitter, 0):
		return invalidf("jitter %v, %v must be finite and not negative", c.AngleJitter, c.CurveJitter)
	case c.CurveSegments < 0 || c.CurveSegments > maxCurveSegments:
		return invalidf("curve segments %d outside [0, %d]", c.CurveSegments, maxCurveSegments)
	case c.Strategy > StrategyRecursiveSymmetric:
		return invalidf("unknown strategy %d", c.Strategy)
	}
	if c.Strategy != StrategyRecursiveSymmetric {
		return nil
	}
	switch {
	case c.MaxDepth < 0 || c.MaxDepth > maxRecursiveDepth:
		return invalidf("max depth %d outside [0, %d]", c.MaxDepth, maxRecursiveDepth)
	case !(c.LengthDecay > 0 && c.LengthDecay <= 1):
		return invalidf("length decay %v outside (0, 1]", c.LengthDecay)
	case math.IsNaN(c.Spread) || math.IsInf(c.Spread, 0):
		return invalidf("spread %v must be finite", c.Spread)
	case math.IsNaN(c.SpreadDecay) || math.IsInf(c.SpreadDecay, 0):
		return invalidf("spread decay %v must be finite", c.SpreadDecay)
	}
	return nil
}

// Generate builds count branches around center from seed.
//
// A single Sequence seeded with seed draws each root's heading jitter and
// target length (and bend, for RadialCurved) in index order. Path detail for
// branch i comes from its own Sequence(seed + i), so a branch can be rebuilt
// on its own without replaying its siblings. The same inputs always give
// identical output.
func Generate(count int, seed int32, center Vec2, cfg TopologyConfig) ([]Branch, error) {
	if count < 0 {
		return nil, invalidf("branch count %d is negative", count)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	seq := NewSequence(seed)
	capacity := count
	if cfg.Strategy == StrategyRecursiveSymmetric {
		capacity = count * (1<<(cfg.MaxDepth+1) - 1)
	}
	branches := make([]Branch, 0, capacity)

	for i := 0; i < count; i++ {
		angle := float64(i)/float64(count)*2*math.Pi + seq.Jitter(cfg.AngleJitter)
		length := cfg.Length.Sample(seq)
		b := Branch{
			Angle:        angle,
			TargetLength: length,
			Parent:       -1,
			GrowEnd:      1,
		}
		switch cfg.Strategy {
		case StrategyRadialCurved:
			b.Curve = seq.Jitter(cfg.CurveJitter)
			b.Waypoints = curvedPath(center, angle, length, b.Curve, cfg.CurveSegments)
		case StrategySnakeSegmented:
			b.Waypoints = snakePath(center, angle, length, cfg.AngleJitter, NewSequence(seed+int32(i)))
		case StrategyRecursiveSymmetric:
			b.Waypoints = []Vec2{center, center.polar(angle, length)}
		}
		branches = append(branches, b)
	}

	if cfg.Strategy == StrategyRecursiveSymmetric {
		branches = splitBranches(branches, cfg)
	}
	return branches, nil
}

// curvedPath flattens the quadratic Bézier from origin to the chord end at
// (angle, length) whose control point is pushed off the midpoint by
// curve*length*0.3. The polyline is then scaled about origin so its length
// equals length exactly.
func curvedPath(origin Vec2, angle, length, curve float64, segs int) []Vec2 {
	if segs <= 0 {
		segs = 16
	}
	end := origin.polar(angle, length)
	mid := Vec2{(origin.X + end.X) / 2, (origin.Y + end.Y) / 2}
	ctrl := mid.polar(angle+math.Pi/2, curve*length*0.3)

	pts := make([]Vec2, segs+1)
	total := 0.0
	for i := 0; i <= segs; i++ {
		t := float64(i) / float64(segs)
		u := 1 - t
		pts[i] = Vec2{
			X: u*u*origin.X + 2*u*t*ctrl.X + t*t*end.X,
			Y: u*u*origin.Y + 2*u*t*ctrl.Y + t*t*end.Y,
		}
		if i > 0 {
			total += pts[i].Sub(pts[i-1]).Len()
		}
	}
	if total > 0 {
		k := length / total
		for i := range pts {
			pts[i] = Vec2{origin.X + (pts[i].X-origin.X)*k, origin.Y + (pts[i].Y-origin.Y)*k}
		}
	}
	return pts
}

// snakePath walks 3-5 equal segments from origin, turning by up to
// ±jitter/2 before each one.
func snakePath(origin Vec2, angle, length, jitter float64, seq *Sequence) []Vec2 {
	segs := 3 + int(seq.Next()*3)
	step := length / float64(segs)
	pts := make([]Vec2, 0, segs+1)
	pts = append(pts, origin)
	p, dir := origin, angle
	for i := 0; i < segs; i++ {
		dir += seq.Jitter(jitter)
		p = p.polar(dir, step)
		pts = append(pts, p)
	}
	return pts
}

// splitBranches grows the recursive tree breadth-first over an explicit
// work list. Every branch spawns exactly two children once, until
// cfg.MaxDepth. Generation g grows inside [g/(D+1), (g+1)/(D+1)] of the
// eased progress, so a child starts exactly when its parent is fully grown.
func splitBranches(arena []Branch, cfg TopologyConfig) []Branch {
	window := 1 / float64(cfg.MaxDepth+1)
	for i := range arena {
		arena[i].GrowStart, arena[i].GrowEnd = 0, window
	}

	for next := 0; next < len(arena); next++ {
		parent := &arena[next]
		if parent.HasBranched || parent.Generation >= cfg.MaxDepth {
			continue
		}
		parent.HasBranched = true

		gen := parent.Generation + 1
		spread := cfg.Spread * math.Pow(cfg.SpreadDecay, float64(parent.Generation))
		origin := parent.Waypoints[len(parent.Waypoints)-1]
		baseLen := parent.TargetLength * cfg.LengthDecay
		baseAngle := parent.Angle

		for _, side := range [2]float64{-1, 1} {
			angle := baseAngle + side*spread/2
			arena = append(arena, Branch{
				Angle:        angle,
				TargetLength: baseLen,
				Waypoints:    []Vec2{origin, origin.polar(angle, baseLen)},
				Generation:   gen,
				Parent:       next,
				GrowStart:    float64(gen) * window,
				GrowEnd:      float64(gen+1) * window,
			})
		}
	}
	return arena
}
