package sprout

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a surface submits the color.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default branch color.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// toNRGBA converts c to a straight-alpha image/color value.
func (c Color) toNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions and directions throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// polar returns the point at distance d from v in direction angle.
func (v Vec2) polar(angle, d float64) Vec2 {
	return Vec2{v.X + math.Cos(angle)*d, v.Y + math.Sin(angle)*d}
}

// Range is a general-purpose min/max range.
// TopologyConfig uses it for branch lengths.
type Range struct {
	Min, Max float64
}

// Strategy selects how Generate lays out branch geometry.
type Strategy uint8

const (
	StrategyRadialCurved       Strategy = iota // one curved arm per branch, radiating from the center
	StrategySnakeSegmented                     // 3-5 straight segments with a wandering heading
	StrategyRecursiveSymmetric                 // each arm splits in two, up to MaxDepth generations
)

// String returns the config name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyRadialCurved:
		return "radial"
	case StrategySnakeSegmented:
		return "snake"
	case StrategyRecursiveSymmetric:
		return "recursive"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config name back to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "radial":
		return StrategyRadialCurved, nil
	case "snake":
		return StrategySnakeSegmented, nil
	case "recursive":
		return StrategyRecursiveSymmetric, nil
	}
	return 0, invalidf("unknown strategy %q", name)
}

// Phase is the sub-state of a cycle.
type Phase uint8

const (
	PhaseGrowing Phase = iota // branches extend toward their target length
	PhaseFading                // geometry is frozen, opacity falls to zero
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	if p == PhaseFading {
		return "fading"
	}
	return "growing"
}

// SeedPolicy controls which seed a cycle reset regenerates from.
type SeedPolicy uint8

const (
	SeedFixed    SeedPolicy = iota // every cycle reuses Config.Seed
	SeedPerCycle                   // cycle n uses Config.Seed + n
)

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
