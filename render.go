package sprout

import (
	"math"
	"time"
)

// Palette holds the colors the renderer paints with.
type Palette struct {
	Background Color
	Branch     Color
	Tip        Color
	Center     Color
	CenterGlow Color
}

// DefaultPalette returns white arms on black with an emerald center.
func DefaultPalette() Palette {
	return Palette{
		Background: Color{0, 0, 0, 1},
		Branch:     ColorWhite,
		Tip:        ColorWhite,
		Center:     Color{R: 16.0 / 255, G: 185.0 / 255, B: 129.0 / 255, A: 1}, // emerald-500
		CenterGlow: Color{R: 52.0 / 255, G: 211.0 / 255, B: 153.0 / 255, A: 1}, // emerald-400
	}
}

// Halo and marker geometry.
const (
	branchWidth      = 1.5
	branchAlpha      = 0.9
	tipHaloScale     = 2.5
	centerHaloRadius = 8.0
	centerCoreRadius = 2.5
	centerMinOpacity = 0.3
	junctionHalo     = 3.0
	pulsePeriod      = 2 * time.Second
)

var (
	tipStops      = []GradientStop{{0, 0.4}, {0.6, 0.15}, {1, 0}}
	centerStops   = []GradientStop{{0, 0.5}, {0.7, 0.2}, {1, 0}}
	junctionStops = []GradientStop{{0, 0.5}, {0.7, 0.2}, {1, 0}}
	pulseStops    = []GradientStop{{0, 0.3}, {1, 0}}
)

// Frame is everything the renderer needs for one paint.
type Frame struct {
	Center    Vec2
	Branches  []Branch
	State     FrameState
	Junctions []Junction
	// Elapsed drives the center pulse. It is the time since the preloader
	// started, independent of cycle resets.
	Elapsed time.Duration
	// ReducedMotion replaces the branch network with a single pulsing dot.
	ReducedMotion bool
}

// Renderer paints frames. It holds only reusable scratch buffers; all
// animation state arrives in the Frame.
type Renderer struct {
	Palette Palette

	path Path
	pts  []Vec2
}

// NewRenderer creates a renderer using palette.
func NewRenderer(palette Palette) *Renderer {
	return &Renderer{Palette: palette}
}

// Render clears s and paints f. The whole surface is repainted every call.
// It returns the number of draw commands issued.
func (r *Renderer) Render(s Surface, f Frame) int {
	s.Clear(r.Palette.Background)
	n := 1
	if f.ReducedMotion {
		return n + r.renderPulse(s, f)
	}

	for i := range f.Branches {
		n += r.renderBranch(s, &f.Branches[i])
	}
	n += r.renderJunctions(s, f)
	n += r.renderCenter(s, f)
	return n
}

func (r *Renderer) renderBranch(s Surface, b *Branch) int {
	if b.Progress <= 0 || b.Opacity <= 0 || len(b.Waypoints) < 2 {
		return 0
	}
	n := 0
	r.pts = b.AppendRevealed(r.pts[:0])
	r.path.Reset()
	r.path.MoveTo(r.pts[0])
	for _, p := range r.pts[1:] {
		r.path.LineTo(p)
	}
	s.Stroke(&r.path, branchWidth, r.Palette.Branch.WithAlpha(b.Opacity*branchAlpha))
	n++

	if b.TipSize > 0 && b.TipOpacity > 0 {
		tip := r.pts[len(r.pts)-1]
		s.FillRadialGradient(tip, b.TipSize*tipHaloScale, r.Palette.Tip.WithAlpha(b.TipOpacity), tipStops)
		s.FillCircle(tip, b.TipSize, r.Palette.Tip.WithAlpha(b.TipOpacity))
		n += 2
	}
	return n
}

func (r *Renderer) renderJunctions(s Surface, f Frame) int {
	if len(f.Junctions) == 0 {
		return 0
	}
	opacity := 1.0
	if f.State.Phase == PhaseFading {
		opacity = math.Max(centerMinOpacity, averageProgress(f.Branches)*f.State.Opacity)
	}
	n := 0
	for _, j := range f.Junctions {
		c := r.Palette.Tip.WithAlpha(opacity * 0.8)
		s.FillRadialGradient(j.Pos, j.Size*junctionHalo, c, junctionStops)
		s.FillCircle(j.Pos, j.Size+float64(j.Connections-2)*0.5, c)
		n += 2
	}
	return n
}

func (r *Renderer) renderCenter(s Surface, f Frame) int {
	opacity := 1.0
	if f.State.Phase == PhaseFading {
		opacity = math.Max(centerMinOpacity, f.State.Opacity)
	}
	pulse := 1 + 0.1*math.Sin(pulseAngle(f.Elapsed))
	s.FillRadialGradient(f.Center, centerHaloRadius*pulse, r.Palette.CenterGlow.WithAlpha(opacity), centerStops)
	s.FillCircle(f.Center, centerCoreRadius*pulse, r.Palette.Center.WithAlpha(opacity))
	return 2
}

// renderPulse draws the reduced-motion indicator: one dot breathing on a
// two second period with a soft halo.
func (r *Renderer) renderPulse(s Surface, f Frame) int {
	sin := math.Sin(pulseAngle(f.Elapsed))
	size := 4 + sin*0.5
	opacity := 0.6 + sin*0.2
	s.FillCircle(f.Center, size, r.Palette.Center.WithAlpha(opacity))
	s.FillRadialGradient(f.Center, size*3, r.Palette.Center.WithAlpha(opacity), pulseStops)
	return 2
}

func pulseAngle(elapsed time.Duration) float64 {
	t := float64(elapsed%pulsePeriod) / float64(pulsePeriod)
	return t * 2 * math.Pi
}

func averageProgress(branches []Branch) float64 {
	if len(branches) == 0 {
		return 0
	}
	sum := 0.0
	for i := range branches {
		sum += branches[i].Progress
	}
	return sum / float64(len(branches))
}
