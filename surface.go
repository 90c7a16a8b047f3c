package sprout

import "math"

// Surface is the 2D drawing target the Renderer paints onto. Implementations
// exist for ebiten images (ImageSurface), software raster images
// (RasterSurface) and command capture (RecordingSurface).
type Surface interface {
	// Size returns the surface dimensions in logical units.
	Size() (w, h float64)
	// Clear replaces every pixel with c.
	Clear(c Color)
	// Stroke draws path with the given line width and color.
	Stroke(path *Path, width float64, c Color)
	// FillCircle draws a solid disc.
	FillCircle(center Vec2, radius float64, c Color)
	// FillRadialGradient draws a disc whose alpha follows stops from the
	// center (Offset 0) to the rim (Offset 1). c supplies the color and the
	// overall alpha.
	FillRadialGradient(center Vec2, radius float64, c Color, stops []GradientStop)
}

// GradientStop is one alpha stop of a radial gradient.
type GradientStop struct {
	Offset float64 // 0 = center, 1 = rim
	Alpha  float64
}

// gradientAlpha returns the interpolated stop alpha at offset t. stops must
// be sorted by Offset.
func gradientAlpha(stops []GradientStop, t float64) float64 {
	if len(stops) == 0 {
		return 0
	}
	if t <= stops[0].Offset {
		return stops[0].Alpha
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Alpha
			}
			return lerp(a.Alpha, b.Alpha, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Alpha
}

// PathOp identifies a path segment kind.
type PathOp uint8

const (
	PathMoveTo PathOp = iota // start a new subpath
	PathLineTo               // straight segment
	PathQuadTo               // quadratic Bézier segment (control, end)
)

// pathSeg is one recorded path segment. For PathQuadTo, Ctrl is the control
// point and Pt the end point.
type pathSeg struct {
	Op   PathOp
	Ctrl Vec2
	Pt   Vec2
}

// Path is a reusable list of move/line/quad segments. Reset it between
// uses to keep the backing array.
type Path struct {
	segs []pathSeg
}

// Reset empties the path, keeping its capacity.
func (p *Path) Reset() { p.segs = p.segs[:0] }

// MoveTo starts a new subpath at pt.
func (p *Path) MoveTo(pt Vec2) { p.segs = append(p.segs, pathSeg{Op: PathMoveTo, Pt: pt}) }

// LineTo adds a straight segment to pt.
func (p *Path) LineTo(pt Vec2) { p.segs = append(p.segs, pathSeg{Op: PathLineTo, Pt: pt}) }

// QuadTo adds a quadratic Bézier segment through control ctrl to pt.
func (p *Path) QuadTo(ctrl, pt Vec2) {
	p.segs = append(p.segs, pathSeg{Op: PathQuadTo, Ctrl: ctrl, Pt: pt})
}

// Len returns the number of segments.
func (p *Path) Len() int { return len(p.segs) }

// quadSteps is the number of line segments one QuadTo flattens into.
const quadSteps = 12

// Flatten rebuilds each subpath as a polyline in buf, calling emit once per
// subpath. The slice passed to emit is reused between calls.
func (p *Path) Flatten(buf []Vec2, emit func(pts []Vec2)) []Vec2 {
	buf = buf[:0]
	flush := func() {
		if len(buf) > 1 {
			emit(buf)
		}
		buf = buf[:0]
	}
	for _, s := range p.segs {
		switch s.Op {
		case PathMoveTo:
			flush()
			buf = append(buf, s.Pt)
		case PathLineTo:
			buf = append(buf, s.Pt)
		case PathQuadTo:
			if len(buf) == 0 {
				buf = append(buf, s.Ctrl)
			}
			a := buf[len(buf)-1]
			for i := 1; i <= quadSteps; i++ {
				t := float64(i) / quadSteps
				u := 1 - t
				buf = append(buf, Vec2{
					X: u*u*a.X + 2*u*t*s.Ctrl.X + t*t*s.Pt.X,
					Y: u*u*a.Y + 2*u*t*s.Ctrl.Y + t*t*s.Pt.Y,
				})
			}
		}
	}
	flush()
	return buf
}

// --- RecordingSurface ---

// CommandType identifies a recorded draw command.
type CommandType uint8

const (
	CommandClear CommandType = iota
	CommandStroke
	CommandCircle
	CommandGradient
)

// DrawCommand is one call captured by RecordingSurface.
type DrawCommand struct {
	Type   CommandType
	Color  Color
	Width  float64 // stroke width
	Points []Vec2  // flattened stroke polyline (all subpaths concatenated)
	Center Vec2    // circle and gradient center
	Radius float64 // circle and gradient radius
	Stops  []GradientStop
}

// RecordingSurface captures draw calls instead of producing pixels. It is
// used to inspect frames in tests and by the debug stats.
type RecordingSurface struct {
	W, H     float64
	Commands []DrawCommand
	flat     []Vec2
}

// NewRecordingSurface creates a recording surface of the given size.
func NewRecordingSurface(w, h float64) *RecordingSurface {
	return &RecordingSurface{W: w, H: h}
}

// Size implements Surface.
func (r *RecordingSurface) Size() (float64, float64) { return r.W, r.H }

// Clear implements Surface. Earlier commands are dropped, matching a full
// repaint.
func (r *RecordingSurface) Clear(c Color) {
	r.Commands = append(r.Commands[:0], DrawCommand{Type: CommandClear, Color: c})
}

// Stroke implements Surface.
func (r *RecordingSurface) Stroke(path *Path, width float64, c Color) {
	var pts []Vec2
	r.flat = path.Flatten(r.flat, func(sub []Vec2) {
		pts = append(pts, sub...)
	})
	r.Commands = append(r.Commands, DrawCommand{Type: CommandStroke, Color: c, Width: width, Points: pts})
}

// FillCircle implements Surface.
func (r *RecordingSurface) FillCircle(center Vec2, radius float64, c Color) {
	r.Commands = append(r.Commands, DrawCommand{Type: CommandCircle, Color: c, Center: center, Radius: radius})
}

// FillRadialGradient implements Surface.
func (r *RecordingSurface) FillRadialGradient(center Vec2, radius float64, c Color, stops []GradientStop) {
	r.Commands = append(r.Commands, DrawCommand{
		Type: CommandGradient, Color: c, Center: center, Radius: radius,
		Stops: append([]GradientStop(nil), stops...),
	})
}

// Count returns the number of recorded commands of type t.
func (r *RecordingSurface) Count(t CommandType) int {
	n := 0
	for i := range r.Commands {
		if r.Commands[i].Type == t {
			n++
		}
	}
	return n
}

// circlePoints appends a closed n-gon approximating a circle to buf.
func circlePoints(buf []Vec2, center Vec2, radius float64, n int) []Vec2 {
	for i := 0; i < n; i++ {
		a := float64(i) / float64(n) * 2 * math.Pi
		buf = append(buf, center.polar(a, radius))
	}
	return buf
}
