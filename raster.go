package sprout

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// RasterSurface draws into an in-memory RGBA image with the pure-Go
// rasterizer from golang.org/x/image/vector. It needs no GPU or window, so
// the CLI uses it to export frames and run test scripts headlessly.
type RasterSurface struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	flat []Vec2
	src  image.Uniform
}

// kappa is the cubic Bézier handle length for a quarter circle.
const kappa = 0.5522847498

// NewRasterSurface creates a w x h raster surface.
func NewRasterSurface(w, h int) *RasterSurface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &RasterSurface{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(w, h),
	}
}

// Image returns the backing image. It is overwritten by the next frame.
func (s *RasterSurface) Image() *image.RGBA { return s.img }

// Resize reallocates the backing image when the size changes.
func (s *RasterSurface) Resize(w, h int) {
	b := s.img.Bounds()
	if b.Dx() == w && b.Dy() == h || w < 1 || h < 1 {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Size implements Surface.
func (s *RasterSurface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear implements Surface.
func (s *RasterSurface) Clear(c Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c.toNRGBA()), image.Point{}, draw.Src)
}

// Stroke implements Surface. Each segment is filled as a quad; the
// rasterizer clamps overlapping coverage at the joints.
func (s *RasterSurface) Stroke(path *Path, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	hw := width / 2
	s.begin()
	drawn := false
	s.flat = path.Flatten(s.flat, func(pts []Vec2) {
		for i := 1; i < len(pts); i++ {
			nx, ny := perpendicular(pts[i-1], pts[i])
			a, b := pts[i-1], pts[i]
			s.z.MoveTo(float32(a.X+nx*hw), float32(a.Y+ny*hw))
			s.z.LineTo(float32(b.X+nx*hw), float32(b.Y+ny*hw))
			s.z.LineTo(float32(b.X-nx*hw), float32(b.Y-ny*hw))
			s.z.LineTo(float32(a.X-nx*hw), float32(a.Y-ny*hw))
			s.z.ClosePath()
			drawn = true
		}
	})
	if drawn {
		s.fill(c)
	}
}

// FillCircle implements Surface. The disc is four cubic arcs.
func (s *RasterSurface) FillCircle(center Vec2, radius float64, c Color) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	s.begin()
	cx, cy, r := float32(center.X), float32(center.Y), float32(radius)
	k := r * kappa
	s.z.MoveTo(cx+r, cy)
	s.z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	s.z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	s.z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	s.z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	s.z.ClosePath()
	s.fill(c)
}

// FillRadialGradient implements Surface. Pixels inside the disc are
// composited source-over one by one.
func (s *RasterSurface) FillRadialGradient(center Vec2, radius float64, c Color, stops []GradientStop) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	bounds := image.Rect(
		int(math.Floor(center.X-radius)), int(math.Floor(center.Y-radius)),
		int(math.Ceil(center.X+radius)), int(math.Ceil(center.Y+radius)),
	).Intersect(s.img.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			dist := math.Sqrt(dx*dx+dy*dy) / radius
			if dist >= 1 {
				continue
			}
			a := clamp01(gradientAlpha(stops, dist) * c.A)
			if a <= 0 {
				continue
			}
			blendOver(s.img, x, y, c, a)
		}
	}
}

func (s *RasterSurface) begin() {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	s.z.DrawOp = draw.Over
}

func (s *RasterSurface) fill(c Color) {
	s.src.C = c.toNRGBA()
	s.z.Draw(s.img, s.img.Bounds(), &s.src, image.Point{})
}

// blendOver composites straight-alpha color c at alpha a over pixel (x, y).
func blendOver(img *image.RGBA, x, y int, c Color, a float64) {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	inv := 1 - a
	p[0] = uint8(clamp01(c.R*a+float64(p[0])/255*inv)*255 + 0.5)
	p[1] = uint8(clamp01(c.G*a+float64(p[1])/255*inv)*255 + 0.5)
	p[2] = uint8(clamp01(c.B*a+float64(p[2])/255*inv)*255 + 0.5)
	p[3] = uint8(clamp01(a+float64(p[3])/255*inv)*255 + 0.5)
}

// Snapshot copies the current frame into a straight-alpha NRGBA image.
func (s *RasterSurface) Snapshot() *image.NRGBA {
	b := s.img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, s.img, b.Min, draw.Src)
	return out
}
