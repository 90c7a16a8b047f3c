package sprout

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageSurface draws onto an ebiten image. Strokes become ribbon meshes,
// circles become triangle fans and radial gradients are cached feathered
// textures scaled into place. Buffers grow to a high-water mark and are
// reused across frames.
type ImageSurface struct {
	dst *ebiten.Image

	verts  []ebiten.Vertex
	inds   []uint16
	flat   []Vec2
	circle []Vec2
	triOp  ebiten.DrawTrianglesOptions
	imgOp  ebiten.DrawImageOptions
	grads  map[*GradientStop]*ebiten.Image
}

// circleSegments is the number of fan triangles used per circle.
const circleSegments = 24

// maxMeshVertices is the most vertices one DrawTriangles call can index.
const maxMeshVertices = math.MaxUint16 + 1

// NewImageSurface wraps dst. It returns ErrSurfaceUnavailable if dst is nil.
func NewImageSurface(dst *ebiten.Image) (*ImageSurface, error) {
	if dst == nil {
		return nil, ErrSurfaceUnavailable
	}
	s := &ImageSurface{dst: dst}
	s.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	return s, nil
}

// SetTarget points the surface at a new image, keeping cached buffers.
func (s *ImageSurface) SetTarget(dst *ebiten.Image) { s.dst = dst }

// Target returns the wrapped image.
func (s *ImageSurface) Target() *ebiten.Image { return s.dst }

// Size implements Surface.
func (s *ImageSurface) Size() (float64, float64) {
	b := s.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear implements Surface.
func (s *ImageSurface) Clear(c Color) {
	s.dst.Fill(c.toNRGBA())
}

// Stroke implements Surface.
func (s *ImageSurface) Stroke(path *Path, width float64, c Color) {
	s.flat = path.Flatten(s.flat, func(pts []Vec2) {
		s.verts, s.inds = appendRibbon(s.verts[:0], s.inds[:0], pts, width/2, c)
		s.drawTriangles()
	})
}

// FillCircle implements Surface.
func (s *ImageSurface) FillCircle(center Vec2, radius float64, c Color) {
	if radius <= 0 {
		return
	}
	s.circle = circlePoints(s.circle[:0], center, radius, circleSegments)
	s.verts, s.inds = appendFan(s.verts[:0], s.inds[:0], center, s.circle, c)
	s.drawTriangles()
}

// FillRadialGradient implements Surface.
func (s *ImageSurface) FillRadialGradient(center Vec2, radius float64, c Color, stops []GradientStop) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	tex := s.gradient(stops)
	size := float64(tex.Bounds().Dx())

	op := &s.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(radius*2/size, radius*2/size)
	op.GeoM.Translate(center.X-radius, center.Y-radius)
	op.ColorScale.Reset()
	a := float32(clamp01(c.A))
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(tex, op)
}

func (s *ImageSurface) drawTriangles() {
	if len(s.inds) == 0 {
		return
	}
	s.dst.DrawTriangles(s.verts, s.inds, ensureWhitePixel(), &s.triOp)
}

// gradient returns a cached texture for stops, generating it on first use.
// Textures are keyed by the first element's address, so callers must pass
// stop slices they never mutate.
func (s *ImageSurface) gradient(stops []GradientStop) *ebiten.Image {
	var key *GradientStop
	if len(stops) > 0 {
		key = &stops[0]
	}
	if img, ok := s.grads[key]; ok {
		return img
	}
	if s.grads == nil {
		s.grads = make(map[*GradientStop]*ebiten.Image)
	}
	img := generateGradient(gradientTextureRadius, stops)
	s.grads[key] = img
	return img
}

// Dispose releases cached textures.
func (s *ImageSurface) Dispose() {
	for _, img := range s.grads {
		img.Deallocate()
	}
	s.grads = nil
}

// gradientTextureRadius is the radius gradient textures are generated at
// before scaling.
const gradientTextureRadius = 64

// generateGradient creates a white disc whose alpha follows stops from the
// center to the rim. Pixels are premultiplied.
func generateGradient(radius float64, stops []GradientStop) *ebiten.Image {
	size := int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist < 1 {
				alpha = clamp01(gradientAlpha(stops, dist))
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}

// appendRibbon appends a triangle strip of half-width hw along pts. For N
// points: 2N vertices, 6(N-1) indices. Interior joints use the averaged
// segment normal, scaled to keep the width at the miter and clamped to 2x so
// sharp corners do not spike. Strips that would overflow uint16 indices are
// dropped.
func appendRibbon(verts []ebiten.Vertex, inds []uint16, pts []Vec2, hw float64, c Color) ([]ebiten.Vertex, []uint16) {
	n := len(pts)
	if n < 2 || len(verts)+2*n > maxMeshVertices {
		return verts, inds
	}
	base := uint16(len(verts))
	r, g, b, a := premultiplied(c)

	for i := 0; i < n; i++ {
		var nx, ny float64
		switch i {
		case 0:
			nx, ny = perpendicular(pts[0], pts[1])
		case n - 1:
			nx, ny = perpendicular(pts[n-2], pts[n-1])
		default:
			nx0, ny0 := perpendicular(pts[i-1], pts[i])
			nx1, ny1 := perpendicular(pts[i], pts[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			ln := math.Sqrt(nx*nx + ny*ny)
			if ln > 1e-10 {
				nx /= ln
				ny /= ln
			}
			if dot := nx0*nx + ny0*ny; dot > 0.1 {
				scale := math.Min(1/dot, 2)
				nx *= scale
				ny *= scale
			}
		}
		verts = append(verts,
			ebiten.Vertex{
				DstX: float32(pts[i].X + nx*hw), DstY: float32(pts[i].Y + ny*hw),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			},
			ebiten.Vertex{
				DstX: float32(pts[i].X - nx*hw), DstY: float32(pts[i].Y - ny*hw),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			},
		)
	}

	for i := 0; i < n-1; i++ {
		v := base + uint16(i*2)
		inds = append(inds, v, v+1, v+2, v+1, v+3, v+2)
	}
	return verts, inds
}

// appendFan appends a fan-triangulated polygon around hub.
func appendFan(verts []ebiten.Vertex, inds []uint16, hub Vec2, rim []Vec2, c Color) ([]ebiten.Vertex, []uint16) {
	if len(rim) < 3 {
		return verts, inds
	}
	base := uint16(len(verts))
	r, g, b, a := premultiplied(c)
	verts = append(verts, ebiten.Vertex{
		DstX: float32(hub.X), DstY: float32(hub.Y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: r, ColorG: g, ColorB: b, ColorA: a,
	})
	for _, p := range rim {
		verts = append(verts, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	n := uint16(len(rim))
	for i := uint16(0); i < n; i++ {
		inds = append(inds, base, base+1+i, base+1+(i+1)%n)
	}
	return verts, inds
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

func premultiplied(c Color) (r, g, b, a float32) {
	a = float32(clamp01(c.A))
	return float32(clamp01(c.R)) * a, float32(clamp01(c.G)) * a, float32(clamp01(c.B)) * a, a
}

// --- White pixel singleton (drawing is single-threaded, no sync.Once) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used as
// the source texture for untextured meshes.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
