package sprout

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// --- appendRibbon ---

func TestRibbonVertexAndIndexCounts(t *testing.T) {
	pts := []Vec2{{0, 0}, {10, 0}, {20, 0}, {30, 0}}
	verts, inds := appendRibbon(nil, nil, pts, 2, ColorWhite)
	// 4 points → 8 vertices, 3 segments → 18 indices
	if len(verts) != 8 {
		t.Errorf("vertices = %d, want 8", len(verts))
	}
	if len(inds) != 18 {
		t.Errorf("indices = %d, want 18", len(inds))
	}
}

func TestRibbonTwoPoints(t *testing.T) {
	verts, inds := appendRibbon(nil, nil, []Vec2{{0, 0}, {10, 0}}, 2, ColorWhite)
	if len(verts) != 4 || len(inds) != 6 {
		t.Fatalf("verts = %d inds = %d, want 4 and 6", len(verts), len(inds))
	}
	// Left-perpendicular of a left→right segment is (0, 1).
	if !approxEqual(float64(verts[0].DstY), 2, 0.01) {
		t.Errorf("top vertex Y = %f, want 2", verts[0].DstY)
	}
	if !approxEqual(float64(verts[1].DstY), -2, 0.01) {
		t.Errorf("bottom vertex Y = %f, want -2", verts[1].DstY)
	}
}

func TestRibbonMiterClamp(t *testing.T) {
	// A hairpin turn would produce an unbounded miter without the clamp.
	pts := []Vec2{{0, 0}, {10, 0}, {0, 0.5}}
	verts, _ := appendRibbon(nil, nil, pts, 1, ColorWhite)
	for i, v := range verts {
		d := math.Hypot(float64(v.DstX)-pts[i/2].X, float64(v.DstY)-pts[i/2].Y)
		if d > 2.01 {
			t.Errorf("vertex %d offset %v exceeds 2x half-width", i, d)
		}
	}
}

func TestRibbonSinglePoint(t *testing.T) {
	verts, inds := appendRibbon(nil, nil, []Vec2{{1, 1}}, 2, ColorWhite)
	if len(verts) != 0 || len(inds) != 0 {
		t.Error("a single point should produce no mesh")
	}
}

func TestRibbonPremultipliesColor(t *testing.T) {
	verts, _ := appendRibbon(nil, nil, []Vec2{{0, 0}, {1, 0}}, 1, Color{1, 0.5, 0, 0.5})
	v := verts[0]
	if !approxEqual(float64(v.ColorR), 0.5, 1e-6) || !approxEqual(float64(v.ColorG), 0.25, 1e-6) || v.ColorA != 0.5 {
		t.Errorf("color = %v %v %v %v", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
}

// --- appendFan ---

func TestFanTriangulation(t *testing.T) {
	rim := circlePoints(nil, Vec2{5, 5}, 3, 8)
	verts, inds := appendFan(nil, nil, Vec2{5, 5}, rim, ColorWhite)
	if len(verts) != 9 {
		t.Errorf("vertices = %d, want 9", len(verts))
	}
	if len(inds) != 24 {
		t.Errorf("indices = %d, want 24", len(inds))
	}
	// Last triangle closes back to the first rim vertex.
	if inds[23] != 1 {
		t.Errorf("closing index = %d, want 1", inds[23])
	}
}

func TestFanAppendsAfterExisting(t *testing.T) {
	verts, inds := appendRibbon(nil, nil, []Vec2{{0, 0}, {1, 0}}, 1, ColorWhite)
	rim := circlePoints(nil, Vec2{}, 1, 4)
	verts, inds = appendFan(verts, inds, Vec2{}, rim, ColorWhite)
	if inds[6] != 4 {
		t.Errorf("fan hub index = %d, want 4", inds[6])
	}
	if len(verts) != 9 {
		t.Errorf("vertices = %d, want 9", len(verts))
	}
}

func TestPerpendicularDegenerate(t *testing.T) {
	nx, ny := perpendicular(Vec2{3, 3}, Vec2{3, 3})
	if nx != 0 || ny != -1 {
		t.Errorf("perpendicular of a zero segment = (%v, %v)", nx, ny)
	}
}

func TestRibbonDropsIndexOverflow(t *testing.T) {
	pts := make([]Vec2, maxMeshVertices/2+1)
	for i := range pts {
		pts[i] = Vec2{float64(i), 0}
	}
	verts, inds := appendRibbon(nil, nil, pts, 1, ColorWhite)
	if len(verts) != 0 || len(inds) != 0 {
		t.Errorf("verts = %d inds = %d, want 0 and 0", len(verts), len(inds))
	}

	ok := pts[:maxMeshVertices/2]
	verts, inds = appendRibbon(nil, nil, ok, 1, ColorWhite)
	if len(verts) != maxMeshVertices {
		t.Fatalf("verts = %d, want %d", len(verts), maxMeshVertices)
	}
	for _, idx := range inds {
		if int(idx) >= len(verts) {
			t.Fatalf("index %d out of range %d", idx, len(verts))
		}
	}
}

// --- ImageSurface ---

func TestNewImageSurfaceNil(t *testing.T) {
	s, err := NewImageSurface(nil)
	if s != nil || !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("got %v, %v", s, err)
	}
}

func TestEnsureWhitePixelSingleton(t *testing.T) {
	a := ensureWhitePixel()
	b := ensureWhitePixel()
	if a != b {
		t.Error("ensureWhitePixel should return same image")
	}
	bounds := a.Bounds()
	if bounds.Dx() != 1 || bounds.Dy() != 1 {
		t.Errorf("white pixel size = %dx%d, want 1x1", bounds.Dx(), bounds.Dy())
	}
}

func TestImageSurfaceGradientCache(t *testing.T) {
	s := &ImageSurface{}
	a := s.gradient(tipStops)
	if b := s.gradient(tipStops); a != b {
		t.Error("same stops should reuse the cached texture")
	}
	if c := s.gradient(pulseStops); c == a {
		t.Error("different stops should get their own texture")
	}
	for i := 0; i < 10; i++ {
		s.gradient(centerStops)
	}
	if len(s.grads) != 3 {
		t.Errorf("cached textures = %d, want 3", len(s.grads))
	}
	s.Dispose()
	if s.grads != nil {
		t.Error("Dispose should drop the cache")
	}
}
