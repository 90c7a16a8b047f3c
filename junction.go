package sprout

import "math"

// Junction is a point where two or more branch tips meet.
type Junction struct {
	Pos         Vec2
	Size        float64
	Connections int
}

// Junction detection settings.
const (
	junctionThreshold = 8.0 // max tip distance that still counts as touching
	junctionGrid      = 5.0 // junction positions are merged on this grid
	junctionSize      = 2.0
)

type junctionKey struct{ x, y int }

// FindJunctions appends junctions between visible branches to buf. Two
// branches meet when their tips are within 8 units, or when one tip reaches
// the other's origin after that branch is more than half grown. Meeting
// points that fall in the same 5-unit grid cell merge into one junction whose
// connection count grows with each extra pair.
func FindJunctions(branches []Branch, buf []Junction) []Junction {
	buf = buf[:0]
	index := make(map[junctionKey]int)
	for i := range branches {
		a := &branches[i]
		if a.Progress <= 0 || len(a.Waypoints) == 0 {
			continue
		}
		aStart, aEnd := a.Waypoints[0], a.Tip()
		for j := i + 1; j < len(branches); j++ {
			b := &branches[j]
			if b.Progress <= 0 || len(b.Waypoints) == 0 {
				continue
			}
			bStart, bEnd := b.Waypoints[0], b.Tip()

			var p Vec2
			switch {
			case aEnd.Sub(bEnd).Len() < junctionThreshold:
				p = midpoint(aEnd, bEnd)
			case aEnd.Sub(bStart).Len() < junctionThreshold && b.Progress > 0.5:
				p = midpoint(aEnd, bStart)
			case aStart.Sub(bEnd).Len() < junctionThreshold && a.Progress > 0.5:
				p = midpoint(aStart, bEnd)
			default:
				continue
			}

			key := junctionKey{
				x: int(math.Round(p.X/junctionGrid)) * junctionGrid,
				y: int(math.Round(p.Y/junctionGrid)) * junctionGrid,
			}
			if k, ok := index[key]; ok {
				buf[k].Connections++
				continue
			}
			index[key] = len(buf)
			buf = append(buf, Junction{Pos: p, Size: junctionSize, Connections: 2})
		}
	}
	return buf
}

func midpoint(a, b Vec2) Vec2 {
	return Vec2{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}
