package curve

import (
	"math"
	"sort"
)

const (
	// Interior points keep at least this much x between neighbors.
	minGapX = 0.02
	// Inserts landing closer than this to an existing point are dropped.
	nearDuplicateX = 0.04
	// No user-placed points this close to the fixed endpoints.
	endpointMarginX = 0.01
	// The point within this distance of (0.5,0.5) is pinned.
	centerTolerance = 0.01
)

// IsEndpoint reports whether index i is one of the fixed (0,0)/(1,1) points.
func IsEndpoint(pts []Point, i int) bool {
	return i == 0 || i == len(pts)-1
}

// IsCenterPinned reports whether the point at i is the protected center
// point, the one nearest (0.5,0.5) within tolerance. It is never removable
// and never user-interactive.
func IsCenterPinned(pts []Point, i int) bool {
	if i < 0 || i >= len(pts) {
		return false
	}
	p := pts[i]
	return math.Abs(p.X-0.5) <= centerTolerance && math.Abs(p.Y-0.5) <= centerTolerance
}

// MirrorIndex returns the index of the point mirroring pts[i] across
// (0.5,0.5). Endpoints mirror each other; interior points mirror to the
// existing point whose x is closest to 1-x, since user-dragged points are
// rarely exact.
func MirrorIndex(pts []Point, i int) int {
	last := len(pts) - 1
	if i == 0 {
		return last
	}
	if i == last {
		return 0
	}
	target := 1 - pts[i].X
	best := -1
	bestDist := math.Inf(1)
	for j := 1; j < last; j++ {
		if j == i {
			continue
		}
		d := math.Abs(pts[j].X - target)
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	if best < 0 {
		return i
	}
	return best
}

// InsertPoint adds a control point to a custom curve. The insert is
// rejected when x falls in the endpoint margins or within the
// near-duplicate distance of an existing point. With symmetry on, the
// mirror point is inserted too unless it would itself land on a
// near-duplicate. Returns the updated curve, the index of the new point
// and whether the insert happened.
func InsertPoint(c Curve, x, y float64) (Curve, int, bool) {
	if c.Type != Custom {
		return c, -1, false
	}
	if x <= endpointMarginX || x >= 1-endpointMarginX {
		return c, -1, false
	}
	if nearAnyPoint(c.Points, x) {
		return c, -1, false
	}
	y = clamp01(y)

	pts := append(append([]Point(nil), c.Points...), Point{x, y})
	if c.Symmetrical {
		mx, my := 1-x, 1-y
		if !nearAnyPoint(pts, mx) && mx > endpointMarginX && mx < 1-endpointMarginX {
			pts = append(pts, Point{mx, my})
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	c.Points = pts
	for i, p := range pts {
		if p.X == x && p.Y == y {
			return c, i, true
		}
	}
	return c, -1, true
}

// MovePoint drags the point at i to (x,y), clamped so it cannot cross or
// crowd its neighbors. Endpoints and the pinned center point do not move.
// With symmetry on, the mirror point tracks at (1-x,1-y).
func MovePoint(c Curve, i int, x, y float64) Curve {
	if c.Type != Custom || i < 0 || i >= len(c.Points) {
		return c
	}
	if IsEndpoint(c.Points, i) || IsCenterPinned(c.Points, i) {
		return c
	}

	pts := append([]Point(nil), c.Points...)
	mirror := -1
	if c.Symmetrical {
		mirror = MirrorIndex(pts, i)
	}

	pts[i] = clampBetweenNeighbors(pts, i, x, y)

	if mirror >= 0 && mirror != i && !IsEndpoint(pts, mirror) && !IsCenterPinned(pts, mirror) {
		pts[mirror] = clampBetweenNeighbors(pts, mirror, 1-pts[i].X, 1-pts[i].Y)
	}

	c.Points = pts
	return c
}

// RemovePoint deletes the point at i, and its mirror when symmetry is on.
// Endpoints and the pinned center point are not removable.
func RemovePoint(c Curve, i int) (Curve, bool) {
	if c.Type != Custom || i < 0 || i >= len(c.Points) {
		return c, false
	}
	if IsEndpoint(c.Points, i) || IsCenterPinned(c.Points, i) {
		return c, false
	}

	drop := map[int]bool{i: true}
	if c.Symmetrical {
		m := MirrorIndex(c.Points, i)
		if m != i && !IsEndpoint(c.Points, m) && !IsCenterPinned(c.Points, m) {
			drop[m] = true
		}
	}

	pts := make([]Point, 0, len(c.Points))
	for j, p := range c.Points {
		if !drop[j] {
			pts = append(pts, p)
		}
	}
	c.Points = pts
	return c, true
}

// SetSymmetrical toggles symmetry maintenance. Enabling it on an
// asymmetric point set resynthesizes a canonical symmetric set: left-half
// points are kept as-is, a point is ensured at exactly (0.5,0.5) when any
// left-half point exists, and the left half is mirrored onto the right in
// reverse x order between the fixed endpoints. Points within the center
// tolerance of x=0.5 fold into the pinned center point rather than
// producing a near-duplicate knot next to it.
func SetSymmetrical(c Curve, on bool) Curve {
	if !on || c.Type != Custom {
		c.Symmetrical = on
		return c
	}

	var lefts []Point
	hasCenter := false
	for _, p := range c.Points {
		if p.X <= 0 || p.X >= 1 {
			continue
		}
		switch {
		case p.X < 0.5-centerTolerance:
			lefts = append(lefts, p)
		case p.X <= 0.5+centerTolerance:
			hasCenter = true
		}
	}
	sort.Slice(lefts, func(i, j int) bool { return lefts[i].X < lefts[j].X })

	pts := []Point{{0, 0}}
	pts = append(pts, lefts...)
	if len(lefts) > 0 || hasCenter {
		pts = append(pts, Point{0.5, 0.5})
	}
	for i := len(lefts) - 1; i >= 0; i-- {
		pts = append(pts, Point{1 - lefts[i].X, 1 - lefts[i].Y})
	}
	pts = append(pts, Point{1, 1})

	c.Points = pts
	c.Symmetrical = true
	return c
}

func nearAnyPoint(pts []Point, x float64) bool {
	for _, p := range pts {
		if math.Abs(p.X-x) < nearDuplicateX {
			return true
		}
	}
	return false
}

func clampBetweenNeighbors(pts []Point, i int, x, y float64) Point {
	lo := pts[i-1].X + minGapX
	hi := pts[i+1].X - minGapX
	if lo > hi {
		// Neighbors already closer than two gaps, hold position.
		return pts[i]
	}
	return Point{clamp(x, lo, hi), clamp01(y)}
}
