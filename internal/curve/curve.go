package curve

import "math"

// Type selects the response curve applied to an axis after the deadzone.
type Type int

const (
	Linear Type = iota
	SCurve
	Exponential
	Custom
)

func (t Type) String() string {
	switch t {
	case Linear:
		return "linear"
	case SCurve:
		return "scurve"
	case Exponential:
		return "exponential"
	case Custom:
		return "custom"
	}
	return "unknown"
}

// Point is a control point of a custom curve, both coordinates in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve describes an axis response curve. For Custom curves Points holds
// the control points sorted ascending by X, with the first point pinned
// at x=0 and the last at x=1.
type Curve struct {
	Type        Type    `json:"type"`
	Points      []Point `json:"points,omitempty"`
	Symmetrical bool    `json:"symmetrical,omitempty"`
	Inverted    bool    `json:"inverted,omitempty"`
}

// NewLinear returns the default curve.
func NewLinear() Curve {
	return Curve{Type: Linear}
}

// NewCustom returns a custom curve seeded with the identity point set.
func NewCustom() Curve {
	return Curve{
		Type:   Custom,
		Points: []Point{{0, 0}, {0.5, 0.5}, {1, 1}},
	}
}

// Evaluate maps x in [0,1] through the curve, returning a value in [0,1].
func Evaluate(c Curve, x float64) float64 {
	x = clamp01(x)

	var y float64
	switch c.Type {
	case SCurve:
		y = x * x * (3 - 2*x)
	case Exponential:
		y = x * x
	case Custom:
		y = evalSpline(c.Points, x)
	default:
		y = x
	}

	y = clamp01(y)
	if c.Inverted {
		y = 1 - y
	}
	return y
}

// evalSpline interpolates the y component with a Catmull-Rom spline
// through the control points. Outside the defined range the nearest
// endpoint's y is used.
func evalSpline(pts []Point, x float64) float64 {
	switch len(pts) {
	case 0:
		return x
	case 1:
		return pts[0].Y
	}

	if x <= pts[0].X {
		return pts[0].Y
	}
	last := len(pts) - 1
	if x >= pts[last].X {
		return pts[last].Y
	}

	// Control points are few, a linear scan is fine.
	i := 0
	for i < last-1 && x > pts[i+1].X {
		i++
	}

	p1 := pts[i]
	p2 := pts[i+1]
	p0 := virtualBefore(pts, i)
	p3 := virtualAfter(pts, i+1)

	dx := p2.X - p1.X
	if dx <= 0 {
		return p1.Y
	}
	t := (x - p1.X) / dx
	t2 := t * t
	t3 := t2 * t

	return 0.5 * (2*p1.Y +
		(-p0.Y+p2.Y)*t +
		(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 +
		(-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)
}

// virtualBefore returns the point preceding segment start i, synthesizing
// a mirrored endpoint when the segment starts at the first point.
func virtualBefore(pts []Point, i int) Point {
	if i == 0 {
		p1, p2 := pts[0], pts[1]
		return Point{p1.X - (p2.X - p1.X), p1.Y - (p2.Y - p1.Y)}
	}
	return pts[i-1]
}

func virtualAfter(pts []Point, j int) Point {
	last := len(pts) - 1
	if j == last {
		p1, p2 := pts[last], pts[last-1]
		return Point{p1.X + (p1.X - p2.X), p1.Y + (p1.Y - p2.Y)}
	}
	return pts[j+1]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
