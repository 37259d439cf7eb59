package geom

import (
	"math"
	"sort"
)

// CurveSubdivisions is the number of chords each bezier segment is
// flattened into before measuring.
const CurveSubdivisions = 48

// PathMeasurer answers arc-length queries on a path.
type PathMeasurer interface {
	// Length returns the total arc length.
	Length() float64
	// PointAt returns the point at arc distance d from the start together
	// with the tangent direction there, in radians. d is clamped to
	// [0, Length()].
	PointAt(d float64) (Point, float64)
}

// Sample is a point on a path with its tangent angle and arc distance.
type Sample struct {
	Point
	Angle float64
	Dist  float64
}

// QuadAt evaluates a quadratic bezier at t.
func QuadAt(p0, c, p1 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*p0.X + 2*mt*t*c.X + t*t*p1.X,
		Y: mt*mt*p0.Y + 2*mt*t*c.Y + t*t*p1.Y,
	}
}

// CubicAt evaluates a cubic bezier at t.
func CubicAt(p0, c1, c2, p1 Point, t float64) Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}

// Flatten converts the path into a polyline. Later move-to segments are
// joined to the polyline as if connected, so callers should measure one
// subpath at a time.
func Flatten(p Path) []Point {
	var pts []Point
	var cur, start Point
	add := func(q Point) {
		if n := len(pts); n > 0 && pts[n-1] == q {
			return
		}
		pts = append(pts, q)
	}

	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			cur, start = s.End(), s.End()
			add(cur)
		case OpLine:
			cur = s.End()
			add(cur)
		case OpQuad:
			for i := 1; i <= CurveSubdivisions; i++ {
				add(QuadAt(cur, s.Pts[0], s.Pts[1], float64(i)/CurveSubdivisions))
			}
			cur = s.End()
		case OpCubic:
			for i := 1; i <= CurveSubdivisions; i++ {
				add(CubicAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/CurveSubdivisions))
			}
			cur = s.End()
		case OpClose:
			cur = start
			add(cur)
		}
	}
	return pts
}

type polylineMeasurer struct {
	pts []Point
	cum []float64 // arc length at pts[i]
}

// NewMeasurer returns a portable PathMeasurer built from explicit
// line and bezier evaluation.
func NewMeasurer(p Path) PathMeasurer {
	pts := Flatten(p)
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + Distance(pts[i-1], pts[i])
	}
	return &polylineMeasurer{pts: pts, cum: cum}
}

func (m *polylineMeasurer) Length() float64 {
	if len(m.cum) == 0 {
		return 0
	}
	return m.cum[len(m.cum)-1]
}

func (m *polylineMeasurer) PointAt(d float64) (Point, float64) {
	switch len(m.pts) {
	case 0:
		return Point{}, 0
	case 1:
		return m.pts[0], 0
	}

	d = math.Max(0, math.Min(d, m.Length()))
	i := sort.SearchFloat64s(m.cum, d)
	if i == 0 {
		i = 1
	}
	a, b := m.pts[i-1], m.pts[i]
	span := m.cum[i] - m.cum[i-1]
	t := 0.0
	if span > 0 {
		t = (d - m.cum[i-1]) / span
	}
	return a.Lerp(b, t), Angle(a, b)
}

// SampleLength samples the path at evenly spaced arc distances close to
// step. Both ends are always included.
func SampleLength(p Path, step float64) []Sample {
	return SampleMeasurer(NewMeasurer(p), step)
}

// SampleMeasurer is SampleLength over an existing measurer.
func SampleMeasurer(m PathMeasurer, step float64) []Sample {
	length := m.Length()
	if length == 0 {
		pt, a := m.PointAt(0)
		return []Sample{{Point: pt, Angle: a}}
	}
	if step <= 0 || step > length {
		step = length
	}

	n := int(math.Ceil(length/step - 1e-9))
	out := make([]Sample, 0, n+1)
	for i := 0; i <= n; i++ {
		d := length * float64(i) / float64(n)
		pt, a := m.PointAt(d)
		out = append(out, Sample{Point: pt, Angle: a, Dist: d})
	}
	return out
}
