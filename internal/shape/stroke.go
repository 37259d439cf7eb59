package shape

import (
	"math"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
)

// StrokeRole tells a renderer what a stroke is for.
type StrokeRole string

const (
	RoleMain   StrokeRole = "main"
	RoleOffset StrokeRole = "offset"
	RoleMarker StrokeRole = "marker"
)

// Stroke is one drawable outline.
type Stroke struct {
	Role  StrokeRole
	Path  geom.Path
	Width float64
	Color string
	Fill  string    // empty means unfilled
	Dash  []float64 // dash/gap lengths, nil for continuous
}

// Options selects how a shape is stroked.
type Options struct {
	Style  Style
	Width  float64
	Color  string
	Ending Ending
}

func (o Options) withDefaults() Options {
	if !o.Style.Valid() {
		o.Style = StyleSolid
	}
	if o.Width <= 0 {
		o.Width = DefaultStrokeWidth
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if !o.Ending.Valid() {
		o.Ending = EndingNone
	}
	return o
}

// Renderable is a styled shape ready to draw.
type Renderable struct {
	Base    geom.Path
	Strokes []Stroke
	Width   float64
	Color   string

	// Terminal is the base path's end point and its tangent there.
	Terminal geom.Sample
}

// Empty reports whether there is nothing to draw.
func (r Renderable) Empty() bool { return len(r.Strokes) == 0 }

// Bounds returns the union of the bounds of every stroke.
func (r Renderable) Bounds() geom.Rect {
	var b geom.Rect
	for _, s := range r.Strokes {
		b = b.Union(s.Path.Bounds().Outset(s.Width / 2))
	}
	return b
}

// ApplyStyle strokes path according to o. Ending in o only affects how a
// double stroke is trimmed; call ApplyEnding to add the marker itself.
func ApplyStyle(path geom.Path, o Options) Renderable {
	o = o.withDefaults()
	r := Renderable{Base: path, Width: o.Width, Color: o.Color}
	if path.Empty() {
		return r
	}

	m := geom.NewMeasurer(path)
	length := m.Length()
	end, angle := m.PointAt(length)
	r.Terminal = geom.Sample{Point: end, Angle: angle, Dist: length}

	switch o.Style {
	case StyleDashed:
		r.Strokes = append(r.Strokes, Stroke{
			Role:  RoleMain,
			Path:  path,
			Width: o.Width,
			Color: o.Color,
			Dash:  []float64{DashLength, DashGap},
		})
	case StyleDouble:
		limit := length
		if o.Ending != EndingNone {
			limit = math.Max(length-MarkerLength, length/2)
		}
		left, right := offsetPair(m, limit, o.Width)
		for _, side := range []geom.Path{left, right} {
			r.Strokes = append(r.Strokes, Stroke{Role: RoleOffset, Path: side, Width: o.Width / 2, Color: o.Color})
		}
	case StyleWavy:
		r.Strokes = append(r.Strokes, Stroke{Role: RoleMain, Path: wave(m), Width: o.Width, Color: o.Color})
	default:
		r.Strokes = append(r.Strokes, Stroke{Role: RoleMain, Path: path, Width: o.Width, Color: o.Color})
	}
	return r
}

// offsetPair builds the two parallel polylines of a double stroke, each at
// distance d from the path along the local normal, up to arc length limit.
func offsetPair(m geom.PathMeasurer, limit, d float64) (geom.Path, geom.Path) {
	var left, right geom.Path
	add := func(s geom.Sample) {
		normal := s.Angle + math.Pi/2
		l, r := s.Point.Polar(normal, d), s.Point.Polar(normal, -d)
		if len(left.Segments) == 0 {
			left.MoveTo(l)
			right.MoveTo(r)
			return
		}
		left.LineTo(l)
		right.LineTo(r)
	}

	for _, s := range geom.SampleMeasurer(m, OffsetStep) {
		if s.Dist >= limit {
			break
		}
		add(s)
	}
	pt, a := m.PointAt(limit)
	add(geom.Sample{Point: pt, Angle: a, Dist: limit})
	return left, right
}

// WaveOffset returns the perpendicular displacement of a wavy stroke at arc
// distance d on a path of the given length. It is zero inside the flat
// zones of one wavelength at both ends; between them the period is
// stretched so a whole number of half waves fits and the wave meets both
// flat zones at zero.
func WaveOffset(d, length float64) float64 {
	flat := WaveLength
	mid := length - 2*flat
	if mid < WaveLength/2 || d <= flat || d >= length-flat {
		return 0
	}
	halves := math.Max(1, math.Round(mid/(WaveLength/2)))
	period := 2 * mid / halves
	return WaveAmplitude * math.Sin(2*math.Pi*(d-flat)/period)
}

func wave(m geom.PathMeasurer) geom.Path {
	length := m.Length()
	var p geom.Path
	for i, s := range geom.SampleMeasurer(m, WaveStep) {
		pt := s.Point.Polar(s.Angle+math.Pi/2, WaveOffset(s.Dist, length))
		if i == 0 {
			p.MoveTo(pt)
			continue
		}
		p.LineTo(pt)
	}
	return p
}

// ApplyEnding appends the termination marker at r's terminal point,
// oriented along the base path's terminal tangent.
func ApplyEnding(r Renderable, ending Ending) Renderable {
	if r.Empty() || ending == EndingNone || !ending.Valid() {
		return r
	}

	tip, angle := r.Terminal.Point, r.Terminal.Angle
	var marker geom.Path
	var s Stroke
	switch ending {
	case EndingArrow:
		back := tip.Polar(angle+math.Pi, ArrowLength)
		marker.MoveTo(tip)
		marker.LineTo(back.Polar(angle+math.Pi/2, ArrowWidth/2))
		marker.LineTo(back.Polar(angle-math.Pi/2, ArrowWidth/2))
		marker.Close()
		s = Stroke{Role: RoleMarker, Path: marker, Color: r.Color, Fill: r.Color}
	case EndingTee:
		marker.MoveTo(tip.Polar(angle+math.Pi/2, TeeLength/2))
		marker.LineTo(tip.Polar(angle-math.Pi/2, TeeLength/2))
		s = Stroke{Role: RoleMarker, Path: marker, Width: r.Width, Color: r.Color}
	}

	out := r
	out.Strokes = append(append([]Stroke(nil), r.Strokes...), s)
	return out
}

// Render runs the whole pipeline: Build, ApplyStyle, ApplyEnding.
func Render(points []geom.Point, curve bool, o Options) Renderable {
	o = o.withDefaults()
	return ApplyEnding(ApplyStyle(Build(points, curve), o), o.Ending)
}

// Preview renders an in-progress path with provisional appended as its
// last point. committed is left untouched.
func Preview(committed []geom.Point, provisional geom.Point, curve bool, o Options) Renderable {
	pts := make([]geom.Point, 0, len(committed)+1)
	pts = append(pts, committed...)
	pts = append(pts, provisional)
	return Render(pts, curve, o)
}
