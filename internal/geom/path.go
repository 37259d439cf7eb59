package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SegmentOp identifies the kind of a path segment.
type SegmentOp byte

const (
	OpMove  SegmentOp = 'M'
	OpLine  SegmentOp = 'L'
	OpQuad  SegmentOp = 'Q'
	OpCubic SegmentOp = 'C'
	OpClose SegmentOp = 'Z'
)

// Segment is one path instruction. Pts holds the control points followed by
// the end point: one point for M/L, two for Q, three for C, none for Z.
type Segment struct {
	Op  SegmentOp
	Pts []Point
}

// End returns the segment's end point.
func (s Segment) End() Point {
	if len(s.Pts) == 0 {
		return Point{}
	}
	return s.Pts[len(s.Pts)-1]
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], etc.
type PathCommand []interface{}

// Path is an ordered list of segments in logical space.
type Path struct {
	Segments []Segment
}

func (p *Path) MoveTo(pt Point) { p.Segments = append(p.Segments, Segment{OpMove, []Point{pt}}) }
func (p *Path) LineTo(pt Point) { p.Segments = append(p.Segments, Segment{OpLine, []Point{pt}}) }
func (p *Path) QuadTo(c, pt Point) {
	p.Segments = append(p.Segments, Segment{OpQuad, []Point{c, pt}})
}
func (p *Path) CubicTo(c1, c2, pt Point) {
	p.Segments = append(p.Segments, Segment{OpCubic, []Point{c1, c2, pt}})
}
func (p *Path) Close() { p.Segments = append(p.Segments, Segment{Op: OpClose}) }

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	for _, s := range p.Segments {
		if s.Op != OpMove {
			return false
		}
	}
	return true
}

// Start returns the first move-to point.
func (p Path) Start() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[0].End()
}

// End returns the current point after the last segment.
func (p Path) End() Point {
	for i := len(p.Segments) - 1; i >= 0; i-- {
		if p.Segments[i].Op != OpClose {
			return p.Segments[i].End()
		}
	}
	return Point{}
}

// Points returns every point referenced by the path, control points included.
func (p Path) Points() []Point {
	var out []Point
	for _, s := range p.Segments {
		out = append(out, s.Pts...)
	}
	return out
}

// Bounds returns the control-point hull bounds of the path.
func (p Path) Bounds() Rect {
	return RectFromPoints(p.Points()...)
}

// Transform returns a copy of the path with m applied to every point.
func (p Path) Transform(m Matrix2D) Path {
	out := Path{Segments: make([]Segment, len(p.Segments))}
	for i, s := range p.Segments {
		pts := make([]Point, len(s.Pts))
		for j, pt := range s.Pts {
			pts[j] = m.Apply(pt)
		}
		out.Segments[i] = Segment{Op: s.Op, Pts: pts}
	}
	return out
}

// Commands converts the path to the draw-command array form.
func (p Path) Commands() []PathCommand {
	out := make([]PathCommand, 0, len(p.Segments))
	for _, s := range p.Segments {
		cmd := PathCommand{string(s.Op)}
		for _, pt := range s.Pts {
			cmd = append(cmd, round(pt.X), round(pt.Y))
		}
		out = append(out, cmd)
	}
	return out
}

// segmentArity is the number of points each segment op carries.
var segmentArity = map[SegmentOp]int{OpMove: 1, OpLine: 1, OpQuad: 2, OpCubic: 3, OpClose: 0}

// PathFromCommands rebuilds a path from its draw-command form. Numbers
// may be float64 or int, as decoded from JSON or built in Go.
func PathFromCommands(cmds []PathCommand) (Path, error) {
	var p Path
	for i, c := range cmds {
		if len(c) == 0 {
			return Path{}, fmt.Errorf("path command %d: empty", i)
		}
		op, ok := c[0].(string)
		if !ok || len(op) != 1 {
			return Path{}, fmt.Errorf("path command %d: bad op %v", i, c[0])
		}
		n, ok := segmentArity[SegmentOp(op[0])]
		if !ok || len(c) != 1+2*n {
			return Path{}, fmt.Errorf("path command %d: %q with %d numbers", i, op, len(c)-1)
		}
		pts := make([]Point, n)
		for j := range pts {
			x, okx := number(c[1+2*j])
			y, oky := number(c[2+2*j])
			if !okx || !oky {
				return Path{}, fmt.Errorf("path command %d: non-numeric coordinate", i)
			}
			pts[j] = Pt(x, y)
		}
		p.Segments = append(p.Segments, Segment{Op: SegmentOp(op[0]), Pts: pts})
	}
	return p, nil
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// D returns SVG path data, e.g. "M0 0 L10 0".
func (p Path) D() string {
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(s.Op))
		for j, pt := range s.Pts {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(FormatFloat(pt.X))
			b.WriteByte(' ')
			b.WriteString(FormatFloat(pt.Y))
		}
	}
	return b.String()
}

// FormatFloat prints f with at most three decimals and no trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(round(f), 'f', -1, 64)
}

func round(f float64) float64 {
	r := math.Round(f*1000) / 1000
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
