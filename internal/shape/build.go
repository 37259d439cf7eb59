package shape

import "github.com/drillboard/drillboard/backend-go/internal/geom"

// Build constructs the path shape for an ordered point list.
//
// With curve set, three points form one quadratic (start, control, end) and
// four or more form a chain of cubics that consumes three points per
// segment after the start; one or two trailing points close the chain with
// a line or a quadratic. Two points always give a straight segment. Fewer
// than two points give an empty path.
func Build(points []geom.Point, curve bool) geom.Path {
	var p geom.Path
	if len(points) < 2 {
		return p
	}

	p.MoveTo(points[0])
	if !curve || len(points) == 2 {
		for _, pt := range points[1:] {
			p.LineTo(pt)
		}
		return p
	}

	rest := points[1:]
	if len(rest) == 2 {
		p.QuadTo(rest[0], rest[1])
		return p
	}
	for len(rest) >= 3 {
		p.CubicTo(rest[0], rest[1], rest[2])
		rest = rest[3:]
	}
	switch len(rest) {
	case 1:
		p.LineTo(rest[0])
	case 2:
		p.QuadTo(rest[0], rest[1])
	}
	return p
}
