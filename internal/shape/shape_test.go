package shape

import (
	"math"
	"reflect"
	"testing"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
)

func pts(xy ...float64) []geom.Point {
	out := make([]geom.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geom.Pt(xy[i], xy[i+1]))
	}
	return out
}

func ops(p geom.Path) string {
	b := make([]byte, len(p.Segments))
	for i, s := range p.Segments {
		b[i] = byte(s.Op)
	}
	return string(b)
}

func TestBuildDegenerate(t *testing.T) {
	if p := Build(nil, true); len(p.Segments) != 0 {
		t.Fatalf("no points: %v", p)
	}
	if p := Build(pts(1, 1), false); len(p.Segments) != 0 {
		t.Fatalf("one point: %v", p)
	}
}

func TestBuildCurveWithTwoPointsIsStraight(t *testing.T) {
	two := pts(0, 0, 10, 0)
	if !reflect.DeepEqual(Build(two, true), Build(two, false)) {
		t.Fatalf("curve=%v straight=%v", Build(two, true).D(), Build(two, false).D())
	}
}

func TestBuildSegmentPattern(t *testing.T) {
	cases := []struct {
		n     int
		curve bool
		want  string
	}{
		{3, false, "MLL"},
		{3, true, "MQ"},
		{4, true, "MC"},
		{5, true, "MCL"},
		{6, true, "MCQ"},
		{7, true, "MCC"},
		{8, true, "MCCL"},
		{9, true, "MCCQ"},
	}
	for _, c := range cases {
		in := make([]geom.Point, c.n)
		for i := range in {
			in[i] = geom.Pt(float64(i*10), float64(i%2*10))
		}
		p := Build(in, c.curve)
		if got := ops(p); got != c.want {
			t.Fatalf("n=%d curve=%v: ops=%s want %s", c.n, c.curve, got, c.want)
		}
		// Every input point is consumed in order, none dropped.
		if got := p.Points(); !reflect.DeepEqual(got, in) {
			t.Fatalf("n=%d: points=%v want %v", c.n, got, in)
		}
	}
}

func TestDoubleStrokeOffsets(t *testing.T) {
	base := Build(pts(0, 0, 40, 30, 80, 0, 120, 20), true)
	r := ApplyStyle(base, Options{Style: StyleDouble, Width: 4})
	if len(r.Strokes) != 2 {
		t.Fatalf("got %d strokes want 2", len(r.Strokes))
	}

	samples := geom.SampleLength(base, OffsetStep)
	for _, s := range r.Strokes {
		if s.Role != RoleOffset || s.Width != 2 {
			t.Fatalf("stroke role=%s width=%f", s.Role, s.Width)
		}
		line := s.Path.Points()
		for i := range line {
			if i >= len(samples) {
				break
			}
			if d := geom.Distance(line[i], samples[i].Point); math.Abs(d-4) > 1e-9 {
				t.Fatalf("offset point %d at distance %f want 4", i, d)
			}
		}
	}
}

func TestDoubleStrokeTrimmedForEnding(t *testing.T) {
	base := Build(pts(0, 0, 100, 0), false)
	r := ApplyEnding(ApplyStyle(base, Options{Style: StyleDouble, Width: 3, Ending: EndingArrow}), EndingArrow)

	if len(r.Strokes) != 3 {
		t.Fatalf("got %d strokes want 3", len(r.Strokes))
	}
	for _, s := range r.Strokes[:2] {
		if end := s.Path.End(); math.Abs(end.X-(100-MarkerLength)) > 1e-9 {
			t.Fatalf("offset ends at x=%f want %f", end.X, 100-MarkerLength)
		}
	}
	marker := r.Strokes[2]
	if marker.Role != RoleMarker || marker.Path.Start() != geom.Pt(100, 0) {
		t.Fatalf("marker role=%s tip=%v", marker.Role, marker.Path.Start())
	}

	untrimmed := ApplyStyle(base, Options{Style: StyleDouble, Width: 3})
	if end := untrimmed.Strokes[0].Path.End(); math.Abs(end.X-100) > 1e-9 {
		t.Fatalf("no ending should not trim: end=%v", end)
	}
}

func TestWavyFlatEnds(t *testing.T) {
	base := Build(pts(0, 0, 200, 0), false)
	r := ApplyStyle(base, Options{Style: StyleWavy})
	line := r.Strokes[0].Path.Points()

	if line[0] != geom.Pt(0, 0) || !line[len(line)-1].Near(geom.Pt(200, 0), 1e-9) {
		t.Fatalf("wave ends moved: %v %v", line[0], line[len(line)-1])
	}
	var peak float64
	for _, p := range line {
		if p.X <= WaveLength || p.X >= 200-WaveLength {
			if math.Abs(p.Y) > 1e-9 {
				t.Fatalf("displacement %f inside flat zone at x=%f", p.Y, p.X)
			}
		}
		peak = math.Max(peak, math.Abs(p.Y))
	}
	// Sampling may miss the exact crest.
	if peak > WaveAmplitude+1e-9 || peak < 0.9*WaveAmplitude {
		t.Fatalf("peak=%f want ≈%f", peak, WaveAmplitude)
	}
}

func TestWaveOffsetShortPathIsFlat(t *testing.T) {
	for d := 0.0; d <= 40; d++ {
		if off := WaveOffset(d, 40); off != 0 {
			t.Fatalf("offset %f at %f on a short path", off, d)
		}
	}
}

func TestEndingsOrientation(t *testing.T) {
	r := Render(pts(0, 0, 0, 50), false, Options{Ending: EndingTee, Width: 2})
	tee := r.Strokes[len(r.Strokes)-1]
	a, b := tee.Path.Start(), tee.Path.End()
	if math.Abs(a.Y-50) > 1e-9 || math.Abs(b.Y-50) > 1e-9 || math.Abs(geom.Distance(a, b)-TeeLength) > 1e-9 {
		t.Fatalf("tee %v-%v not perpendicular at the end", a, b)
	}

	none := Render(pts(0, 0, 0, 50), false, Options{Ending: EndingNone})
	if len(none.Strokes) != 1 {
		t.Fatalf("ending none added %d strokes", len(none.Strokes)-1)
	}
}

func TestDashedKeepsShape(t *testing.T) {
	base := Build(pts(0, 0, 10, 0), false)
	r := ApplyStyle(base, Options{Style: StyleDashed})
	if len(r.Strokes) != 1 || !reflect.DeepEqual(r.Strokes[0].Path, base) {
		t.Fatalf("dashed changed the path")
	}
	if !reflect.DeepEqual(r.Strokes[0].Dash, []float64{DashLength, DashGap}) {
		t.Fatalf("dash=%v", r.Strokes[0].Dash)
	}
}

func TestPreviewDoesNotMutateCommitted(t *testing.T) {
	committed := make([]geom.Point, 2, 8)
	committed[0], committed[1] = geom.Pt(0, 0), geom.Pt(10, 10)

	r := Preview(committed, geom.Pt(20, 0), true, Options{})
	if got := ops(r.Base); got != "MQ" {
		t.Fatalf("preview ops=%s want MQ", got)
	}
	if len(committed) != 2 || committed[:3][2] != (geom.Point{}) {
		t.Fatalf("committed points were modified: %v", committed[:3])
	}
}
