package geom

import (
	"errors"
	"math"
	"testing"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestDistanceToRect(t *testing.T) {
	box := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	cases := []struct {
		p    Point
		want float64
	}{
		{Pt(15, 15), 0},
		{Pt(10, 10), 0},
		{Pt(0, 15), 10},
		{Pt(35, 25), math.Hypot(5, 5)},
		{Pt(20, 0), 10},
	}
	for _, c := range cases {
		if got := DistanceToRect(c.p, box); !near(got, c.want, 1e-9) {
			t.Fatalf("DistanceToRect(%v)=%f want %f", c.p, got, c.want)
		}
	}
}

func TestAngleAndDistance(t *testing.T) {
	if got := Distance(Pt(0, 0), Pt(3, 4)); got != 5 {
		t.Fatalf("distance=%f want 5", got)
	}
	if got := Angle(Pt(0, 0), Pt(0, 1)); !near(got, math.Pi/2, 1e-12) {
		t.Fatalf("angle=%f want π/2", got)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(30, -4).Multiply(RotateDegrees(33)).Multiply(Scale(2.5, 2.5))
	p := Pt(7, 11)
	back := m.Invert().Apply(m.Apply(p))
	if !back.Near(p, 1e-9) {
		t.Fatalf("round trip=%v want %v", back, p)
	}
}

func TestParseTransform(t *testing.T) {
	m, err := ParseTransform("translate(10, 5) scale(2)")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Apply(Pt(1, 1)); !got.Near(Pt(12, 7), 1e-9) {
		t.Fatalf("got %v want (12,7)", got)
	}

	m, err = ParseTransform("rotate(90 10 10)")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Apply(Pt(20, 10)); !got.Near(Pt(10, 20), 1e-9) {
		t.Fatalf("rotate about centre: got %v want (10,20)", got)
	}

	for _, bad := range []string{"wobble(3)", "scale(1 2 3)", "translate(1", "rotate(x)"} {
		if _, err := ParseTransform(bad); !errors.Is(err, ErrBadTransform) {
			t.Fatalf("ParseTransform(%q) err=%v want ErrBadTransform", bad, err)
		}
	}

	m, err = ParseTransform("")
	if err != nil || !m.IsIdentity() {
		t.Fatalf("empty transform: %v %v", m, err)
	}
}

func TestViewportFitAndInverse(t *testing.T) {
	vp := NewViewport(Rect{Width: 1000, Height: 600})
	vp.Measure(500, 500)
	if got := vp.PointFromScreen(250, 250); !got.Near(Pt(250, 250), 1e-9) {
		t.Fatalf("measured size must not apply before Apply: got %v", got)
	}
	if !vp.Apply() {
		t.Fatal("Apply returned false with a pending size")
	}
	if vp.Apply() {
		t.Fatal("second Apply should be a no-op")
	}

	// 500 wide / 1000 logical -> scale 0.5, centred vertically: 600*0.5=300 tall, 100 margin.
	if got := vp.FitScale(); got != 0.5 {
		t.Fatalf("fit scale=%f want 0.5", got)
	}
	p1 := vp.PointFromScreen(250, 250)
	p2 := vp.PointFromScreen(250, 250)
	if p1 != p2 || !p1.Near(Pt(500, 300), 1e-9) {
		t.Fatalf("centre maps to %v/%v want (500,300)", p1, p2)
	}
	if got := vp.PointFromScreen(0, 100); !got.Near(Pt(0, 0), 1e-9) {
		t.Fatalf("top-left of court maps to %v", got)
	}

	vp.SetZoom(2)
	screen := vp.LogicalToScreen().Apply(Pt(123, 456))
	if got := vp.PointFromScreen(screen.X, screen.Y); !got.Near(Pt(123, 456), 1e-9) {
		t.Fatalf("zoomed round trip=%v", got)
	}
}

func TestMeasurerLine(t *testing.T) {
	var p Path
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(10, 0))
	p.LineTo(Pt(10, 10))

	m := NewMeasurer(p)
	if m.Length() != 20 {
		t.Fatalf("length=%f want 20", m.Length())
	}
	pt, a := m.PointAt(15)
	if !pt.Near(Pt(10, 5), 1e-9) || !near(a, math.Pi/2, 1e-9) {
		t.Fatalf("PointAt(15)=%v,%f", pt, a)
	}
	if pt, _ := m.PointAt(99); pt != Pt(10, 10) {
		t.Fatalf("clamped end=%v", pt)
	}
}

func TestMeasurerQuarterCircle(t *testing.T) {
	// Cubic approximation of a quarter circle of radius 100.
	k := 0.5522847498 * 100
	var p Path
	p.MoveTo(Pt(100, 0))
	p.CubicTo(Pt(100, k), Pt(k, 100), Pt(0, 100))

	want := math.Pi * 100 / 2
	if got := NewMeasurer(p).Length(); !near(got, want, 0.1) {
		t.Fatalf("length=%f want ≈%f", got, want)
	}
}

func TestSampleLengthIncludesBothEnds(t *testing.T) {
	var p Path
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(25, 0))

	samples := SampleLength(p, 10)
	if len(samples) != 4 {
		t.Fatalf("got %d samples want 4", len(samples))
	}
	if samples[0].Point != Pt(0, 0) || !samples[3].Point.Near(Pt(25, 0), 1e-9) {
		t.Fatalf("ends=%v %v", samples[0].Point, samples[3].Point)
	}
	for i := 1; i < len(samples); i++ {
		if step := samples[i].Dist - samples[i-1].Dist; !near(step, 25.0/3, 1e-9) {
			t.Fatalf("step %d=%f", i, step)
		}
	}
}

func TestPathD(t *testing.T) {
	var p Path
	p.MoveTo(Pt(0, 0))
	p.QuadTo(Pt(5, 5.25), Pt(10, 0))
	if got := p.D(); got != "M0 0 Q5 5.25 10 0" {
		t.Fatalf("D()=%q", got)
	}
}

func TestPathFromCommands(t *testing.T) {
	var p Path
	p.MoveTo(Pt(0, 0))
	p.CubicTo(Pt(1, 2), Pt(3, 4), Pt(5, 6))
	p.Close()

	got, err := PathFromCommands(p.Commands())
	if err != nil {
		t.Fatal(err)
	}
	if got.D() != p.D() {
		t.Fatalf("got %q want %q", got.D(), p.D())
	}

	for _, bad := range [][]PathCommand{
		{{}},
		{{"X", 1.0, 2.0}},
		{{"L", 1.0}},
		{{"M", "a", 2.0}},
	} {
		if _, err := PathFromCommands(bad); err == nil {
			t.Fatalf("%v: expected error", bad)
		}
	}
}

func TestMatrixFromSlice(t *testing.T) {
	m := Translate(3, 4).Multiply(Scale(2, 2))
	got, ok := MatrixFromSlice(m.ToSlice())
	if !ok || got != m {
		t.Fatalf("got %v, %v", got, ok)
	}
	if _, ok := MatrixFromSlice([]float64{1, 2}); ok {
		t.Fatal("short slice accepted")
	}
}
