package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

func testScene() *diagram.Scene {
	s := diagram.NewScene(diagram.DefaultViewBox)
	s.AddSymbol(&diagram.Symbol{ID: "sym_1", TemplateID: "defender", Kind: symbol.KindDefender, X: 10, Y: 10, Label: "4"})
	s.AddSymbol(&diagram.Symbol{ID: "sym_2", TemplateID: "missing", Kind: symbol.KindCone, X: 50, Y: 50})
	s.AddPath(&diagram.Path{
		ID:     "path_1",
		Points: []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
		Style:  shape.StyleDouble,
		Ending: shape.EndingArrow,
	})
	return s
}

func TestCompilePainterOrder(t *testing.T) {
	builtin := symbol.Builtin()
	court, _ := builtin.Template("court")
	cmds := Compile(testScene(), builtin, Overlay{Court: court, Selected: "sym_1"})

	var ops []string
	for _, c := range cmds {
		ops = append(ops, c.Op+":"+c.Role)
	}
	want := []string{
		"court:",
		"path:offset", "path:offset", "path:marker",
		"symbol:", "text:",
		"path:highlight",
	}
	if strings.Join(ops, " ") != strings.Join(want, " ") {
		t.Fatalf("ops:\ngot  %v\nwant %v", ops, want)
	}

	label := cmds[5]
	if label.Text != "4" || label.Fill != symbol.LabelOnFill {
		t.Fatalf("defender label: got %+v", label)
	}
	if sym := cmds[4]; sym.Fill != symbol.DefaultColor || sym.ObjectID != "sym_1" {
		t.Fatalf("defender body: got %+v", sym)
	}
}

func TestCompileOverlayPreview(t *testing.T) {
	s := diagram.NewScene(diagram.DefaultViewBox)
	preview := shape.Preview([]geom.Point{{X: 0, Y: 0}}, geom.Pt(30, 40), false, shape.Options{})
	cmds := Compile(s, symbol.Builtin(), Overlay{
		PreviewSymbol: &diagram.Symbol{TemplateID: "attacker", Kind: symbol.KindAttacker, X: 1, Y: 1, Label: "1"},
		PreviewPath:   &preview,
	})
	if len(cmds) != 3 {
		t.Fatalf("got %d commands want 3", len(cmds))
	}
	for _, c := range cmds {
		if c.Role != RolePreview || c.Opacity != PreviewOpacity {
			t.Fatalf("preview command not marked: %+v", c)
		}
	}
}

func TestCourtMatrixFitsViewBox(t *testing.T) {
	court := &symbol.Template{ID: "half", Kind: symbol.KindCourt, ViewBox: geom.Rect{Width: 500, Height: 300}}
	m := CourtMatrix(court, diagram.DefaultViewBox)
	if got := m.Apply(geom.Pt(500, 300)); got != geom.Pt(1000, 600) {
		t.Fatalf("corner: got %+v", got)
	}
}

func TestToJSONEmpty(t *testing.T) {
	got, err := ToJSON(nil)
	if err != nil || got != "[]" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestWriteSVG(t *testing.T) {
	builtin := symbol.Builtin()
	court, _ := builtin.Template("court")

	var buf bytes.Buffer
	if err := WriteSVG(&buf, testScene(), builtin, court); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`viewBox="0 0 1000 600"`,
		`id="path_1"`,
		`id="sym_1"`,
		`stroke-width:1.5`,
		`>4</text>`,
		`fill="#f3e7d3"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sym_2") {
		t.Fatalf("unresolved symbol was drawn")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSVGReportsWriteError(t *testing.T) {
	err := WriteSVG(failWriter{}, diagram.NewScene(diagram.DefaultViewBox), symbol.Builtin(), nil)
	if err == nil {
		t.Fatalf("write error swallowed")
	}
}

func TestWriteTemplateLoadsBack(t *testing.T) {
	cone, _ := symbol.Builtin().Template("cone")

	var buf bytes.Buffer
	if err := WriteTemplate(&buf, cone); err != nil {
		t.Fatal(err)
	}
	got, err := symbol.ParseTemplate("cone", &buf)
	if err != nil {
		t.Fatalf("parse written template: %v", err)
	}
	if got.Kind != symbol.KindCone || got.ViewBox != cone.ViewBox {
		t.Fatalf("got %+v want kind %q view box %+v", got, cone.Kind, cone.ViewBox)
	}
	if !strings.Contains(got.Body, `d="M15 2 L28 28 H2 Z"`) {
		t.Fatalf("body lost: %q", got.Body)
	}
}
