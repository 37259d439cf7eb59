package editor

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/render"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// With no measured surface the viewport maps the default 1000x600 view
// box 1:1, so screen and logical coordinates coincide in these tests.

type harness struct {
	t       *testing.T
	c       *Controller
	commits [][]byte
}

func newHarness(t *testing.T, doc string) *harness {
	t.Helper()
	h := &harness{t: t}
	c, errs := New([]byte(doc), Options{
		Provider: symbol.Builtin(),
		OnCommit: func(b []byte) { h.commits = append(h.commits, b) },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if len(errs) != 0 {
		t.Fatalf("mount: %v", errs)
	}
	h.c = c
	return h
}

func (h *harness) send(events ...Event) {
	h.t.Helper()
	for _, ev := range events {
		if err := h.c.Dispatch(ev); err != nil {
			h.t.Fatalf("dispatch %s: %v", ev.Type(), err)
		}
	}
}

// place adds a symbol of kind centred on (x, y).
func (h *harness) place(kind symbol.Kind, x, y float64) *diagram.Symbol {
	h.t.Helper()
	h.send(AddSymbol{Kind: kind}, PointerMove{x, y}, Click{x, y})
	syms := h.c.Scene().Symbols
	return syms[len(syms)-1]
}

func (h *harness) wantState(s State) {
	h.t.Helper()
	if got := h.c.State(); got != s {
		h.t.Fatalf("state: got %s want %s", got, s)
	}
}

// symbolSize is the logical side of a 40x40 builtin template on a court
// 600 units tall.
const symbolSize = symbol.SymbolHeightRatio * 600

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// at reports whether sym's anchor is at (x, y).
func at(sym *diagram.Symbol, x, y float64) bool { return near(sym.X, x) && near(sym.Y, y) }

func TestScenarioAFirstAttackerIsOne(t *testing.T) {
	h := newHarness(t, "")
	sym := h.place(symbol.KindAttacker, 100, 100)

	h.wantState(StateIdle)
	if sym.Label != "1" {
		t.Fatalf("label: got %q want 1", sym.Label)
	}
	if !at(sym, 100-symbolSize/2, 100-symbolSize/2) {
		t.Fatalf("position: got (%v,%v)", sym.X, sym.Y)
	}
	if len(h.commits) != 1 {
		t.Fatalf("commits: got %d want 1", len(h.commits))
	}
}

func TestScenarioBDeletedNumberIsReused(t *testing.T) {
	h := newHarness(t, "")
	first := h.place(symbol.KindAttacker, 100, 100)
	second := h.place(symbol.KindAttacker, 300, 300)
	if first.Label != "1" || second.Label != "2" {
		t.Fatalf("labels: got %q %q", first.Label, second.Label)
	}

	h.send(Click{100, 100})
	if h.c.Selection().Symbol != first.ID {
		t.Fatalf("selection: got %+v want %s", h.c.Selection(), first.ID)
	}
	h.send(DeleteSelected{})

	third := h.place(symbol.KindAttacker, 500, 300)
	if third.Label != "1" {
		t.Fatalf("third label: got %q want 1", third.Label)
	}
}

func TestScenarioCStraightPathAutoFinalizes(t *testing.T) {
	h := newHarness(t, "")
	h.send(StartPath{Curve: false}, Click{0, 0})
	h.wantState(StateDrawing)
	h.send(Click{10, 0})
	h.wantState(StateIdle)

	paths := h.c.Scene().Paths
	if len(paths) != 1 {
		t.Fatalf("paths: got %d want 1", len(paths))
	}
	p := paths[0]
	if p.Curve || len(p.Points) != 2 || p.Points[0] != geom.Pt(0, 0) || p.Points[1] != geom.Pt(10, 0) {
		t.Fatalf("path: got %+v", p)
	}
	if len(h.commits) != 1 {
		t.Fatalf("commits: got %d want 1", len(h.commits))
	}
}

func TestScenarioDCurveFinalizesOnDoubleClick(t *testing.T) {
	h := newHarness(t, "")
	h.send(
		StartPath{Curve: true},
		Click{10, 10}, Click{50, 80}, Click{120, 30},
		Click{200, 90}, Click{200, 90}, DoubleClick{200, 90},
	)
	h.wantState(StateIdle)

	p := h.c.Scene().Paths[0]
	if !p.Curve || len(p.Points) != 4 {
		t.Fatalf("path: curve=%v points=%v", p.Curve, p.Points)
	}
	segs := p.Shape().Segments
	if segs[0].Op != geom.OpMove || segs[0].Pts[0] != geom.Pt(10, 10) {
		t.Fatalf("first segment: got %+v", segs[0])
	}
	hasCubic := false
	for _, s := range segs[1:] {
		hasCubic = hasCubic || s.Op == geom.OpCubic
	}
	if !hasCubic {
		t.Fatalf("no cubic segment in %+v", segs)
	}
}

func TestDegenerateCurveIsDiscarded(t *testing.T) {
	h := newHarness(t, "")
	h.send(StartPath{Curve: true}, Click{10, 10}, Click{10, 10}, DoubleClick{10, 10})
	h.wantState(StateIdle)
	if len(h.c.Scene().Paths) != 0 || len(h.commits) != 0 {
		t.Fatalf("degenerate path was kept")
	}
}

func TestEscapeDiscardsPath(t *testing.T) {
	h := newHarness(t, "")
	h.send(StartPath{Curve: true}, Click{10, 10}, Click{20, 20}, PointerMove{30, 30}, Key{"Escape"})
	h.wantState(StateIdle)
	if len(h.c.Scene().Paths) != 0 {
		t.Fatalf("path survived escape")
	}
}

func TestDrawingPreviewLeavesPointsAlone(t *testing.T) {
	h := newHarness(t, "")
	h.send(StartPath{Curve: true}, Click{10, 10}, PointerMove{40, 40})
	frame := h.c.Render()
	previews := 0
	for _, cmd := range frame.Commands {
		if cmd.Role == render.RolePreview {
			previews++
		}
	}
	if previews == 0 {
		t.Fatalf("no preview drawn")
	}
	if n := len(h.c.drawing.path.Points); n != 1 {
		t.Fatalf("committed points: got %d want 1", n)
	}
}

func TestMutualExclusion(t *testing.T) {
	h := newHarness(t, "")
	h.send(AddSymbol{Kind: symbol.KindCone})
	if err := h.c.Dispatch(StartPath{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("start path while placing: got %v want ErrBusy", err)
	}
	h.wantState(StatePlacing)
	h.send(Cancel{})

	h.send(StartPath{})
	if err := h.c.Dispatch(AddSymbol{Kind: symbol.KindCone}); !errors.Is(err, ErrBusy) {
		t.Fatalf("add symbol while drawing: got %v want ErrBusy", err)
	}
	h.wantState(StateDrawing)
}

func TestCancelPlacingReleasesNumber(t *testing.T) {
	h := newHarness(t, "")
	pool := h.c.Scene().Pool(symbol.KindDefender)

	h.send(AddSymbol{Kind: symbol.KindDefender}, PointerMove{200, 200})
	if !pool.Contains(1) {
		t.Fatalf("number not reserved while placing")
	}
	h.send(Key{"Escape"})
	h.wantState(StateIdle)
	if pool.Len() != 0 {
		t.Fatalf("number not released: %v", pool.Numbers())
	}

	h.send(AddSymbol{Kind: symbol.KindDefender}, PointerLeave{})
	h.wantState(StateIdle)
	if pool.Len() != 0 || len(h.c.Scene().Symbols) != 0 {
		t.Fatalf("pointer leave did not cancel")
	}
}

func TestPlacementRejectsOutOfBounds(t *testing.T) {
	h := newHarness(t, "")
	h.send(AddSymbol{Kind: symbol.KindCone}, PointerMove{5, 5}, Click{5, 5})
	h.wantState(StatePlacing)

	h.send(PointerMove{500, 300}, PointerMove{999, 599}, Click{999, 599})
	h.wantState(StateIdle)
	sym := h.c.Scene().Symbols[0]
	if want := 500 - symbolSize/2; !near(sym.X, want) {
		t.Fatalf("x: got %v want %v", sym.X, want)
	}
}

func TestDragMovesWithinCourt(t *testing.T) {
	h := newHarness(t, "")
	sym := h.place(symbol.KindAttacker, 100, 100)
	h.commits = nil

	h.send(PointerDown{100, 100})
	h.wantState(StateDragging)
	h.send(PointerMove{200, 150}, PointerMove{995, 595}, PointerUp{995, 595})
	h.wantState(StateIdle)

	if !at(sym, 200-symbolSize/2, 150-symbolSize/2) {
		t.Fatalf("position: got (%v,%v)", sym.X, sym.Y)
	}
	if len(h.commits) != 1 {
		t.Fatalf("commits: got %d want 1", len(h.commits))
	}

	// The click that ends a drag must not change the selection.
	h.send(Click{995, 595})
	if h.c.Selection().Symbol != sym.ID {
		t.Fatalf("selection after drag: got %+v", h.c.Selection())
	}
}

func TestPressWithoutMoveSelects(t *testing.T) {
	h := newHarness(t, "")
	sym := h.place(symbol.KindCoach, 100, 100)
	h.commits = nil

	h.send(PointerDown{100, 100}, PointerUp{100, 100}, Click{100, 100})
	if h.c.Selection().Symbol != sym.ID || len(h.commits) != 0 {
		t.Fatalf("selection %+v commits %d", h.c.Selection(), len(h.commits))
	}
}

func TestEscapeRestoresDraggedSymbol(t *testing.T) {
	h := newHarness(t, "")
	sym := h.place(symbol.KindBall, 100, 100)
	x, y := sym.X, sym.Y
	h.send(PointerDown{100, 100}, PointerMove{300, 300}, Key{"Escape"})
	h.wantState(StateIdle)
	if sym.X != x || sym.Y != y {
		t.Fatalf("position not restored")
	}
}

func TestSelectionTolerance(t *testing.T) {
	h := newHarness(t, "")
	h.send(StartPath{}, Click{100, 300}, Click{300, 300})
	id := h.c.Scene().Paths[0].ID

	h.send(Click{200, 305})
	if h.c.Selection().Path != id {
		t.Fatalf("exact stroke hit missed")
	}
	h.send(Key{"Escape"})
	if !h.c.Selection().Empty() {
		t.Fatalf("escape kept selection")
	}

	h.send(Click{200, 312})
	if h.c.Selection().Path != id {
		t.Fatalf("near hit missed")
	}
	h.send(Click{200, 400})
	if !h.c.Selection().Empty() {
		t.Fatalf("click elsewhere kept selection")
	}
}

func TestRecolor(t *testing.T) {
	h := newHarness(t, "")
	if err := h.c.Dispatch(RecolorSelected{Color: "#ff0000"}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("no selection: got %v", err)
	}

	def := h.place(symbol.KindDefender, 100, 100)
	h.send(Click{100, 100})
	if err := h.c.Dispatch(RecolorSelected{Color: "red"}); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("bad colour: got %v", err)
	}
	h.send(RecolorSelected{Color: "#ff0000"})
	if def.Fill != "#ff0000" || def.Stroke != "#ff0000" {
		t.Fatalf("defender colours: fill %q stroke %q", def.Fill, def.Stroke)
	}

	att := h.place(symbol.KindAttacker, 300, 300)
	h.send(Click{300, 300}, RecolorSelected{Color: "#00ff00"})
	if att.Fill != "" || att.Stroke != "#00ff00" {
		t.Fatalf("attacker colours: fill %q stroke %q", att.Fill, att.Stroke)
	}
}

func TestDeleteKey(t *testing.T) {
	h := newHarness(t, "")
	h.send(StartPath{}, Click{100, 300}, Click{300, 300})
	h.send(Key{"Delete"})
	if len(h.c.Scene().Paths) != 1 {
		t.Fatalf("delete without selection removed something")
	}
	h.send(Click{200, 300}, Key{"Delete"})
	if len(h.c.Scene().Paths) != 0 {
		t.Fatalf("selected path not deleted")
	}
	if err := h.c.Dispatch(DeleteSelected{}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("got %v want ErrNoSelection", err)
	}
}

func TestResizeKeepsLogicalCoordinates(t *testing.T) {
	h := newHarness(t, "")
	sym := h.place(symbol.KindCone, 100, 100)
	x, y := sym.X, sym.Y

	h.send(Resize{2000, 1200})
	frame := h.c.Render()
	if frame.Transform[0] != 2 {
		t.Fatalf("scale after resize: got %v want 2", frame.Transform[0])
	}
	if sym.X != x || sym.Y != y {
		t.Fatalf("resize rewrote logical coordinates")
	}

	h.send(Click{200, 200})
	if h.c.Selection().Symbol != sym.ID {
		t.Fatalf("screen click did not map to logical symbol")
	}
}

func TestPointerAfterResizeUsesNewSize(t *testing.T) {
	h := newHarness(t, "")
	h.send(Resize{2000, 1200}, AddSymbol{Kind: symbol.KindCone}, Click{1000, 600})

	h.wantState(StateIdle)
	syms := h.c.Scene().Symbols
	if len(syms) != 1 {
		t.Fatalf("symbols: got %d want 1", len(syms))
	}
	if !at(syms[0], 500-symbolSize/2, 300-symbolSize/2) {
		t.Fatalf("cone at (%v, %v), want centred on (500, 300)", syms[0].X, syms[0].Y)
	}
}

func TestCourtViewBoxWins(t *testing.T) {
	court := &symbol.Template{ID: "half", Kind: symbol.KindCourt, ViewBox: geom.Rect{Width: 500, Height: 300}}
	c, _ := New([]byte(`{"viewBox":{"x":0,"y":0,"width":10,"height":10}}`), Options{Court: court})
	if c.Scene().ViewBox != court.ViewBox {
		t.Fatalf("view box: got %+v", c.Scene().ViewBox)
	}
}

func TestViewerRendersLoadedDocument(t *testing.T) {
	data, err := diagram.Serialize(diagram.NewSampleScene())
	if err != nil {
		t.Fatal(err)
	}
	v, errs := NewViewer(data, Options{Provider: symbol.Builtin()})
	if len(errs) != 0 {
		t.Fatalf("mount: %v", errs)
	}
	if n := len(v.Render().Commands); n == 0 {
		t.Fatalf("viewer drew nothing")
	}

	v.Load(nil)
	if n := len(v.Render().Commands); n != 0 {
		t.Fatalf("empty document drew %d commands", n)
	}
}

func TestDecodeEvent(t *testing.T) {
	cases := []struct {
		in   string
		want Event
	}{
		{`{"type":"click","x":3,"y":4}`, Click{3, 4}},
		{`{"type":"addSymbol","kind":"cone"}`, AddSymbol{Kind: symbol.KindCone}},
		{`{"type":"startPath","curve":true,"style":"wavy"}`, StartPath{Curve: true, Style: "wavy"}},
		{`{"type":"key","name":"Escape"}`, Key{"Escape"}},
		{`{"type":"resize","w":800,"h":480}`, Resize{800, 480}},
		{`{"type":"deleteSelected"}`, DeleteSelected{}},
		{`{"type":"recolorSelected","color":"#abc"}`, RecolorSelected{Color: "#abc"}},
		{`{"type":"doubleClick","x":1,"y":1}`, DoubleClick{1, 1}},
	}
	for _, tc := range cases {
		got, err := DecodeEvent([]byte(tc.in))
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %#v want %#v", tc.in, got, tc.want)
		}
	}

	if _, err := DecodeEvent([]byte(`{"type":"teleport"}`)); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("unknown event: got %v", err)
	}
}
