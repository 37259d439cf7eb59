package courtview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drillboard/drillboard/backend-go/internal/editor"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

func TestSetPixelBits(t *testing.T) {
	c := newCanvas(2, 1)
	c.setPixel(0, 0, "#fff")
	c.setPixel(1, 3, "")
	c.setPixel(3, 0, "#000")
	c.setPixel(-1, 0, "#000")
	c.setPixel(4, 0, "#000")

	r, color := c.cell(0, 0)
	if r != rune(0x2800|0x01|0x80) {
		t.Errorf("cell 0 = %U", r)
	}
	if color != "#fff" {
		t.Errorf("cell 0 color = %q", color)
	}
	if r, _ := c.cell(1, 0); r != rune(0x2800|0x08) {
		t.Errorf("cell 1 = %U", r)
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := newCanvas(5, 2)
	c.drawLine(0, 0, 9, 7, "")
	if c.m[0][0]&0x01 == 0 {
		t.Error("start dot not set")
	}
	if c.m[1][4]&0x80 == 0 {
		t.Error("end dot not set")
	}
}

func TestDashedPolylineLeavesGaps(t *testing.T) {
	solid := newCanvas(20, 1)
	solid.drawPolyline([][2]float64{{0, 0}, {39, 0}}, nil, "")
	dashed := newCanvas(20, 1)
	dashed.drawPolyline([][2]float64{{0, 0}, {39, 0}}, []float64{4, 4}, "")

	count := func(c *canvas) int {
		n := 0
		for x := 0; x < c.w; x++ {
			if r, _ := c.cell(x, 0); r != ' ' {
				n++
			}
		}
		return n
	}
	if count(solid) != 20 {
		t.Errorf("solid cells = %d", count(solid))
	}
	if n := count(dashed); n == 0 || n >= 20 {
		t.Errorf("dashed cells = %d", n)
	}
}

func TestTextOverridesDots(t *testing.T) {
	c := newCanvas(4, 1)
	c.setPixel(2, 0, "#111")
	c.putText(1, 0, "12", "#222")
	if r, color := c.cell(1, 0); r != '1' || color != "#222" {
		t.Errorf("cell 1 = %q %q", r, color)
	}
	if r, _ := c.cell(2, 0); r != '2' {
		t.Errorf("cell 2 = %q", r)
	}
}

func newTestModel(t *testing.T, path string) *Model {
	t.Helper()
	provider := symbol.Builtin()
	court, _ := provider.Template("court")
	m, errs := New(Options{Path: path, Provider: provider, Court: court})
	if len(errs) != 0 {
		t.Fatalf("New: %v", errs)
	}
	m.now = func() time.Time { return time.Unix(0, 0) }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestResizeUsesDots(t *testing.T) {
	m := newTestModel(t, "")
	cols, rows := m.canvasSize()
	if cols != 100 || rows != 37 {
		t.Fatalf("canvas = %dx%d", cols, rows)
	}
	w, h := m.ctrl.Viewport().Size()
	if w != 200 || h != 148 {
		t.Errorf("viewport = %vx%v", w, h)
	}
}

func TestPlaceSymbolSavesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drill.json")
	m := newTestModel(t, path)

	m.Update(runes("a"))
	if m.ctrl.State() != editor.StatePlacing {
		t.Fatalf("state = %v", m.ctrl.State())
	}

	_, cmd := m.Update(release(50, 19))
	if got := len(m.ctrl.Scene().Symbols); got != 1 {
		t.Fatalf("symbols = %d", got)
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	msg, ok := cmd().(savedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("save = %#v", msg)
	}
	m.Update(msg)
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q", m.status)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"attacker"`) {
		t.Errorf("saved document = %s", data)
	}
}

func TestDoubleClickFinishesCurve(t *testing.T) {
	m := newTestModel(t, "")

	m.Update(runes("p"))
	m.Update(release(20, 10))
	m.Update(release(60, 25))
	m.Update(release(60, 25))

	if m.ctrl.State() != editor.StateIdle {
		t.Fatalf("state = %v", m.ctrl.State())
	}
	paths := m.ctrl.Scene().Paths
	if len(paths) != 1 {
		t.Fatalf("paths = %d", len(paths))
	}
	if n := len(paths[0].Points); n != 2 {
		t.Errorf("points = %d", n)
	}
}

func TestLeavingCanvasCancelsPlacement(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(runes("c"))
	m.Update(tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 50, Y: 0, Action: tea.MouseActionMotion})
	if m.ctrl.State() != editor.StateIdle {
		t.Errorf("state = %v", m.ctrl.State())
	}
}

func TestBusyErrorShownInStatus(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(runes("l"))
	m.Update(runes("a"))
	if m.err == nil {
		t.Fatal("expected busy error")
	}
	if !strings.Contains(m.View(), "in progress") {
		t.Error("error missing from view")
	}
}

func TestSampleRendersAndQuit(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(runes("S"))
	if len(m.ctrl.Scene().Symbols) == 0 {
		t.Fatal("sample not loaded")
	}

	view := m.View()
	if !strings.Contains(view, "drillboard") {
		t.Error("missing header")
	}
	if lines := strings.Count(view, "\n"); lines < 38 {
		t.Errorf("view lines = %d", lines)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
