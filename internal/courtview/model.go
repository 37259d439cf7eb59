// Package courtview is a terminal front-end for the diagram editor. It
// rasterizes editor frames onto a braille canvas and turns mouse and key
// input into editor events.
package courtview

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drillboard/drillboard/backend-go/internal/editor"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// doubleClickWindow is the longest gap between two releases on the same
// cell that still counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

const headerHeight = 1

var (
	styles  = []shape.Style{shape.StyleSolid, shape.StyleDashed, shape.StyleDouble, shape.StyleWavy}
	endings = []shape.Ending{shape.EndingArrow, shape.EndingNone, shape.EndingTee}
)

type Options struct {
	// Path is the document file. Commits are written back to it when set.
	Path string

	// Doc is the initial serialized document.
	Doc []byte

	Provider symbol.Provider
	Court    *symbol.Template
}

type Model struct {
	ctrl     *editor.Controller
	provider symbol.Provider
	keys     keyMap
	help     help.Model

	width  int
	height int

	path    string
	pending []byte // committed but not yet written

	styleIdx  int
	endingIdx int
	colorIdx  int

	status string
	err    error

	// pointer tracking, in dots
	inside    bool
	pointer   [2]float64
	lastClick time.Time
	lastCell  [2]int
	now       func() time.Time
}

type savedMsg struct {
	path string
	err  error
}

// New mounts an editor on opts.Doc. Skipped elements are returned.
func New(opts Options) (*Model, []error) {
	if opts.Provider == nil {
		opts.Provider = symbol.Builtin()
	}
	m := &Model{
		provider: opts.Provider,
		keys:     defaultKeys(),
		help:     help.New(),
		path:     opts.Path,
		status:   "drillboard ready",
		now:      time.Now,
	}
	var errs []error
	m.ctrl, errs = editor.New(opts.Doc, editor.Options{
		Provider: opts.Provider,
		Court:    opts.Court,
		OnCommit: func(doc []byte) { m.pending = doc },
	})
	if len(errs) > 0 {
		m.status = fmt.Sprintf("loaded with %d skipped elements", len(errs))
	}
	return m, errs
}

func (m *Model) Controller() *editor.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("save %s: %w", msg.path, msg.err)
		} else {
			m.status = "saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, m.flush()
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, k.Attacker):
		m.dispatch(editor.AddSymbol{Kind: symbol.KindAttacker})
	case key.Matches(msg, k.Defender):
		m.dispatch(editor.AddSymbol{Kind: symbol.KindDefender})
	case key.Matches(msg, k.Ball):
		m.dispatch(editor.AddSymbol{Kind: symbol.KindBall})
	case key.Matches(msg, k.Cone):
		m.dispatch(editor.AddSymbol{Kind: symbol.KindCone})
	case key.Matches(msg, k.Coach):
		m.dispatch(editor.AddSymbol{Kind: symbol.KindCoach})
	case key.Matches(msg, k.Line):
		m.dispatch(editor.StartPath{Style: styles[m.styleIdx], Ending: endings[m.endingIdx]})
	case key.Matches(msg, k.Curve):
		m.dispatch(editor.StartPath{Curve: true, Style: styles[m.styleIdx], Ending: endings[m.endingIdx]})
	case key.Matches(msg, k.Style):
		m.styleIdx = (m.styleIdx + 1) % len(styles)
		m.status = "style " + string(styles[m.styleIdx])
	case key.Matches(msg, k.Ending):
		m.endingIdx = (m.endingIdx + 1) % len(endings)
		m.status = "ending " + string(endings[m.endingIdx])
	case key.Matches(msg, k.Finish):
		m.dispatch(editor.DoubleClick{X: m.pointer[0], Y: m.pointer[1]})
	case key.Matches(msg, k.Recolor):
		color := palette[m.colorIdx]
		if m.dispatch(editor.RecolorSelected{Color: color}) {
			m.colorIdx = (m.colorIdx + 1) % len(palette)
		}
	case key.Matches(msg, k.Delete):
		m.dispatch(editor.DeleteSelected{})
	case key.Matches(msg, k.Cancel):
		m.dispatch(editor.Key{Name: "Escape"})
	case key.Matches(msg, k.Sample):
		m.ctrl.LoadSample()
		if doc, err := m.ctrl.Document(); err == nil {
			m.pending = doc
		}
		m.status = "sample drill loaded"
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.canvasSize()
	cx, cy := msg.X, msg.Y-headerHeight
	if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
		if m.inside {
			m.inside = false
			m.dispatch(editor.PointerLeave{})
		}
		return
	}
	m.inside = true
	x, y := float64(cx*2+1), float64(cy*4+2)
	m.pointer = [2]float64{x, y}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.dispatch(editor.PointerMove{X: x, Y: y})
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dispatch(editor.PointerDown{X: x, Y: y})
		}
	case tea.MouseActionRelease:
		m.dispatch(editor.PointerUp{X: x, Y: y})
		m.dispatch(editor.Click{X: x, Y: y})

		now := m.now()
		cell := [2]int{cx, cy}
		if cell == m.lastCell && now.Sub(m.lastClick) <= doubleClickWindow {
			m.dispatch(editor.DoubleClick{X: x, Y: y})
			m.lastClick = time.Time{}
			return
		}
		m.lastClick, m.lastCell = now, cell
	}
}

// dispatch forwards ev and records the outcome in the status line.
func (m *Model) dispatch(ev editor.Event) bool {
	if err := m.ctrl.Dispatch(ev); err != nil {
		m.err = err
		return false
	}
	m.err = nil
	if ev.Type() != editor.EventPointerMove {
		m.status = m.ctrl.State().String()
	}
	return true
}

// flush writes a pending commit to the document file.
func (m *Model) flush() tea.Cmd {
	doc := m.pending
	m.pending = nil
	if doc == nil || m.path == "" {
		return nil
	}
	path := m.path
	return func() tea.Msg {
		return savedMsg{path: path, err: os.WriteFile(path, doc, 0o644)}
	}
}

func (m *Model) footerHeight() int {
	return 1 + strings.Count(m.help.View(m.keys), "\n") + 1
}

// canvasSize returns the drawing area in cells.
func (m *Model) canvasSize() (int, int) {
	return max(1, m.width), max(1, m.height-headerHeight-m.footerHeight())
}

func (m *Model) resize() {
	cols, rows := m.canvasSize()
	m.ctrl.Dispatch(editor.Resize{W: float64(cols * 2), H: float64(rows * 4)})
	m.ctrl.Viewport().Apply()
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	cols, rows := m.canvasSize()

	header := titleStyle.Render(" drillboard ") + dimStyle.Render(fmt.Sprintf(
		"─ %s · style %s · ending %s", m.ctrl.State(), styles[m.styleIdx], endings[m.endingIdx]))

	c := newCanvas(cols, rows)
	rasterize(c, m.ctrl.Render(), m.provider)

	status := statusStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	writeCanvas(&b, c)
	b.WriteString(status)
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// writeCanvas renders c row by row, colouring runs of equal colour.
func writeCanvas(b *strings.Builder, c *canvas) {
	for y := 0; y < c.h; y++ {
		var run []rune
		runColor := ""
		emit := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			r, color := c.cell(x, y)
			if color != runColor {
				emit()
				runColor = color
			}
			run = append(run, r)
		}
		emit()
		b.WriteByte('\n')
	}
}
