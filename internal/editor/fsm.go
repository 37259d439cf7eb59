package editor

import (
	"fmt"
	"strconv"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

type handler func(c *Controller, ev Event) error

// transitions is keyed by state, then event type. An event missing from
// the current state's row is ignored. Events in anyState apply in every
// state unless the state's row overrides them.
var transitions = map[State]map[EventType]handler{
	StateIdle: {
		EventAddSymbol:       (*Controller).startPlacing,
		EventStartPath:       (*Controller).startDrawing,
		EventDeleteSelected:  (*Controller).deleteSelected,
		EventRecolorSelected: (*Controller).recolorSelected,
		EventCancel:          (*Controller).clearSelection,
		EventPointerDown:     (*Controller).startDragging,
		EventClick:           (*Controller).selectAt,
		EventKey:             (*Controller).idleKey,
	},
	StatePlacing: {
		EventAddSymbol:       busy,
		EventStartPath:       busy,
		EventDeleteSelected:  busy,
		EventRecolorSelected: busy,
		EventCancel:          (*Controller).cancelPlacing,
		EventPointerLeave:    (*Controller).cancelPlacing,
		EventPointerMove:     (*Controller).movePreview,
		EventClick:           (*Controller).place,
		EventKey:             escape((*Controller).cancelPlacing),
	},
	StateDrawing: {
		EventAddSymbol:       busy,
		EventStartPath:       busy,
		EventDeleteSelected:  busy,
		EventRecolorSelected: busy,
		EventCancel:          (*Controller).cancelDrawing,
		EventPointerMove:     (*Controller).trackPointer,
		EventPointerLeave:    (*Controller).untrackPointer,
		EventClick:           (*Controller).appendPoint,
		EventDoubleClick:     (*Controller).finishDrawing,
		EventKey:             escape((*Controller).cancelDrawing),
	},
	StateDragging: {
		EventAddSymbol:       busy,
		EventStartPath:       busy,
		EventDeleteSelected:  busy,
		EventRecolorSelected: busy,
		EventCancel:          (*Controller).cancelDragging,
		EventPointerMove:     (*Controller).drag,
		EventPointerUp:       (*Controller).drop,
		EventPointerLeave:    (*Controller).drop,
		EventKey:             escape((*Controller).cancelDragging),
	},
}

var anyState = map[EventType]handler{
	EventResize: (*Controller).resize,
}

// Dispatch is the single entry point for input. It returns ErrBusy when a
// command would start or mutate while another mode is active; other errors
// are command validation failures. No error is fatal to the controller.
func (c *Controller) Dispatch(ev Event) error {
	if ev == nil {
		return nil
	}
	t := ev.Type()
	h, ok := transitions[c.state][t]
	if !ok {
		h, ok = anyState[t]
	}
	if !ok {
		return nil
	}
	return h(c, ev)
}

func busy(c *Controller, ev Event) error {
	return fmt.Errorf("%w: %s while %s", ErrBusy, ev.Type(), c.state)
}

// escape routes the Escape key to h and ignores other keys.
func escape(h handler) handler {
	return func(c *Controller, ev Event) error {
		if k, ok := ev.(Key); ok && k.Name == "Escape" {
			return h(c, ev)
		}
		return nil
	}
}

func (c *Controller) resize(ev Event) error {
	r := ev.(Resize)
	c.viewport.Measure(r.W, r.H)
	return nil
}

// --- idle ---

func (c *Controller) idleKey(ev Event) error {
	switch ev.(Key).Name {
	case "Escape":
		c.selection = Selection{}
	case "Delete", "Backspace":
		if c.selection.Empty() {
			return nil
		}
		return c.deleteSelected(DeleteSelected{})
	}
	return nil
}

func (c *Controller) clearSelection(Event) error {
	c.selection = Selection{}
	return nil
}

func (c *Controller) selectAt(ev Event) error {
	if c.swallowClick {
		c.swallowClick = false
		return nil
	}
	e := ev.(Click)
	c.selection = c.hitTest(c.toLogical(e.X, e.Y))
	return nil
}

func (c *Controller) deleteSelected(Event) error {
	sel := c.selection
	switch {
	case sel.Symbol != "":
		c.scene.RemoveSymbol(sel.Symbol)
	case sel.Path != "":
		c.scene.RemovePath(sel.Path)
	default:
		return ErrNoSelection
	}
	c.selection = Selection{}
	c.commit()
	return nil
}

func (c *Controller) recolorSelected(ev Event) error {
	color := ev.(RecolorSelected).Color
	if !diagram.ValidColor(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	sel := c.selection
	switch {
	case sel.Symbol != "":
		sym := c.scene.SymbolByID(sel.Symbol)
		if sym == nil {
			return ErrNoSelection
		}
		sym.Fill, sym.Stroke = symbol.Recolor(sym.Kind, color)
	case sel.Path != "":
		p := c.scene.PathByID(sel.Path)
		if p == nil {
			return ErrNoSelection
		}
		p.Stroke = color
	default:
		return ErrNoSelection
	}
	c.commit()
	return nil
}

// --- placing ---

func (c *Controller) startPlacing(ev Event) error {
	e := ev.(AddSymbol)
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	tid := e.TemplateID
	if tid == "" {
		tid = string(e.Kind)
	}
	if _, err := c.opts.Provider.Template(tid); err != nil {
		return err
	}

	p := &placing{preview: &diagram.Symbol{TemplateID: tid, Kind: e.Kind}}
	if pool := c.scene.Pool(e.Kind); pool != nil {
		p.number = pool.Allocate()
		p.preview.Label = strconv.Itoa(p.number)
	}
	c.placing = p
	c.selection = Selection{}
	c.state = StatePlacing
	return nil
}

// previewAt moves the preview so it is centred on pt. Positions that would
// leave the court are rejected.
func (c *Controller) previewAt(pt geom.Point) {
	p := c.placing
	inst, err := c.instance(p.preview)
	if err != nil {
		return
	}
	x := pt.X - inst.Bounds.Width/2
	y := pt.Y - inst.Bounds.Height/2
	if !c.fits(p.preview, x, y) {
		return
	}
	p.preview.X, p.preview.Y = x, y
	p.placed = true
}

func (c *Controller) movePreview(ev Event) error {
	e := ev.(PointerMove)
	c.previewAt(c.toLogical(e.X, e.Y))
	return nil
}

func (c *Controller) place(ev Event) error {
	e := ev.(Click)
	c.previewAt(c.toLogical(e.X, e.Y))
	p := c.placing
	if !p.placed {
		return nil
	}
	c.scene.AddSymbol(p.preview)
	c.placing = nil
	c.state = StateIdle
	c.commit()
	return nil
}

func (c *Controller) releasePlacing() {
	p := c.placing
	if p.number > 0 {
		c.scene.Pool(p.preview.Kind).Release(p.number)
	}
}

func (c *Controller) cancelPlacing(Event) error {
	c.releasePlacing()
	c.placing = nil
	c.state = StateIdle
	return nil
}

// --- drawing ---

func (c *Controller) startDrawing(ev Event) error {
	e := ev.(StartPath)
	style, ending, stroke := e.Style, e.Ending, e.Stroke
	if style == "" {
		style = shape.StyleSolid
	}
	if ending == "" {
		ending = shape.EndingNone
	}
	if stroke == "" {
		stroke = shape.DefaultColor
	}
	if !style.Valid() || !ending.Valid() {
		return fmt.Errorf("start path: style %q ending %q", e.Style, e.Ending)
	}
	if !diagram.ValidColor(stroke) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, stroke)
	}

	c.drawing = &drawing{path: diagram.Path{Curve: e.Curve, Style: style, Ending: ending, Stroke: stroke}}
	c.selection = Selection{}
	c.state = StateDrawing
	return nil
}

func (c *Controller) trackPointer(ev Event) error {
	e := ev.(PointerMove)
	c.drawing.pointer = c.toLogical(e.X, e.Y)
	c.drawing.tracking = true
	return nil
}

func (c *Controller) untrackPointer(Event) error {
	c.drawing.tracking = false
	return nil
}

func (c *Controller) appendPoint(ev Event) error {
	e := ev.(Click)
	d := c.drawing
	pt := c.toLogical(e.X, e.Y)
	d.path.Points = append(d.path.Points, pt)
	d.pointer = pt

	if !d.path.Curve && len(d.path.Points) == 2 {
		return c.finishDrawing(nil)
	}
	return nil
}

// finishDrawing commits the path. The click pair that precedes a
// double-click leaves a duplicated trailing point, which is collapsed.
// Paths with fewer than two points are dropped silently.
func (c *Controller) finishDrawing(Event) error {
	d := c.drawing
	pts := d.path.Points
	if n := len(pts); n >= 2 && pts[n-1].Near(pts[n-2], DoubleClickSlop) {
		pts = pts[:n-1]
	}

	c.drawing = nil
	c.state = StateIdle
	if len(pts) < 2 {
		return nil
	}

	p := d.path
	p.Points = append([]geom.Point(nil), pts...)
	if err := c.scene.AddPath(&p); err != nil {
		return nil
	}
	c.commit()
	return nil
}

func (c *Controller) cancelDrawing(Event) error {
	c.drawing = nil
	c.state = StateIdle
	return nil
}

// --- dragging ---

func (c *Controller) startDragging(ev Event) error {
	e := ev.(PointerDown)
	pt := c.toLogical(e.X, e.Y)
	c.swallowClick = false

	sym := c.symbolAt(pt)
	if sym == nil {
		return nil
	}
	c.dragging = &dragging{
		symbol: sym,
		grab:   pt.Sub(geom.Pt(sym.X, sym.Y)),
		startX: sym.X,
		startY: sym.Y,
	}
	c.state = StateDragging
	return nil
}

func (c *Controller) drag(ev Event) error {
	e := ev.(PointerMove)
	d := c.dragging
	pos := c.toLogical(e.X, e.Y).Sub(d.grab)
	if pos.X == d.symbol.X && pos.Y == d.symbol.Y {
		return nil
	}
	if !c.fits(d.symbol, pos.X, pos.Y) {
		return nil
	}
	d.symbol.X, d.symbol.Y = pos.X, pos.Y
	d.moved = true
	return nil
}

func (c *Controller) drop(Event) error {
	d := c.dragging
	c.dragging = nil
	c.state = StateIdle
	if !d.moved {
		return nil
	}
	c.swallowClick = true
	c.selection = Selection{Symbol: d.symbol.ID}
	c.commit()
	return nil
}

func (c *Controller) cancelDragging(Event) error {
	d := c.dragging
	d.symbol.X, d.symbol.Y = d.startX, d.startY
	c.dragging = nil
	c.state = StateIdle
	return nil
}
