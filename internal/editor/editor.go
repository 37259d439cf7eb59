// Package editor is the interaction layer of the diagram editor: a finite
// state machine that turns pointer, keyboard and toolbar events into scene
// mutations, plus a read-only Viewer sharing the same scene model.
package editor

import (
	"errors"
	"log/slog"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/render"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

var (
	ErrBusy         = errors.New("another edit is in progress")
	ErrNoSelection  = errors.New("nothing selected")
	ErrInvalidColor = errors.New("invalid colour")
	ErrUnknownKind  = errors.New("unknown symbol kind")
	ErrUnknownEvent = errors.New("unknown event")
)

// State is the controller mode.
type State int

const (
	StateIdle State = iota
	StatePlacing
	StateDrawing
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlacing:
		return "placing"
	case StateDrawing:
		return "drawing"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// Hit-test distances in logical units.
const (
	// StrokeHitSlack widens a path's stroke for exact hits.
	StrokeHitSlack = 4.0

	// SelectTolerance is how far from an element's bounds a click still
	// selects it when nothing is hit exactly.
	SelectTolerance = 12.0

	// DoubleClickSlop is the distance under which the last two points of a
	// curve are treated as the same double-click point.
	DoubleClickSlop = 0.5
)

// Options configures a Controller or Viewer.
type Options struct {
	// Provider resolves symbol templates. Defaults to symbol.Builtin().
	Provider symbol.Provider

	// Court is the background template. Its view box becomes the scene's
	// logical space.
	Court *symbol.Template

	// OnCommit receives the serialized document after every committed
	// mutation.
	OnCommit func([]byte)

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Provider == nil {
		o.Provider = symbol.Builtin()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// mount hydrates the scene shared by Controller and Viewer.
func mount(doc []byte, o Options) (*diagram.Scene, *geom.Viewport, []error) {
	scene, errs := diagram.Deserialize(doc, o.Provider, o.Logger)
	if o.Court != nil && !o.Court.ViewBox.IsEmpty() {
		scene.ViewBox = o.Court.ViewBox
	}
	return scene, geom.NewViewport(scene.ViewBox), errs
}

// Selection identifies the selected element.
type Selection struct {
	Symbol string `json:"symbol,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ID returns the selected element id, or "" when nothing is selected.
func (s Selection) ID() string {
	if s.Symbol != "" {
		return s.Symbol
	}
	return s.Path
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.ID() == "" }

type placing struct {
	preview *diagram.Symbol
	number  int
	placed  bool // preview has a valid position
}

type drawing struct {
	path     diagram.Path
	pointer  geom.Point
	tracking bool // pointer is over the surface
}

type dragging struct {
	symbol *diagram.Symbol
	grab   geom.Point // pointer offset from the anchor
	startX float64
	startY float64
	moved  bool
}

// Controller owns a scene and mutates it in response to events. It is not
// safe for concurrent use; give each editing session its own controller.
type Controller struct {
	scene    *diagram.Scene
	viewport *geom.Viewport
	opts     Options
	logger   *slog.Logger

	state     State
	selection Selection

	placing  *placing
	drawing  *drawing
	dragging *dragging

	// swallowClick drops the click the host sends after a real drag.
	swallowClick bool
}

// New mounts a controller on a serialized document. Invalid elements are
// skipped and returned; the controller is always usable.
func New(doc []byte, opts Options) (*Controller, []error) {
	opts = opts.withDefaults()
	scene, vp, errs := mount(doc, opts)
	return &Controller{
		scene:    scene,
		viewport: vp,
		opts:     opts,
		logger:   opts.Logger,
	}, errs
}

func (c *Controller) State() State              { return c.state }
func (c *Controller) Selection() Selection      { return c.selection }
func (c *Controller) Scene() *diagram.Scene     { return c.scene }
func (c *Controller) Viewport() *geom.Viewport  { return c.viewport }
func (c *Controller) Provider() symbol.Provider { return c.opts.Provider }

// Document returns the serialized scene.
func (c *Controller) Document() ([]byte, error) {
	return diagram.Serialize(c.scene)
}

// Load replaces the scene with doc and returns to idle.
func (c *Controller) Load(doc []byte) []error {
	c.reset()
	scene, vp, errs := mount(doc, c.opts)
	w, h := c.viewport.Size()
	vp.Measure(w, h)
	vp.Apply()
	c.scene, c.viewport = scene, vp
	return errs
}

// LoadSample replaces the scene with the demo drill.
func (c *Controller) LoadSample() {
	data, err := diagram.Serialize(diagram.NewSampleScene())
	if err != nil {
		c.logger.Error("serialize sample", "error", err)
		return
	}
	c.Load(data)
}

func (c *Controller) reset() {
	if c.placing != nil {
		c.releasePlacing()
	}
	c.state = StateIdle
	c.selection = Selection{}
	c.placing, c.drawing, c.dragging = nil, nil, nil
	c.swallowClick = false
}

func (c *Controller) commit() {
	if c.opts.OnCommit == nil {
		return
	}
	data, err := diagram.Serialize(c.scene)
	if err != nil {
		c.logger.Error("serialize diagram", "error", err)
		return
	}
	c.opts.OnCommit(data)
}

// toLogical converts a screen point to logical space. A size measured
// since the last render is applied first.
func (c *Controller) toLogical(x, y float64) geom.Point {
	c.viewport.Apply()
	return c.viewport.PointFromScreen(x, y)
}

// instance places sym using the scene's court height.
func (c *Controller) instance(sym *diagram.Symbol) (*symbol.Instance, error) {
	return render.Instance(c.opts.Provider, sym, c.scene.ViewBox.Height)
}

// fits reports whether sym at (x, y) stays inside the court.
func (c *Controller) fits(sym *diagram.Symbol, x, y float64) bool {
	probe := *sym
	probe.X, probe.Y = x, y
	inst, err := c.instance(&probe)
	if err != nil {
		return false
	}
	return c.scene.ViewBox.ContainsRect(inst.Bounds)
}

// Render applies any pending viewport size and returns the current frame,
// including previews and the selection highlight.
func (c *Controller) Render() render.Frame {
	c.viewport.Apply()

	ov := render.Overlay{Court: c.opts.Court, Selected: c.selection.ID()}
	if c.placing != nil && c.placing.placed {
		ov.PreviewSymbol = c.placing.preview
	}
	if d := c.drawing; d != nil && len(d.path.Points) > 0 {
		var r shape.Renderable
		if d.tracking {
			r = shape.Preview(d.path.Points, d.pointer, d.path.Curve, d.path.Options())
		} else {
			r = d.path.Render()
		}
		ov.PreviewPath = &r
	}

	return render.Frame{
		ViewBox:   c.scene.ViewBox,
		Transform: c.viewport.LogicalToScreen().ToSlice(),
		Commands:  render.Compile(c.scene, c.opts.Provider, ov),
	}
}
