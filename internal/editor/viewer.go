package editor

import (
	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/render"
)

// Viewer renders a scene read-only. It accepts resizes and document
// reloads but no editing events.
type Viewer struct {
	scene    *diagram.Scene
	viewport *geom.Viewport
	opts     Options
}

// NewViewer mounts a viewer on a serialized document.
func NewViewer(doc []byte, opts Options) (*Viewer, []error) {
	opts = opts.withDefaults()
	scene, vp, errs := mount(doc, opts)
	return &Viewer{scene: scene, viewport: vp, opts: opts}, errs
}

func (v *Viewer) Scene() *diagram.Scene { return v.scene }

// Resize records a new surface size, applied on the next Render.
func (v *Viewer) Resize(w, h float64) { v.viewport.Measure(w, h) }

// Load replaces the displayed document, keeping the surface size.
func (v *Viewer) Load(doc []byte) []error {
	scene, vp, errs := mount(doc, v.opts)
	w, h := v.viewport.Size()
	vp.Measure(w, h)
	vp.Apply()
	v.scene, v.viewport = scene, vp
	return errs
}

func (v *Viewer) Render() render.Frame {
	v.viewport.Apply()
	return render.Frame{
		ViewBox:   v.scene.ViewBox,
		Transform: v.viewport.LogicalToScreen().ToSlice(),
		Commands:  render.Compile(v.scene, v.opts.Provider, render.Overlay{Court: v.opts.Court}),
	}
}
