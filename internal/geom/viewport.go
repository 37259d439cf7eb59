package geom

// Viewport maps the logical view box onto a rendered surface. The surface
// size is applied in two phases: Measure records the size reported by the
// host, Apply makes it current. Logical coordinates never change.
type Viewport struct {
	ViewBox Rect

	width, height        float64
	measuredW, measuredH float64
	pending              bool

	zoom       float64
	panX, panY float64
}

// NewViewport returns a viewport whose surface matches the view box 1:1
// until a real size is measured.
func NewViewport(viewBox Rect) *Viewport {
	return &Viewport{
		ViewBox: viewBox,
		width:   viewBox.Width,
		height:  viewBox.Height,
		zoom:    1,
	}
}

// Measure records a new surface size to be applied later.
func (v *Viewport) Measure(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.measuredW, v.measuredH = width, height
	v.pending = true
}

// Pending reports whether a measured size is waiting to be applied.
func (v *Viewport) Pending() bool { return v.pending }

// Apply commits the last measured size. It returns false when there was
// nothing to apply.
func (v *Viewport) Apply() bool {
	if !v.pending {
		return false
	}
	v.width, v.height = v.measuredW, v.measuredH
	v.pending = false
	return true
}

// Size returns the applied surface size.
func (v *Viewport) Size() (float64, float64) { return v.width, v.height }

// SetZoom sets the zoom factor on top of fit-to-viewport. Non-positive
// values reset it to 1.
func (v *Viewport) SetZoom(z float64) {
	if z <= 0 {
		z = 1
	}
	v.zoom = z
}

// Zoom returns the zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan offsets the rendered view box by (dx, dy) screen units.
func (v *Viewport) Pan(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

// FitScale returns the uniform logical-to-screen scale.
func (v *Viewport) FitScale() float64 {
	if v.ViewBox.IsEmpty() || v.width <= 0 || v.height <= 0 {
		return v.zoom
	}
	return min(v.width/v.ViewBox.Width, v.height/v.ViewBox.Height) * v.zoom
}

// LogicalToScreen returns the fit-to-viewport transform: uniform scale,
// centred on the surface.
func (v *Viewport) LogicalToScreen() Matrix2D {
	s := v.FitScale()
	tx := (v.width-v.ViewBox.Width*s)/2 - v.ViewBox.X*s + v.panX
	ty := (v.height-v.ViewBox.Height*s)/2 - v.ViewBox.Y*s + v.panY
	return Translate(tx, ty).Multiply(Scale(s, s))
}

// ScreenToLogical is the inverse of LogicalToScreen.
func (v *Viewport) ScreenToLogical() Matrix2D {
	return v.LogicalToScreen().Invert()
}

// PointFromScreen maps a device coordinate into logical space.
func (v *Viewport) PointFromScreen(x, y float64) Point {
	return v.ScreenToLogical().Apply(Point{x, y})
}

// PointFromScreenWith maps a device coordinate using an explicit
// screen-to-logical transform.
func PointFromScreenWith(x, y float64, screenToLogical Matrix2D) Point {
	return screenToLogical.Apply(Point{x, y})
}
