package courtview

import (
	"log/slog"
	"math"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/render"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// outlineSteps is the number of sides used for round symbols.
const outlineSteps = 24

// rasterize draws frame onto c. The frame's screen space is the canvas's
// dot grid.
func rasterize(c *canvas, frame render.Frame, provider symbol.Provider) {
	screen, ok := geom.MatrixFromSlice(frame.Transform)
	if !ok {
		return
	}
	scale := screen.ScaleFactor()

	for _, cmd := range frame.Commands {
		switch cmd.Op {
		case render.OpCourt:
			c.drawPolyline(toDots(screen, rectOutline(frame.ViewBox)), nil, courtColor)
		case render.OpPath:
			drawPath(c, screen, scale, cmd)
		case render.OpSymbol:
			drawSymbol(c, screen, provider, cmd)
		case render.OpText:
			p := screen.Apply(geom.Pt(cmd.X, cmd.Y))
			cx := int(p.X/2) - (len(cmd.Text)-1)/2
			c.putText(cx, int(p.Y/4), cmd.Text, cmd.Fill)
		}
	}
}

func drawPath(c *canvas, screen geom.Matrix2D, scale float64, cmd render.DrawCommand) {
	p, err := geom.PathFromCommands(cmd.Path)
	if err != nil {
		slog.Debug("skip path command", "object", cmd.ObjectID, "error", err)
		return
	}
	color := cmd.Stroke
	if color == "" {
		color = cmd.Fill
	}
	var dash []float64
	for _, d := range cmd.Dash {
		dash = append(dash, d*scale)
	}
	c.drawPolyline(toDots(screen, geom.Flatten(p)), dash, color)
}

// drawSymbol outlines the symbol's template box with a shape that hints at
// its kind.
func drawSymbol(c *canvas, screen geom.Matrix2D, provider symbol.Provider, cmd render.DrawCommand) {
	m, ok := geom.MatrixFromSlice(cmd.Transform)
	if !ok {
		return
	}
	tpl, err := provider.Template(cmd.TemplateID)
	if err != nil {
		return
	}
	color := cmd.Stroke
	if color == "" || color == "none" {
		color = cmd.Fill
	}

	var outline []geom.Point
	switch tpl.Kind {
	case symbol.KindCone:
		vb := tpl.ViewBox
		outline = []geom.Point{
			geom.Pt(vb.X+vb.Width/2, vb.Y),
			geom.Pt(vb.Right(), vb.Bottom()),
			geom.Pt(vb.X, vb.Bottom()),
			geom.Pt(vb.X+vb.Width/2, vb.Y),
		}
	case symbol.KindCoach:
		outline = rectOutline(tpl.ViewBox)
	default:
		outline = ellipseOutline(tpl.ViewBox)
	}
	c.drawPolyline(toDots(screen.Multiply(m), outline), nil, color)
}

func rectOutline(r geom.Rect) []geom.Point {
	return []geom.Point{
		geom.Pt(r.X, r.Y),
		geom.Pt(r.Right(), r.Y),
		geom.Pt(r.Right(), r.Bottom()),
		geom.Pt(r.X, r.Bottom()),
		geom.Pt(r.X, r.Y),
	}
}

func ellipseOutline(r geom.Rect) []geom.Point {
	center := r.Center()
	out := make([]geom.Point, 0, outlineSteps+1)
	for i := 0; i <= outlineSteps; i++ {
		a := 2 * math.Pi * float64(i) / outlineSteps
		out = append(out, geom.Pt(center.X+math.Cos(a)*r.Width/2, center.Y+math.Sin(a)*r.Height/2))
	}
	return out
}

func toDots(m geom.Matrix2D, pts []geom.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		q := m.Apply(p)
		out[i] = [2]float64{q.X, q.Y}
	}
	return out
}
