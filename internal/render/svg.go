package render

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// WriteSVG writes scene as a standalone SVG document sized to its view box.
// court may be nil. Symbols with unresolvable templates are skipped.
func WriteSVG(w io.Writer, scene *diagram.Scene, provider symbol.Provider, court *symbol.Template) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	vb := scene.ViewBox
	canvas.Start(int(math.Ceil(vb.Width)), int(math.Ceil(vb.Height)),
		fmt.Sprintf(`viewBox="%s %s %s %s"`,
			geom.FormatFloat(vb.X), geom.FormatFloat(vb.Y),
			geom.FormatFloat(vb.Width), geom.FormatFloat(vb.Height)))

	if court != nil {
		canvas.Gtransform(CourtMatrix(court, vb).String())
		io.WriteString(canvas.Writer, court.Body)
		canvas.Gend()
	}

	for _, p := range scene.Paths {
		canvas.Gid(p.ID)
		for _, s := range p.Render().Strokes {
			canvas.Path(s.Path.D(), strokeStyle(s.Fill, s.Color, s.Width, s.Dash))
		}
		canvas.Gend()
	}

	for _, sym := range scene.Symbols {
		inst, err := Instance(provider, sym, vb.Height)
		if err != nil {
			slog.Warn("skip symbol in svg", "id", sym.ID, "template", sym.TemplateID, "error", err)
			continue
		}
		canvas.Gid(sym.ID)
		canvas.Gtransform(inst.Matrix.String())
		canvas.Gstyle(fmt.Sprintf("fill:%s;stroke:%s", inst.Colors.Fill, inst.Colors.Stroke))
		io.WriteString(canvas.Writer, inst.Template.Body)
		canvas.Gend()
		canvas.Gend()
		if inst.Label != "" {
			canvas.Text(int(math.Round(inst.LabelAt.X)), int(math.Round(inst.LabelAt.Y)), inst.Label,
				fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-size:%spx;fill:%s",
					geom.FormatFloat(inst.FontSize), inst.Colors.Label))
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

// WriteTemplate writes tpl as a standalone SVG file that the template
// catalog can load back.
func WriteTemplate(w io.Writer, tpl *symbol.Template) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	vb := tpl.ViewBox
	canvas.Start(int(math.Ceil(vb.Width)), int(math.Ceil(vb.Height)),
		fmt.Sprintf(`viewBox="%s %s %s %s"`,
			geom.FormatFloat(vb.X), geom.FormatFloat(vb.Y),
			geom.FormatFloat(vb.Width), geom.FormatFloat(vb.Height)),
		fmt.Sprintf(`data-kind="%s"`, tpl.Kind))
	io.WriteString(canvas.Writer, tpl.Body)
	canvas.End()
	return ew.err
}

func strokeStyle(fill, color string, width float64, dash []float64) string {
	var b strings.Builder
	if fill != "" {
		fmt.Fprintf(&b, "fill:%s", fill)
	} else {
		b.WriteString("fill:none")
	}
	if width > 0 {
		fmt.Fprintf(&b, ";stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
			color, geom.FormatFloat(width))
	} else {
		b.WriteString(";stroke:none")
	}
	if len(dash) > 0 {
		parts := make([]string, len(dash))
		for i, d := range dash {
			parts[i] = geom.FormatFloat(d)
		}
		fmt.Fprintf(&b, ";stroke-dasharray:%s", strings.Join(parts, ","))
	}
	return b.String()
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
