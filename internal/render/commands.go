// Package render turns a scene into draw commands for canvas front-ends
// and into standalone SVG.
package render

import (
	"encoding/json"
	"log/slog"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// Draw operations.
const (
	OpCourt  = "court"  // template drawn over the whole view box
	OpSymbol = "symbol" // template drawn with Transform and colours
	OpPath   = "path"   // stroked (and optionally filled) path
	OpText   = "text"   // label centred on (X, Y)
)

// Roles of overlay commands.
const (
	RolePreview   = "preview"
	RoleHighlight = "highlight"
)

const (
	HighlightColor  = "#1e88e5"
	HighlightMargin = 4.0
	PreviewOpacity  = 0.6
)

// DrawCommand is a single drawing operation for the front-end to execute.
// Coordinates are logical; the frame transform maps them to the screen.
type DrawCommand struct {
	Op          string             `json:"op"`
	ObjectID    string             `json:"objectId,omitempty"`   // for hit correlation
	Role        string             `json:"role,omitempty"`       // stroke role or overlay role
	TemplateID  string             `json:"templateId,omitempty"` // court and symbol ops
	Transform   []float64          `json:"transform,omitempty"`  // [a, b, c, d, e, f]
	Path        []geom.PathCommand `json:"path,omitempty"`
	Fill        string             `json:"fill,omitempty"`
	Stroke      string             `json:"stroke,omitempty"`
	StrokeWidth float64            `json:"strokeWidth,omitempty"`
	Dash        []float64          `json:"dash,omitempty"`
	Opacity     float64            `json:"opacity,omitempty"`
	Text        string             `json:"text,omitempty"`
	X           float64            `json:"x,omitempty"`
	Y           float64            `json:"y,omitempty"`
	FontSize    float64            `json:"fontSize,omitempty"`
}

// Overlay is the transient state drawn on top of the scene.
type Overlay struct {
	// Court is the background template. It is drawn first when set.
	Court *symbol.Template

	PreviewSymbol *diagram.Symbol
	PreviewPath   *shape.Renderable

	// Selected is the id of the highlighted symbol or path.
	Selected string
}

// Frame is one rendered view: draw commands plus the logical-to-screen
// transform in effect.
type Frame struct {
	ViewBox   geom.Rect     `json:"viewBox"`
	Transform []float64     `json:"transform"`
	Commands  []DrawCommand `json:"commands"`
}

// Compile generates the draw command buffer of a scene in painter's order:
// court, paths, symbols, then the overlay. Symbols whose template cannot
// be resolved are logged and skipped.
func Compile(scene *diagram.Scene, provider symbol.Provider, ov Overlay) []DrawCommand {
	var commands []DrawCommand

	if ov.Court != nil {
		commands = append(commands, courtCommand(ov.Court, scene.ViewBox))
	}

	var selected geom.Rect
	for _, p := range scene.Paths {
		r := p.Render()
		commands = appendStrokes(commands, p.ID, r, 1)
		if p.ID == ov.Selected && ov.Selected != "" {
			selected = r.Bounds()
		}
	}

	for _, sym := range scene.Symbols {
		inst, err := Instance(provider, sym, scene.ViewBox.Height)
		if err != nil {
			slog.Warn("skip symbol", "id", sym.ID, "template", sym.TemplateID, "error", err)
			continue
		}
		commands = appendSymbol(commands, sym.ID, "", inst, 1)
		if sym.ID == ov.Selected && ov.Selected != "" {
			selected = inst.Bounds
		}
	}

	if ov.PreviewPath != nil {
		commands = appendStrokes(commands, "", *ov.PreviewPath, PreviewOpacity)
	}
	if ov.PreviewSymbol != nil {
		if inst, err := Instance(provider, ov.PreviewSymbol, scene.ViewBox.Height); err == nil {
			commands = appendSymbol(commands, "", RolePreview, inst, PreviewOpacity)
		}
	}
	if selected != (geom.Rect{}) {
		commands = append(commands, highlightCommand(ov.Selected, selected))
	}
	return commands
}

// Instance resolves sym's template and places it in a court of the given
// logical height.
func Instance(provider symbol.Provider, sym *diagram.Symbol, courtHeight float64) (*symbol.Instance, error) {
	tpl, err := provider.Template(sym.TemplateID)
	if err != nil {
		return nil, err
	}
	return symbol.Instantiate(tpl, sym.Placement(), courtHeight)
}

// CourtMatrix maps a court template onto the scene view box.
func CourtMatrix(court *symbol.Template, viewBox geom.Rect) geom.Matrix2D {
	vb := court.ViewBox
	if vb.IsEmpty() {
		return geom.Translate(viewBox.X, viewBox.Y)
	}
	return geom.Translate(viewBox.X, viewBox.Y).
		Multiply(geom.Scale(viewBox.Width/vb.Width, viewBox.Height/vb.Height)).
		Multiply(geom.Translate(-vb.X, -vb.Y))
}

func courtCommand(court *symbol.Template, viewBox geom.Rect) DrawCommand {
	return DrawCommand{
		Op:         OpCourt,
		TemplateID: court.ID,
		Transform:  CourtMatrix(court, viewBox).ToSlice(),
	}
}

func appendStrokes(commands []DrawCommand, id string, r shape.Renderable, opacity float64) []DrawCommand {
	for _, s := range r.Strokes {
		stroke := s.Color
		width := s.Width
		if s.Fill != "" && width == 0 {
			stroke = ""
		}
		role := string(s.Role)
		if id == "" {
			role = RolePreview
		}
		commands = append(commands, DrawCommand{
			Op:          OpPath,
			ObjectID:    id,
			Role:        role,
			Path:        s.Path.Commands(),
			Fill:        s.Fill,
			Stroke:      stroke,
			StrokeWidth: width,
			Dash:        s.Dash,
			Opacity:     opacity,
		})
	}
	return commands
}

func appendSymbol(commands []DrawCommand, id, role string, inst *symbol.Instance, opacity float64) []DrawCommand {
	commands = append(commands, DrawCommand{
		Op:         OpSymbol,
		ObjectID:   id,
		Role:       role,
		TemplateID: inst.Template.ID,
		Transform:  inst.Matrix.ToSlice(),
		Fill:       inst.Colors.Fill,
		Stroke:     inst.Colors.Stroke,
		Opacity:    opacity,
	})
	if inst.Label != "" {
		commands = append(commands, DrawCommand{
			Op:       OpText,
			ObjectID: id,
			Role:     role,
			Text:     inst.Label,
			X:        inst.LabelAt.X,
			Y:        inst.LabelAt.Y,
			FontSize: inst.FontSize,
			Fill:     inst.Colors.Label,
			Opacity:  opacity,
		})
	}
	return commands
}

func highlightCommand(id string, bounds geom.Rect) DrawCommand {
	b := bounds.Outset(HighlightMargin)
	var p geom.Path
	p.MoveTo(geom.Pt(b.X, b.Y))
	p.LineTo(geom.Pt(b.Right(), b.Y))
	p.LineTo(geom.Pt(b.Right(), b.Bottom()))
	p.LineTo(geom.Pt(b.X, b.Bottom()))
	p.Close()
	return DrawCommand{
		Op:          OpPath,
		ObjectID:    id,
		Role:        RoleHighlight,
		Path:        p.Commands(),
		Stroke:      HighlightColor,
		StrokeWidth: 1.5,
		Dash:        []float64{4, 3},
		Opacity:     1,
	}
}

// ToJSON serializes draw commands to JSON.
func ToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
