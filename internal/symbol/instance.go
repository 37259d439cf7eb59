package symbol

import (
	"errors"
	"fmt"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
)

const (
	// SymbolHeightRatio is the height of a placed symbol as a fraction of
	// the court's logical height.
	SymbolHeightRatio = 0.06

	// LabelRatio is the label font size as a fraction of symbol height.
	LabelRatio = 0.55
)

// Placement is where and how a template is drawn.
type Placement struct {
	X, Y float64

	// Kind overrides the template's kind when set.
	Kind Kind

	Label     string
	Fill      string
	Stroke    string
	Transform string
}

// Instance is a template resolved into logical space.
type Instance struct {
	Template *Template
	Matrix   geom.Matrix2D
	Scale    float64
	Colors   Colors

	// Bounds is the logical footprint used for hit testing and for keeping
	// the symbol on the court.
	Bounds geom.Rect

	Label    string
	LabelAt  geom.Point
	FontSize float64
}

// ScaleFor returns the uniform scale that makes tpl SymbolHeightRatio of a
// court courtHeight units tall.
func ScaleFor(tpl *Template, courtHeight float64) float64 {
	if tpl.ViewBox.Height <= 0 || courtHeight <= 0 {
		return 1
	}
	return SymbolHeightRatio * courtHeight / tpl.ViewBox.Height
}

// Instantiate places tpl at p. The supplementary transform is applied
// around the anchor after the size-normalizing scale.
func Instantiate(tpl *Template, p Placement, courtHeight float64) (*Instance, error) {
	if tpl == nil {
		return nil, errors.New("instantiate: nil template")
	}

	extra := geom.Identity()
	if p.Transform != "" {
		m, err := geom.ParseTransform(p.Transform)
		if err != nil {
			return nil, fmt.Errorf("instantiate %s: %w", tpl.ID, err)
		}
		extra = m
	}

	kind := p.Kind
	if kind == "" {
		kind = tpl.Kind
	}

	s := ScaleFor(tpl, courtHeight)
	vb := tpl.ViewBox
	m := geom.Translate(p.X, p.Y).
		Multiply(extra).
		Multiply(geom.Scale(s, s)).
		Multiply(geom.Translate(-vb.X, -vb.Y))

	return &Instance{
		Template: tpl,
		Matrix:   m,
		Scale:    s,
		Colors:   Paint(kind, p.Fill, p.Stroke),
		Bounds:   m.ApplyRect(vb),
		Label:    p.Label,
		LabelAt:  m.Apply(vb.Center()),
		FontSize: vb.Height * s * LabelRatio,
	}, nil
}
