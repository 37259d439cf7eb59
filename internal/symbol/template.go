package symbol

import (
	"errors"
	"fmt"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrBadTemplate     = errors.New("malformed template")
)

// Template is a reusable graphic from the symbol catalog.
type Template struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	ViewBox geom.Rect `json:"viewBox"`

	// Body is the SVG markup drawn inside the template's view box.
	Body string `json:"-"`
}

// Provider resolves templates by id.
type Provider interface {
	Template(id string) (*Template, error)
}

// Static is an in-memory Provider.
type Static map[string]*Template

func (s Static) Template(id string) (*Template, error) {
	t, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t, nil
}

// Chain tries each provider in order. A provider that does not know the
// id passes to the next; any other failure stops the search.
type Chain []Provider

func (c Chain) Template(id string) (*Template, error) {
	for _, p := range c {
		t, err := p.Template(id)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrUnknownTemplate) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
}

// Builtin returns a small provider with one plain template per kind and a
// full court, for demos and tests.
func Builtin() Static {
	s := Static{}
	add := func(id string, kind Kind, w, h float64, body string) {
		s[id] = &Template{ID: id, Kind: kind, ViewBox: geom.Rect{Width: w, Height: h}, Body: body}
	}

	circle := `<circle cx="20" cy="20" r="17" stroke-width="3"/>`
	add("attacker", KindAttacker, 40, 40, circle)
	add("defender", KindDefender, 40, 40, circle)
	add("ball", KindBall, 20, 20,
		`<circle cx="10" cy="10" r="8" stroke-width="2"/><path d="M2 10 H18 M10 2 V18" fill="none" stroke-width="1"/>`)
	add("cone", KindCone, 30, 30, `<path d="M15 2 L28 28 H2 Z" stroke-width="2"/>`)
	add("coach", KindCoach, 40, 40, `<rect x="3" y="3" width="34" height="34" stroke-width="3"/>`)
	add("court", KindCourt, 1000, 600,
		`<rect x="0" y="0" width="1000" height="600" fill="#f3e7d3" stroke="#333" stroke-width="4"/>`+
			`<path d="M500 0 V600" stroke="#333" stroke-width="3" fill="none"/>`+
			`<circle cx="500" cy="300" r="60" stroke="#333" stroke-width="3" fill="none"/>`)
	return s
}
