// Package diagram holds the in-memory play diagram (court view box, placed
// symbols and movement paths) and its JSON wire document.
package diagram

import (
	"errors"
	"strconv"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
	"github.com/drillboard/drillboard/backend-go/internal/typeid"
)

// DefaultViewBox is the logical space of a scene with no stored view box.
var DefaultViewBox = geom.Rect{X: 0, Y: 0, Width: 1000, Height: 600}

var ErrDegeneratePath = errors.New("path needs at least two points")

// Symbol is a template placed on the court.
type Symbol struct {
	ID         string
	TemplateID string
	Kind       symbol.Kind
	X, Y       float64
	Label      string
	Fill       string
	Stroke     string
	Transform  string
}

// Placement returns the instantiation parameters of s.
func (s *Symbol) Placement() symbol.Placement {
	return symbol.Placement{
		X:         s.X,
		Y:         s.Y,
		Kind:      s.Kind,
		Label:     s.Label,
		Fill:      s.Fill,
		Stroke:    s.Stroke,
		Transform: s.Transform,
	}
}

// Number returns the allocated number of a numbered symbol.
func (s *Symbol) Number() (int, bool) {
	if !s.Kind.Numbered() {
		return 0, false
	}
	n, err := strconv.Atoi(s.Label)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Path is a drawn movement line.
type Path struct {
	ID     string
	Points []geom.Point
	Curve  bool
	Style  shape.Style
	Ending shape.Ending
	Stroke string
}

// Options returns the stroke options of p.
func (p *Path) Options() shape.Options {
	return shape.Options{Style: p.Style, Color: p.Stroke, Ending: p.Ending}
}

// Shape builds the geometry of p.
func (p *Path) Shape() geom.Path { return shape.Build(p.Points, p.Curve) }

// Render builds, styles and terminates p.
func (p *Path) Render() shape.Renderable {
	return shape.Render(p.Points, p.Curve, p.Options())
}

// Scene is an editable diagram. All coordinates are in ViewBox space.
type Scene struct {
	ViewBox geom.Rect
	Symbols []*Symbol
	Paths   []*Path

	pools map[symbol.Kind]*symbol.NumberingPool
}

// NewScene returns an empty scene over viewBox.
func NewScene(viewBox geom.Rect) *Scene {
	if viewBox.IsEmpty() {
		viewBox = DefaultViewBox
	}
	return &Scene{
		ViewBox: viewBox,
		pools: map[symbol.Kind]*symbol.NumberingPool{
			symbol.KindAttacker: symbol.NewNumberingPool(),
			symbol.KindDefender: symbol.NewNumberingPool(),
		},
	}
}

// Pool returns the numbering pool of kind, or nil for unnumbered kinds.
func (s *Scene) Pool(kind symbol.Kind) *symbol.NumberingPool {
	return s.pools[kind]
}

// RebuildPools repopulates the numbering pools from the live symbols.
func (s *Scene) RebuildPools() {
	for kind := range s.pools {
		s.pools[kind] = symbol.NewNumberingPool()
	}
	for _, sym := range s.Symbols {
		if n, ok := sym.Number(); ok {
			s.pools[sym.Kind].Reserve(n)
		}
	}
}

// AddSymbol appends sym, giving it an id if it has none. Its number, if
// any, is marked as used.
func (s *Scene) AddSymbol(sym *Symbol) {
	if sym.ID == "" {
		sym.ID = typeid.NewSymbolID()
	}
	if n, ok := sym.Number(); ok {
		s.pools[sym.Kind].Reserve(n)
	}
	s.Symbols = append(s.Symbols, sym)
}

// AddPath appends p, giving it an id if it has none.
func (s *Scene) AddPath(p *Path) error {
	if len(p.Points) < 2 {
		return ErrDegeneratePath
	}
	if p.ID == "" {
		p.ID = typeid.NewPathID()
	}
	if p.Style == "" {
		p.Style = shape.StyleSolid
	}
	if p.Ending == "" {
		p.Ending = shape.EndingNone
	}
	if p.Stroke == "" {
		p.Stroke = shape.DefaultColor
	}
	s.Paths = append(s.Paths, p)
	return nil
}

// RemoveSymbol deletes the symbol with id and releases its number.
func (s *Scene) RemoveSymbol(id string) (*Symbol, bool) {
	for i, sym := range s.Symbols {
		if sym.ID != id {
			continue
		}
		s.Symbols = append(s.Symbols[:i], s.Symbols[i+1:]...)
		if n, ok := sym.Number(); ok {
			s.pools[sym.Kind].Release(n)
		}
		return sym, true
	}
	return nil, false
}

// RemovePath deletes the path with id.
func (s *Scene) RemovePath(id string) (*Path, bool) {
	for i, p := range s.Paths {
		if p.ID == id {
			s.Paths = append(s.Paths[:i], s.Paths[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

func (s *Scene) SymbolByID(id string) *Symbol {
	for _, sym := range s.Symbols {
		if sym.ID == id {
			return sym
		}
	}
	return nil
}

func (s *Scene) PathByID(id string) *Path {
	for _, p := range s.Paths {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Scene) Clone() *Scene {
	out := NewScene(s.ViewBox)
	for _, sym := range s.Symbols {
		c := *sym
		out.Symbols = append(out.Symbols, &c)
	}
	for _, p := range s.Paths {
		c := *p
		c.Points = append([]geom.Point(nil), p.Points...)
		out.Paths = append(out.Paths, &c)
	}
	out.RebuildPools()
	return out
}
