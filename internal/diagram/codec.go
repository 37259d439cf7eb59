package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
	"github.com/drillboard/drillboard/backend-go/internal/typeid"
)

var ErrInvalidElement = errors.New("invalid element")

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether c is a #rgb or #rrggbb colour.
func ValidColor(c string) bool { return hexColor.MatchString(c) }

// Document is the wire form of a scene.
type Document struct {
	ViewBox geom.Rect     `json:"viewBox"`
	Symbols []SymbolEntry `json:"symbols"`
	Paths   []PathEntry   `json:"paths"`
}

type SymbolEntry struct {
	ID         string      `json:"id"`
	TemplateID string      `json:"templateId"`
	Kind       symbol.Kind `json:"kind"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Label      string      `json:"label,omitempty"`
	Fill       string      `json:"fill,omitempty"`
	Stroke     string      `json:"stroke,omitempty"`
	Transform  string      `json:"transform,omitempty"`
}

type PathEntry struct {
	ID     string       `json:"id"`
	Points []Point      `json:"points"`
	Curve  bool         `json:"curve"`
	Style  shape.Style  `json:"style"`
	Ending shape.Ending `json:"ending"`
	Stroke string       `json:"stroke"`
}

// Point is a logical point encoded as [x, y]. Objects of the form
// {"x":..,"y":..} are accepted on input.
type Point [2]float64

func (p *Point) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("point has %d coordinates", len(pair))
		}
		*p = Point{pair[0], pair[1]}
		return nil
	}

	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(b, &obj); err != nil || obj.X == nil || obj.Y == nil {
		return fmt.Errorf("point %s is not a numeric pair", b)
	}
	*p = Point{*obj.X, *obj.Y}
	return nil
}

// flexBool accepts true/false, "true"/"false" and 0/1.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true", `"true"`, "1":
		*f = true
	case "false", `"false"`, "0", "null":
		*f = false
	default:
		return fmt.Errorf("%s is not a boolean", b)
	}
	return nil
}

type rawDocument struct {
	ViewBox *geom.Rect        `json:"viewBox"`
	Symbols []json.RawMessage `json:"symbols"`
	Paths   []json.RawMessage `json:"paths"`
}

type rawSymbol struct {
	ID         string   `json:"id"`
	TemplateID string   `json:"templateId"`
	Kind       string   `json:"kind"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Label      string   `json:"label"`
	Fill       string   `json:"fill"`
	Stroke     string   `json:"stroke"`
	Transform  string   `json:"transform"`
}

type rawPath struct {
	ID     string   `json:"id"`
	Points []Point  `json:"points"`
	Curve  flexBool `json:"curve"`
	Style  string   `json:"style"`
	Ending string   `json:"ending"`
	Stroke string   `json:"stroke"`
}

// Deserialize hydrates a scene from a wire document. Elements that fail
// validation are skipped, logged and returned as errors wrapping
// ErrInvalidElement; the rest of the scene still loads. Empty input yields
// an empty scene over DefaultViewBox. The returned scene is never nil.
//
// When provider is nil, template references are not resolved and every
// symbol must carry its kind.
func Deserialize(data []byte, provider symbol.Provider, logger *slog.Logger) (*Scene, []error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewScene(DefaultViewBox), nil
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("decode diagram", "error", err)
		return NewScene(DefaultViewBox), []error{fmt.Errorf("decode diagram: %w", err)}
	}

	vb := DefaultViewBox
	if raw.ViewBox != nil && !raw.ViewBox.IsEmpty() {
		vb = *raw.ViewBox
	}
	scene := NewScene(vb)

	var errs []error
	reject := func(what string, i int, err error) {
		err = fmt.Errorf("%w: %s %d: %w", ErrInvalidElement, what, i, err)
		logger.Warn("skip diagram element", "element", what, "index", i, "error", err)
		errs = append(errs, err)
	}

	ids := make(map[string]bool)
	uniqueID := func(id, prefix string) string {
		if id == "" || ids[id] {
			id = typeid.New(prefix)
		}
		ids[id] = true
		return id
	}

	// Valid labels are reserved before malformed or duplicate role labels
	// are renumbered.
	var renumber []*Symbol
	for i, msg := range raw.Symbols {
		sym, err := decodeSymbol(msg, provider)
		if err != nil {
			reject("symbol", i, err)
			continue
		}
		sym.ID = uniqueID(sym.ID, typeid.PrefixSymbol)
		if sym.Kind.Numbered() && sym.Label != "" {
			if n, ok := sym.Number(); !ok || !scene.Pool(sym.Kind).Reserve(n) {
				renumber = append(renumber, sym)
			}
		}
		scene.Symbols = append(scene.Symbols, sym)
	}
	for _, sym := range renumber {
		fresh := scene.Pool(sym.Kind).Allocate()
		logger.Warn("renumber symbol label", "kind", sym.Kind, "label", sym.Label, "new", fresh)
		sym.Label = strconv.Itoa(fresh)
	}

	for i, msg := range raw.Paths {
		p, err := decodePath(msg)
		if err != nil {
			reject("path", i, err)
			continue
		}
		p.ID = uniqueID(p.ID, typeid.PrefixPath)
		scene.Paths = append(scene.Paths, p)
	}

	return scene, errs
}

func decodeSymbol(msg json.RawMessage, provider symbol.Provider) (*Symbol, error) {
	var r rawSymbol
	if err := json.Unmarshal(msg, &r); err != nil {
		return nil, err
	}
	if r.TemplateID == "" {
		return nil, errors.New("missing templateId")
	}
	if r.X == nil || r.Y == nil {
		return nil, errors.New("missing numeric x/y")
	}

	kind := symbol.Kind(r.Kind)
	if provider != nil {
		tpl, err := provider.Template(r.TemplateID)
		if err != nil {
			return nil, err
		}
		if kind == "" {
			kind = tpl.Kind
		}
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("kind %q not placeable", kind)
	}

	for _, c := range []string{r.Fill, r.Stroke} {
		if c != "" && !ValidColor(c) {
			return nil, fmt.Errorf("bad colour %q", c)
		}
	}
	if r.Transform != "" {
		if _, err := geom.ParseTransform(r.Transform); err != nil {
			return nil, err
		}
	}

	return &Symbol{
		ID:         r.ID,
		TemplateID: r.TemplateID,
		Kind:       kind,
		X:          *r.X,
		Y:          *r.Y,
		Label:      r.Label,
		Fill:       r.Fill,
		Stroke:     r.Stroke,
		Transform:  r.Transform,
	}, nil
}

func decodePath(msg json.RawMessage) (*Path, error) {
	var r rawPath
	if err := json.Unmarshal(msg, &r); err != nil {
		return nil, err
	}
	if len(r.Points) < 2 {
		return nil, ErrDegeneratePath
	}

	style := shape.Style(r.Style)
	if style == "" {
		style = shape.StyleSolid
	}
	if !style.Valid() {
		return nil, fmt.Errorf("style %q", r.Style)
	}
	ending := shape.Ending(r.Ending)
	if ending == "" {
		ending = shape.EndingNone
	}
	if !ending.Valid() {
		return nil, fmt.Errorf("ending %q", r.Ending)
	}
	stroke := r.Stroke
	if stroke == "" {
		stroke = shape.DefaultColor
	}
	if !ValidColor(stroke) {
		return nil, fmt.Errorf("bad colour %q", stroke)
	}

	pts := make([]geom.Point, len(r.Points))
	for i, p := range r.Points {
		pts[i] = geom.Pt(p[0], p[1])
	}
	return &Path{
		ID:     r.ID,
		Points: pts,
		Curve:  bool(r.Curve),
		Style:  style,
		Ending: ending,
		Stroke: stroke,
	}, nil
}

// ToDocument derives the wire document of s. Paths with fewer than two
// points are left out.
func ToDocument(s *Scene) Document {
	doc := Document{
		ViewBox: s.ViewBox,
		Symbols: make([]SymbolEntry, 0, len(s.Symbols)),
		Paths:   make([]PathEntry, 0, len(s.Paths)),
	}
	for _, sym := range s.Symbols {
		doc.Symbols = append(doc.Symbols, SymbolEntry{
			ID:         sym.ID,
			TemplateID: sym.TemplateID,
			Kind:       sym.Kind,
			X:          sym.X,
			Y:          sym.Y,
			Label:      sym.Label,
			Fill:       sym.Fill,
			Stroke:     sym.Stroke,
			Transform:  sym.Transform,
		})
	}
	for _, p := range s.Paths {
		if len(p.Points) < 2 {
			continue
		}
		pts := make([]Point, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = Point{pt.X, pt.Y}
		}
		stroke := p.Stroke
		if stroke == "" {
			stroke = shape.DefaultColor
		}
		doc.Paths = append(doc.Paths, PathEntry{
			ID:     p.ID,
			Points: pts,
			Curve:  p.Curve,
			Style:  p.Style,
			Ending: p.Ending,
			Stroke: stroke,
		})
	}
	return doc
}

// Serialize encodes s as a wire document.
func Serialize(s *Scene) ([]byte, error) {
	data, err := json.Marshal(ToDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode diagram: %w", err)
	}
	return data, nil
}
