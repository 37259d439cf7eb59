package symbol

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
)

var templateID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidID reports whether id is usable as a template file name.
func ValidID(id string) bool { return templateID.MatchString(id) }

// Catalog is a Provider backed by a directory of <id>.svg files. Loaded
// templates are cached until Invalidate or Reload.
type Catalog struct {
	dir   string
	cache *Cache
}

// NewCatalog returns a catalog reading templates from dir.
func NewCatalog(dir string) *Catalog {
	c := &Catalog{dir: dir}
	c.cache = NewCache(c.load)
	return c
}

// Dir returns the template directory.
func (c *Catalog) Dir() string { return c.dir }

func (c *Catalog) Template(id string) (*Template, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return c.cache.Template(id)
}

// File returns the path of the raw SVG for id.
func (c *Catalog) File(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return filepath.Join(c.dir, id+".svg"), nil
}

// Invalidate drops the cached copy of one template.
func (c *Catalog) Invalidate(id string) { c.cache.Invalidate(id) }

// Reload drops every cached template.
func (c *Catalog) Reload() { c.cache.Reset() }

// List returns every loadable template in the directory, sorted by id.
// Files that fail to parse are logged and left out.
func (c *Catalog) List() ([]*Template, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	var out []*Template
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".svg" {
			continue
		}
		id := strings.TrimSuffix(name, ".svg")
		t, err := c.Template(id)
		if err != nil {
			slog.Warn("skip template", "id", id, "error", err)
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Catalog) load(id string) (*Template, error) {
	f, err := os.Open(filepath.Join(c.dir, id+".svg"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", id, err)
	}
	defer f.Close()

	return ParseTemplate(id, f)
}

type svgRoot struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	Kind    string   `xml:"data-kind,attr"`
	Inner   string   `xml:",innerxml"`
}

// ParseTemplate reads an SVG document as template id. The kind comes from
// the root's data-kind attribute, or from the id when it names a kind. The
// view box falls back to width and height when absent.
func ParseTemplate(id string, r io.Reader) (*Template, error) {
	var root svgRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadTemplate, id, err)
	}

	kind := Kind(root.Kind)
	if kind == "" {
		kind = Kind(id)
	}
	if !kind.Valid() && kind != KindCourt {
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrBadTemplate, id, kind)
	}

	vb, err := parseViewBox(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadTemplate, id, err)
	}

	return &Template{
		ID:      id,
		Kind:    kind,
		ViewBox: vb,
		Body:    strings.TrimSpace(root.Inner),
	}, nil
}

func parseViewBox(root svgRoot) (geom.Rect, error) {
	if root.ViewBox != "" {
		n, err := geom.ParseNumbers(root.ViewBox)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("viewBox: %w", err)
		}
		if len(n) != 4 {
			return geom.Rect{}, fmt.Errorf("viewBox: want 4 numbers, got %d", len(n))
		}
		vb := geom.Rect{X: n[0], Y: n[1], Width: n[2], Height: n[3]}
		if vb.IsEmpty() {
			return geom.Rect{}, errors.New("viewBox: empty")
		}
		return vb, nil
	}

	w, werr := parseLength(root.Width)
	h, herr := parseLength(root.Height)
	if werr != nil || herr != nil {
		return geom.Rect{}, errors.New("no viewBox and no usable width/height")
	}
	return geom.Rect{Width: w, Height: h}, nil
}

// parseLength reads a positive user-unit length, allowing a px suffix.
func parseLength(s string) (float64, error) {
	b := []byte(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	f, n := strconv.ParseFloat(b)
	if n == 0 || n != len(b) || f <= 0 {
		return 0, fmt.Errorf("bad length %q", s)
	}
	return f, nil
}
