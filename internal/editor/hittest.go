package editor

import (
	"math"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/geom"
)

// symbolAt returns the topmost symbol whose footprint contains pt.
func (c *Controller) symbolAt(pt geom.Point) *diagram.Symbol {
	for i := len(c.scene.Symbols) - 1; i >= 0; i-- {
		sym := c.scene.Symbols[i]
		inst, err := c.instance(sym)
		if err != nil {
			continue
		}
		if inst.Bounds.Contains(pt) {
			return sym
		}
	}
	return nil
}

// pathAt returns the topmost path whose stroke passes within
// StrokeHitSlack of pt.
func (c *Controller) pathAt(pt geom.Point) *diagram.Path {
	for i := len(c.scene.Paths) - 1; i >= 0; i-- {
		p := c.scene.Paths[i]
		r := p.Render()
		reach := r.Width/2 + StrokeHitSlack
		for _, s := range r.Strokes {
			if geom.DistanceToPolyline(pt, geom.Flatten(s.Path)) <= reach {
				return p
			}
		}
	}
	return nil
}

// hitTest picks the element under pt. Exact hits win, symbols before
// paths since symbols are drawn on top. Otherwise the element whose bounds
// are nearest to pt within SelectTolerance is chosen.
func (c *Controller) hitTest(pt geom.Point) Selection {
	if sym := c.symbolAt(pt); sym != nil {
		return Selection{Symbol: sym.ID}
	}
	if p := c.pathAt(pt); p != nil {
		return Selection{Path: p.ID}
	}

	best := Selection{}
	bestDist := math.Inf(1)
	consider := func(sel Selection, bounds geom.Rect) {
		d := geom.DistanceToRect(pt, bounds)
		if d <= SelectTolerance && d < bestDist {
			best, bestDist = sel, d
		}
	}
	for _, sym := range c.scene.Symbols {
		if inst, err := c.instance(sym); err == nil {
			consider(Selection{Symbol: sym.ID}, inst.Bounds)
		}
	}
	for _, p := range c.scene.Paths {
		consider(Selection{Path: p.ID}, p.Render().Bounds())
	}
	return best
}
