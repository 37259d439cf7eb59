package diagram

import (
	"strconv"

	"github.com/drillboard/drillboard/backend-go/internal/geom"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// NewSampleScene returns a small give-and-go drill on the builtin court
// templates.
func NewSampleScene() *Scene {
	s := NewScene(DefaultViewBox)

	place := func(kind symbol.Kind, x, y float64) {
		sym := &Symbol{TemplateID: string(kind), Kind: kind, X: x, Y: y}
		if pool := s.Pool(kind); pool != nil {
			sym.Label = strconv.Itoa(pool.Allocate())
		}
		s.AddSymbol(sym)
	}

	place(symbol.KindAttacker, 180, 420)
	place(symbol.KindAttacker, 380, 180)
	place(symbol.KindDefender, 300, 380)
	place(symbol.KindBall, 220, 440)
	place(symbol.KindCone, 600, 300)
	place(symbol.KindCone, 600, 200)
	place(symbol.KindCoach, 60, 60)

	s.AddPath(&Path{
		Points: []geom.Point{{X: 215, Y: 430}, {X: 395, Y: 215}},
		Style:  shape.StyleDashed,
		Ending: shape.EndingArrow,
	})
	s.AddPath(&Path{
		Points: []geom.Point{{X: 200, Y: 400}, {X: 320, Y: 300}, {X: 480, Y: 320}, {X: 580, Y: 240}},
		Curve:  true,
		Style:  shape.StyleSolid,
		Ending: shape.EndingArrow,
	})
	s.AddPath(&Path{
		Points: []geom.Point{{X: 400, Y: 220}, {X: 520, Y: 300}, {X: 600, Y: 260}},
		Curve:  true,
		Style:  shape.StyleWavy,
		Ending: shape.EndingNone,
	})
	s.AddPath(&Path{
		Points: []geom.Point{{X: 320, Y: 400}, {X: 400, Y: 470}},
		Style:  shape.StyleDouble,
		Ending: shape.EndingTee,
		Stroke: "#c62828",
	})
	return s
}
