package symbol

// Colors is the resolved paint of a rendered symbol.
type Colors struct {
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`
	Label  string `json:"label"`
}

const (
	DefaultColor = "#000000"

	// LabelOnFill is the label colour on filled (defender) symbols.
	LabelOnFill = "#ffffff"

	// OutlineFill is the body colour of outlined symbols.
	OutlineFill = "#ffffff"
)

// Paint resolves the colours of a symbol from its overrides. Defenders are
// drawn filled with the emphasis colour and a light label; every other kind
// is drawn outlined with the label in the emphasis colour.
func Paint(kind Kind, fill, stroke string) Colors {
	emphasis := stroke
	if emphasis == "" {
		emphasis = fill
	}
	if emphasis == "" {
		emphasis = DefaultColor
	}

	if kind == KindDefender {
		if fill == "" {
			fill = emphasis
		}
		return Colors{Fill: fill, Stroke: emphasis, Label: LabelOnFill}
	}

	if fill == "" {
		fill = OutlineFill
	}
	return Colors{Fill: fill, Stroke: emphasis, Label: emphasis}
}

// Recolor returns the fill and stroke overrides that give a symbol of kind
// the emphasis colour c.
func Recolor(kind Kind, c string) (fill, stroke string) {
	if kind == KindDefender {
		return c, c
	}
	return "", c
}
