// Package shape turns drawn point lists into renderable movement paths:
// curve fitting, stroke styles and line terminations.
package shape

// Style is the visual treatment of a path's outline.
type Style string

const (
	StyleSolid  Style = "solid"
	StyleDashed Style = "dashed"
	StyleDouble Style = "double"
	StyleWavy   Style = "wavy"
)

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	switch s {
	case StyleSolid, StyleDashed, StyleDouble, StyleWavy:
		return true
	}
	return false
}

// Ending is the marker drawn at a path's terminal point.
type Ending string

const (
	EndingNone  Ending = "none"
	EndingArrow Ending = "arrow"
	EndingTee   Ending = "tee"
)

// Valid reports whether e is one of the known endings.
func (e Ending) Valid() bool {
	switch e {
	case EndingNone, EndingArrow, EndingTee:
		return true
	}
	return false
}

// Visual constants in logical units. They are not user-configurable.
const (
	DefaultStrokeWidth = 3.0
	DefaultColor       = "#000000"

	DashLength = 12.0
	DashGap    = 8.0

	// OffsetStep is the sampling step used to build double strokes.
	OffsetStep = 4.0

	WaveAmplitude = 5.0
	WaveLength    = 20.0

	// WaveStep is the sampling step used to build wavy strokes.
	WaveStep = 2.0

	ArrowLength = 16.0
	ArrowWidth  = 12.0
	TeeLength   = 18.0

	// MarkerLength is how far a double stroke stops short of its end so
	// the marker is not drawn over two parallel lines.
	MarkerLength = ArrowLength
)
