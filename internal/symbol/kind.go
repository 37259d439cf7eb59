// Package symbol instantiates catalog templates as positioned, scaled and
// coloured scene symbols, and allocates the numbers shown on role symbols.
package symbol

// Kind is the role of a placed symbol.
type Kind string

const (
	KindAttacker Kind = "attacker"
	KindDefender Kind = "defender"
	KindBall     Kind = "ball"
	KindCone     Kind = "cone"
	KindCoach    Kind = "coach"

	// KindCourt marks background templates. It is never placed as a symbol.
	KindCourt Kind = "court"
)

// Kinds lists the placeable kinds in toolbar order.
var Kinds = []Kind{KindAttacker, KindDefender, KindBall, KindCone, KindCoach}

// Valid reports whether k can be placed on a court.
func (k Kind) Valid() bool {
	switch k {
	case KindAttacker, KindDefender, KindBall, KindCone, KindCoach:
		return true
	}
	return false
}

// Numbered reports whether symbols of this kind carry an allocated number.
func (k Kind) Numbered() bool {
	return k == KindAttacker || k == KindDefender
}
