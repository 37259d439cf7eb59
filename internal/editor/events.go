package editor

import (
	"encoding/json"
	"fmt"

	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

// EventType names an event on the wire and in the transition table.
type EventType string

const (
	EventAddSymbol       EventType = "addSymbol"
	EventStartPath       EventType = "startPath"
	EventDeleteSelected  EventType = "deleteSelected"
	EventRecolorSelected EventType = "recolorSelected"
	EventCancel          EventType = "cancel"
	EventPointerDown     EventType = "pointerDown"
	EventPointerMove     EventType = "pointerMove"
	EventPointerUp       EventType = "pointerUp"
	EventClick           EventType = "click"
	EventDoubleClick     EventType = "doubleClick"
	EventPointerLeave    EventType = "pointerLeave"
	EventKey             EventType = "key"
	EventResize          EventType = "resize"
)

// Event is an input to the controller. Pointer coordinates are in screen
// space and are converted through the viewport.
type Event interface {
	Type() EventType
}

type AddSymbol struct {
	Kind       symbol.Kind `json:"kind"`
	TemplateID string      `json:"templateId,omitempty"` // defaults to the kind name
}

type StartPath struct {
	Curve  bool         `json:"curve"`
	Style  shape.Style  `json:"style,omitempty"`
	Ending shape.Ending `json:"ending,omitempty"`
	Stroke string       `json:"stroke,omitempty"`
}

type DeleteSelected struct{}

type RecolorSelected struct {
	Color string `json:"color"`
}

type Cancel struct{}

type PointerDown struct{ X, Y float64 }
type PointerMove struct{ X, Y float64 }
type PointerUp struct{ X, Y float64 }
type Click struct{ X, Y float64 }
type DoubleClick struct{ X, Y float64 }
type PointerLeave struct{}

// Key names follow the DOM KeyboardEvent.key values.
type Key struct {
	Name string `json:"name"`
}

type Resize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (AddSymbol) Type() EventType       { return EventAddSymbol }
func (StartPath) Type() EventType       { return EventStartPath }
func (DeleteSelected) Type() EventType  { return EventDeleteSelected }
func (RecolorSelected) Type() EventType { return EventRecolorSelected }
func (Cancel) Type() EventType          { return EventCancel }
func (PointerDown) Type() EventType     { return EventPointerDown }
func (PointerMove) Type() EventType     { return EventPointerMove }
func (PointerUp) Type() EventType       { return EventPointerUp }
func (Click) Type() EventType           { return EventClick }
func (DoubleClick) Type() EventType     { return EventDoubleClick }
func (PointerLeave) Type() EventType    { return EventPointerLeave }
func (Key) Type() EventType             { return EventKey }
func (Resize) Type() EventType          { return EventResize }

// DecodeEvent reads an event of the form {"type": "click", "x": 1, "y": 2}.
func DecodeEvent(data []byte) (Event, error) {
	var env struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var ev Event
	switch env.Type {
	case EventAddSymbol:
		ev = &AddSymbol{}
	case EventStartPath:
		ev = &StartPath{}
	case EventDeleteSelected:
		return DeleteSelected{}, nil
	case EventRecolorSelected:
		ev = &RecolorSelected{}
	case EventCancel:
		return Cancel{}, nil
	case EventPointerLeave:
		return PointerLeave{}, nil
	case EventKey:
		ev = &Key{}
	case EventResize:
		ev = &Resize{}
	case EventPointerDown, EventPointerMove, EventPointerUp, EventClick, EventDoubleClick:
		var pt struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		if err := json.Unmarshal(data, &pt); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return pointerEvent(env.Type, pt.X, pt.Y), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return deref(ev), nil
}

func pointerEvent(t EventType, x, y float64) Event {
	switch t {
	case EventPointerDown:
		return PointerDown{x, y}
	case EventPointerMove:
		return PointerMove{x, y}
	case EventPointerUp:
		return PointerUp{x, y}
	case EventDoubleClick:
		return DoubleClick{x, y}
	default:
		return Click{x, y}
	}
}

func deref(ev Event) Event {
	switch e := ev.(type) {
	case *AddSymbol:
		return *e
	case *StartPath:
		return *e
	case *RecolorSelected:
		return *e
	case *Key:
		return *e
	case *Resize:
		return *e
	}
	return ev
}
