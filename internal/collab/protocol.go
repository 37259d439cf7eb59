package collab

import "encoding/json"

// Message is the websocket envelope in both directions.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Role is the part a client plays in a session.
type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool { return r == RoleEditor || r == RoleViewer }

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Editor input: payload is an editor event such as
	// {"type":"click","x":10,"y":20}.
	TypeEvent = "event"

	// Editor input: replace the document with the payload, or with the
	// demo drill.
	TypeDocLoad = "doc.load"
	TypeSample  = "doc.sample"

	// Document sync: payload is the serialized diagram.
	TypeDocSync = "doc.sync"

	// Render frame for the editor after each event.
	TypeRender = "render"

	TypePresenceState = "presence.state"
)

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
	DiagramID string `json:"diagramId"`
	Role      Role   `json:"role"`
}

type ErrorPayload struct {
	Message string `json:"message"`

	// Warnings lists diagram elements skipped while loading.
	Warnings []string `json:"warnings,omitempty"`
}

// RenderPayload carries the editor's frame plus its interaction state.
type RenderPayload struct {
	State     string          `json:"state"`
	Selection json.RawMessage `json:"selection"`
	Frame     json.RawMessage `json:"frame"`
}
