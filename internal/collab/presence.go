package collab

import (
	"encoding/json"
	"log/slog"
	"sort"
)

// Participant is one connected client as seen by the rest of the session.
type Participant struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
	Role     Role   `json:"role"`
}

type PresenceStatePayload struct {
	Participants []Participant `json:"participants"`
}

// presenceMessage lists the session's clients, editor first.
func (s *Session) presenceMessage() *Message {
	var list []Participant
	if s.editor != nil {
		list = append(list, s.editor.participant())
	}
	viewers := make([]Participant, 0, len(s.viewers))
	for _, c := range s.viewers {
		viewers = append(viewers, c.participant())
	}
	sort.Slice(viewers, func(i, j int) bool { return viewers[i].ClientID < viewers[j].ClientID })
	list = append(list, viewers...)

	payload, err := json.Marshal(PresenceStatePayload{Participants: list})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:      TypePresenceState,
		SessionID: s.ID,
		Payload:   payload,
	}
}
