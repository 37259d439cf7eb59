package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/drillboard/drillboard/backend-go/internal/editor"
	"github.com/drillboard/drillboard/backend-go/internal/typeid"
)

// Session is the live state of one diagram. Its fields are guarded by mu;
// the controller is only touched by the editor's read pump.
type Session struct {
	ID        string
	DiagramID string

	mu      sync.Mutex
	doc     []byte
	editor  *Client
	ctrl    *editor.Controller
	viewers map[string]*Client // clientID -> client
	save    func([]byte) error
}

func newSession(diagramID string, doc []byte, save func([]byte) error) *Session {
	return &Session{
		ID:        typeid.NewSessionID(),
		DiagramID: diagramID,
		doc:       doc,
		viewers:   make(map[string]*Client),
		save:      save,
	}
}

// attachEditor mounts a controller for c on the session document and
// returns the elements skipped while loading it.
func (s *Session) attachEditor(c *Client, opts editor.Options) []string {
	opts.OnCommit = s.committed
	ctrl, errs := editor.New(s.doc, opts)
	s.editor, s.ctrl = c, ctrl

	if doc, err := ctrl.Document(); err == nil {
		s.doc = doc
	}
	return errorStrings(errs)
}

// committed records, saves and fans out a committed document. Called with
// mu held, from inside Dispatch.
func (s *Session) committed(doc []byte) {
	s.doc = doc
	if err := s.save(doc); err != nil {
		slog.Error("save diagram", "error", err, "diagram", s.DiagramID)
		if s.editor != nil {
			s.editor.SendError("save failed", nil)
		}
	}
	s.broadcast(s.syncMessage())
}

// commitCurrent commits the controller's document after a wholesale load.
func (s *Session) commitCurrent() {
	doc, err := s.ctrl.Document()
	if err != nil {
		slog.Error("serialize diagram", "error", err, "diagram", s.DiagramID)
		return
	}
	s.committed(doc)
}

func (s *Session) syncMessage() *Message {
	doc := s.doc
	if len(doc) == 0 {
		doc = []byte(`{}`)
	}
	return &Message{Type: TypeDocSync, SessionID: s.ID, Payload: doc}
}

func (s *Session) sendRender() {
	if s.editor == nil || s.ctrl == nil {
		return
	}
	frame, err := json.Marshal(s.ctrl.Render())
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}
	sel, _ := json.Marshal(s.ctrl.Selection())
	payload, err := json.Marshal(RenderPayload{
		State:     s.ctrl.State().String(),
		Selection: sel,
		Frame:     frame,
	})
	if err != nil {
		slog.Error("marshal render", "error", err)
		return
	}
	s.editor.Send(&Message{Type: TypeRender, SessionID: s.ID, Payload: payload})
}

// broadcast sends msg to the editor and every viewer.
func (s *Session) broadcast(msg *Message) {
	if s.editor != nil {
		s.editor.Send(msg)
	}
	for _, c := range s.viewers {
		c.Send(msg)
	}
}
