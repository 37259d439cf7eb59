// Package collab runs live diagram sessions over websockets. A session has
// at most one editor, who drives an editor.Controller, and any number of
// read-only viewers who receive the document after every commit.
package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/drillboard/drillboard/backend-go/internal/editor"
)

var (
	ErrEditorPresent = errors.New("diagram already has an editor")
	ErrReadOnly      = errors.New("viewers cannot edit")
	ErrShutdown      = errors.New("hub is shut down")
	ErrBadRole       = errors.New("unknown role")
)

const saveTimeout = 10 * time.Second

// Loader returns the stored document for a diagram, or nil for a diagram
// that does not exist yet.
type Loader func(ctx context.Context, diagramID string) ([]byte, error)

// Saver persists a committed document.
type Saver func(ctx context.Context, diagramID string, doc []byte) error

type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session // diagramID -> session
	load     Loader
	save     Saver
	opts     editor.Options
	stopped  bool
}

// NewHub returns a hub whose editors are built with opts. OnCommit in opts
// is replaced per session.
func NewHub(load Loader, save Saver, opts editor.Options) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		load:     load,
		save:     save,
		opts:     opts,
	}
}

// Join admits c to its diagram's session, creating the session on first
// join. A second editor is refused with ErrEditorPresent.
func (h *Hub) Join(ctx context.Context, c *Client) error {
	if !c.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrBadRole, c.Role)
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return ErrShutdown
	}
	_, ok := h.sessions[c.DiagramID]
	h.mu.Unlock()

	// The store round-trip happens outside the hub lock. A session created
	// by a concurrent join in the meantime wins over the loaded document.
	var doc []byte
	if !ok {
		var err error
		doc, err = h.load(ctx, c.DiagramID)
		if err != nil {
			return fmt.Errorf("load diagram: %w", err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return ErrShutdown
	}

	s, ok := h.sessions[c.DiagramID]
	if !ok {
		s = newSession(c.DiagramID, doc, h.saverFor(c.DiagramID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var warnings []string
	switch c.Role {
	case RoleEditor:
		if s.editor != nil {
			return ErrEditorPresent
		}
		warnings = s.attachEditor(c, h.opts)
	case RoleViewer:
		s.viewers[c.ClientID] = c
	}
	h.sessions[c.DiagramID] = s

	welcome, _ := json.Marshal(WelcomePayload{
		SessionID: s.ID,
		ClientID:  c.ClientID,
		DiagramID: c.DiagramID,
		Role:      c.Role,
	})
	c.Send(&Message{Type: TypeWelcome, SessionID: s.ID, ClientID: c.ClientID, Payload: welcome})
	c.Send(s.syncMessage())
	if c.Role == RoleEditor {
		if len(warnings) > 0 {
			c.SendError("some diagram elements were skipped", warnings)
		}
		s.sendRender()
	}
	s.broadcast(s.presenceMessage())

	slog.Info("client joined", "client", c.ClientID, "user", c.UserID, "diagram", c.DiagramID, "role", c.Role)
	return nil
}

// Leave removes c from its session and closes its send queue. The session
// is dropped once empty.
func (h *Hub) Leave(c *Client) {
	defer c.close()

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[c.DiagramID]
	if !ok {
		return
	}

	s.mu.Lock()
	switch {
	case s.editor == c:
		s.editor, s.ctrl = nil, nil
	case s.viewers[c.ClientID] == c:
		delete(s.viewers, c.ClientID)
	default:
		s.mu.Unlock()
		return
	}
	empty := s.editor == nil && len(s.viewers) == 0
	if !empty {
		s.broadcast(s.presenceMessage())
	}
	s.mu.Unlock()

	if empty {
		delete(h.sessions, c.DiagramID)
	}
	slog.Info("client left", "client", c.ClientID, "diagram", c.DiagramID, "role", c.Role)
}

// Shutdown closes every client and refuses new joins. Documents are saved
// on each commit, so nothing is pending.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
	for id, s := range h.sessions {
		s.mu.Lock()
		if s.editor != nil {
			s.editor.close()
		}
		for _, c := range s.viewers {
			c.close()
		}
		s.mu.Unlock()
		delete(h.sessions, id)
	}
}

// Sessions returns the number of live sessions.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) session(diagramID string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[diagramID]
}

func (h *Hub) saverFor(diagramID string) func([]byte) error {
	if h.save == nil {
		return func([]byte) error { return nil }
	}
	return func(doc []byte) error {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return h.save(ctx, diagramID, doc)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	s := h.session(sender.DiagramID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sender != s.editor || s.ctrl == nil {
		sender.SendError(ErrReadOnly.Error(), nil)
		return
	}

	switch msg.Type {
	case TypeEvent:
		ev, err := editor.DecodeEvent(msg.Payload)
		if err != nil {
			sender.SendError(err.Error(), nil)
			return
		}
		if err := s.ctrl.Dispatch(ev); err != nil {
			sender.SendError(err.Error(), nil)
		}
	case TypeDocLoad:
		errs := s.ctrl.Load(msg.Payload)
		if len(errs) > 0 {
			sender.SendError("some diagram elements were skipped", errorStrings(errs))
		}
		s.commitCurrent()
	case TypeSample:
		s.ctrl.LoadSample()
		s.commitCurrent()
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.SendError(fmt.Sprintf("unknown message type %q", msg.Type), nil)
		return
	}
	s.sendRender()
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
