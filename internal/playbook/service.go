// Package playbook serves stored diagrams over HTTP: load, validated save
// and SVG export.
package playbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/render"
	"github.com/drillboard/drillboard/backend-go/internal/store"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
	"github.com/drillboard/drillboard/backend-go/internal/typeid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid diagram id")
	ErrInvalidDocument = errors.New("invalid document")
)

type Service struct {
	store    store.Store
	provider symbol.Provider
	court    *symbol.Template
	logger   *slog.Logger
}

func NewService(st store.Store, provider symbol.Provider, court *symbol.Template, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, provider: provider, court: court, logger: logger}
}

func (s *Service) Provider() symbol.Provider { return s.provider }
func (s *Service) Court() *symbol.Template   { return s.court }

// SaveResult is the outcome of a validated save.
type SaveResult struct {
	ID       string          `json:"id"`
	Document json.RawMessage `json:"document"`
	Warnings []string        `json:"warnings"`
}

func checkID(id string) error {
	if err := typeid.Validate(id, typeid.PrefixDiagram); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return nil
}

// Get returns the stored document for id.
func (s *Service) Get(ctx context.Context, id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get diagram: %w", err)
	}
	return rec.Document, nil
}

// Load returns the scene stored under id. Elements that no longer validate
// (a template removed from the catalog, say) are dropped and logged.
func (s *Service) Load(ctx context.Context, id string) (*diagram.Scene, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	scene, _ := diagram.Deserialize(data, s.provider, s.logger)
	if s.court != nil && !s.court.ViewBox.IsEmpty() {
		scene.ViewBox = s.court.ViewBox
	}
	return scene, nil
}

// Save validates body through the diagram codec and stores the normalized
// document. Invalid elements are dropped and reported as warnings; only a
// body that is not a JSON object is rejected outright.
func (s *Service) Save(ctx context.Context, id string, body []byte) (*SaveResult, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, ErrInvalidDocument
	}

	scene, errs := diagram.Deserialize(trimmed, s.provider, s.logger)
	doc, err := diagram.Serialize(scene)
	if err != nil {
		return nil, fmt.Errorf("serialize diagram: %w", err)
	}
	if err := s.store.Put(ctx, id, doc); err != nil {
		return nil, fmt.Errorf("store diagram: %w", err)
	}

	warnings := make([]string, 0, len(errs))
	for _, e := range errs {
		warnings = append(warnings, e.Error())
	}
	return &SaveResult{ID: id, Document: doc, Warnings: warnings}, nil
}

// Create stores body under a fresh id. An empty body creates an empty
// diagram.
func (s *Service) Create(ctx context.Context, body []byte) (*SaveResult, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte(`{}`)
	}
	return s.Save(ctx, typeid.NewDiagramID(), body)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete diagram: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]store.Record, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	if recs == nil {
		recs = []store.Record{}
	}
	return recs, nil
}

// SVG renders the stored diagram on the configured court.
func (s *Service) SVG(ctx context.Context, id string) ([]byte, error) {
	scene, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, scene, s.provider, s.court); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}

// Commands compiles the stored diagram into draw commands.
func (s *Service) Commands(ctx context.Context, id string) ([]render.DrawCommand, error) {
	scene, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return render.Compile(scene, s.provider, render.Overlay{Court: s.court}), nil
}
