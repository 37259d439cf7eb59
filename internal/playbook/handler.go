package playbook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/drillboard/drillboard/backend-go/internal/auth"
	"github.com/drillboard/drillboard/backend-go/internal/render"
)

// maxDocumentSize bounds request bodies on save.
const maxDocumentSize = 4 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the diagram routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/diagrams", h.List).Methods("GET")
	r.HandleFunc("/diagrams", h.Create).Methods("POST")
	r.HandleFunc("/diagrams/{diagramId}", h.Get).Methods("GET")
	r.HandleFunc("/diagrams/{diagramId}", h.Put).Methods("PUT")
	r.HandleFunc("/diagrams/{diagramId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/diagrams/{diagramId}/svg", h.SVG).Methods("GET")
	r.HandleFunc("/diagrams/{diagramId}/commands", h.Commands).Methods("GET")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.service.Create(r.Context(), body)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	slog.Info("diagram created", "diagram", res.ID, "user", auth.UserIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), mux.Vars(r)["diagramId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.service.Save(r.Context(), mux.Vars(r)["diagramId"], body)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["diagramId"]); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SVG(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.SVG(r.Context(), mux.Vars(r)["diagramId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.service.Commands(r.Context(), mux.Vars(r)["diagramId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if cmds == nil {
		cmds = []render.DrawCommand{}
	}
	writeJSON(w, http.StatusOK, cmds)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid diagram id"})
	case errors.Is(err, ErrInvalidDocument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document must be a JSON object"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
