package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/drillboard/drillboard/backend-go/internal/render"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

const maxUploadSize = 1 << 20 // 1MB

// TemplateInfo describes one catalog entry.
type TemplateInfo struct {
	ID      string      `json:"id"`
	Kind    symbol.Kind `json:"kind"`
	ViewBox [4]float64  `json:"viewBox"`
	URL     string      `json:"url"`
	Builtin bool        `json:"builtin,omitempty"`
}

// Handler serves the symbol template catalog. Templates on disk shadow the
// built-in set.
type Handler struct {
	catalog  *symbol.Catalog
	fallback symbol.Static
	started  time.Time
}

// NewHandler serves templates from catalog, falling back to fallback for
// ids missing on disk.
func NewHandler(catalog *symbol.Catalog, fallback symbol.Static) *Handler {
	if err := os.MkdirAll(catalog.Dir(), 0755); err != nil {
		slog.Error("create template dir", "error", err, "dir", catalog.Dir())
	}
	return &Handler{catalog: catalog, fallback: fallback, started: time.Now()}
}

func info(t *symbol.Template, builtin bool) TemplateInfo {
	vb := t.ViewBox
	return TemplateInfo{
		ID:      t.ID,
		Kind:    t.Kind,
		ViewBox: [4]float64{vb.X, vb.Y, vb.Width, vb.Height},
		URL:     "/templates/" + t.ID + ".svg",
		Builtin: builtin,
	}
}

// List handles GET /templates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	onDisk, err := h.catalog.List()
	if err != nil {
		slog.Error("list templates", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	seen := make(map[string]bool, len(onDisk))
	out := make([]TemplateInfo, 0, len(onDisk)+len(h.fallback))
	for _, t := range onDisk {
		seen[t.ID] = true
		out = append(out, info(t, false))
	}
	for id, t := range h.fallback {
		if !seen[id] {
			out = append(out, info(t, true))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	writeJSON(w, http.StatusOK, out)
}

// Serve handles GET /templates/{file}, where file is <id>.svg.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	id, ok := strings.CutSuffix(name, ".svg")
	if !ok || !symbol.ValidID(id) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")

	path, _ := h.catalog.File(id)
	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		stat, err := f.Stat()
		if err != nil {
			http.Error(w, "failed to read template", http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, name, stat.ModTime(), f)
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Error("open template", "error", err, "id", id)
		http.Error(w, "failed to read template", http.StatusInternalServerError)
		return
	}

	tpl, ok := h.fallback[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := render.WriteTemplate(&buf, tpl); err != nil {
		slog.Error("render builtin template", "error", err, "id", id)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, name, h.started, bytes.NewReader(buf.Bytes()))
}

// Upload handles POST /api/templates (multipart form with a "file" field
// and an optional "id"; the id defaults to the file name). The file must
// parse as a template before it replaces anything on disk.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 1MB)"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	id := r.FormValue("id")
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	}
	if !symbol.ValidID(id) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template id"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	tpl, err := symbol.ParseTemplate(id, bytes.NewReader(data))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store(id, data); err != nil {
		slog.Error("store template", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
		return
	}
	h.catalog.Invalidate(id)

	slog.Info("template uploaded", "id", id, "kind", tpl.Kind)
	writeJSON(w, http.StatusCreated, info(tpl, false))
}

// store writes data to the template's file through a temporary file so
// readers never see a partial template.
func (h *Handler) store(id string, data []byte) error {
	path, err := h.catalog.File(id)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(h.catalog.Dir(), id+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
