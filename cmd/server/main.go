package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/drillboard/drillboard/backend-go/internal/asset"
	"github.com/drillboard/drillboard/backend-go/internal/auth"
	"github.com/drillboard/drillboard/backend-go/internal/collab"
	"github.com/drillboard/drillboard/backend-go/internal/config"
	"github.com/drillboard/drillboard/backend-go/internal/editor"
	"github.com/drillboard/drillboard/backend-go/internal/playbook"
	"github.com/drillboard/drillboard/backend-go/internal/store"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		slog.Error("open store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer st.Close()

	builtin := symbol.Builtin()
	catalog := symbol.NewCatalog(cfg.TemplateDir)
	provider := symbol.Chain{catalog, builtin}

	court, err := provider.Template(cfg.CourtTemplate)
	if err != nil {
		slog.Error("load court template", "error", err, "id", cfg.CourtTemplate)
		os.Exit(1)
	}
	if court.Kind != symbol.KindCourt {
		slog.Warn("court template has a placeable kind", "id", court.ID, "kind", court.Kind)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)

	playbookService := playbook.NewService(st, provider, court, slog.Default())
	playbookHandler := playbook.NewHandler(playbookService)

	// Document loader for the session hub
	docLoader := func(ctx context.Context, diagramID string) ([]byte, error) {
		doc, err := playbookService.Get(ctx, diagramID)
		if errors.Is(err, playbook.ErrNotFound) {
			return nil, nil
		}
		return doc, err
	}

	// Document saver for the session hub
	docSaver := func(ctx context.Context, diagramID string, doc []byte) error {
		_, err := playbookService.Save(ctx, diagramID, doc)
		return err
	}

	hub := collab.NewHub(docLoader, docSaver, editor.Options{
		Provider: provider,
		Court:    court,
		Logger:   slog.Default(),
	})

	assetHandler := asset.NewHandler(catalog, builtin)

	r := mux.NewRouter()

	// Global middleware
	r.Use(recovery)
	r.Use(requestLogger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Template catalog (public)
	r.HandleFunc("/templates", assetHandler.List).Methods("GET")
	r.HandleFunc("/templates/{file}", assetHandler.Serve).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(verifier.Middleware)

	playbookHandler.Register(api)
	api.HandleFunc("/templates", assetHandler.Upload).Methods("POST")

	// WebSocket endpoint
	origins := cfg.Origins()
	r.HandleFunc("/ws/diagrams/{diagramId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, verifier, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver, "court", court.ID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, verifier *auth.Verifier, origins []string) {
	diagramID := mux.Vars(r)["diagramId"]

	role := collab.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = collab.RoleViewer
	}
	if !role.Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	// Browsers cannot set headers on websocket requests, so the token
	// travels as a query parameter.
	userID, err := verifier.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, diagramID, clientID, role)

	if err := hub.Join(r.Context(), client); err != nil {
		reason := "join failed"
		if errors.Is(err, collab.ErrEditorPresent) {
			reason = collab.ErrEditorPresent.Error()
		} else {
			slog.Error("join session", "error", err, "diagram", diagramID)
		}
		conn.Close(websocket.StatusPolicyViolation, reason)
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
