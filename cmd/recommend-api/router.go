// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/verdora-ai/recommend-engine/cmd/recommend-api/handlers"
	"github.com/verdora-ai/recommend-engine/cmd/recommend-api/middleware"
	"github.com/verdora-ai/recommend-engine/internal/analytics"
	"github.com/verdora-ai/recommend-engine/internal/config"
	"github.com/verdora-ai/recommend-engine/internal/dialog"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
	"github.com/verdora-ai/recommend-engine/internal/session"
)

// Services bundles the wired application services for the router.
type Services struct {
	Engine    *retrieval.Engine
	Index     *index.Index
	Generator dialog.Generator // nil when no dialog key is configured
	Sessions  session.Store
	Tracker   *analytics.Tracker // nil when analytics is disabled
}

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, svc *Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"recommend-engine"}`))
	})

	chatHandler := handlers.NewChatHandler(logger, svc.Engine, svc.Generator, svc.Sessions, svc.Tracker)
	catalogHandler := handlers.NewCatalogHandler(logger, svc.Index)
	trackHandler := handlers.NewTrackHandler(logger, svc.Tracker)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BasicAuth(middleware.AuthConfig{
			Enabled: cfg.Auth.Enabled,
			Users:   cfg.Auth.Users,
		}))

		r.Post("/chat", chatHandler.Chat)
		r.Delete("/sessions/{sessionId}", chatHandler.ResetSession)

		r.Get("/categories", catalogHandler.Categories)
		r.Get("/products/{productId}", catalogHandler.Product)

		r.Post("/track/click", trackHandler.Click)
	})

	return r
}
