package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/entryview/internal/config"
	"github.com/dgallion1/entryview/internal/entry"
	"github.com/dgallion1/entryview/internal/pipeline"
	"github.com/dgallion1/entryview/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for entryview.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        *entry.UpstreamStats
	renderer     *render.Renderer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(orch *pipeline.Orchestrator, stats *entry.UpstreamStats, renderer *render.Renderer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		stats:        stats,
		renderer:     renderer,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/static/chroma.css", s.handleStyleCSS)

	r.Get("/api/entries", s.handleListEntries)
	r.Get("/api/entries/{entryID}", s.handleGetEntry)
	r.Get("/api/stats/upstream", s.handleUpstreamStats)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Post("/api/toc", s.handleToc)
		r.Delete("/api/entries/{entryID}/cache", s.handleInvalidate)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
