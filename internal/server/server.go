package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aquamonitor/internal/dashboard"
	"aquamonitor/internal/models"
	"aquamonitor/internal/stream"
	"aquamonitor/internal/telemetry"
	"aquamonitor/internal/wire"
)

// defaultHours is the dashboard window when the request omits one.
const defaultHours = 6

// Server wraps HTTP serving of the dashboard API.
type Server struct {
	httpServer   *http.Server
	repo         telemetry.Repository
	orchestrator *stream.Orchestrator
	dashboards   *dashboard.Service
	logger       *log.Logger
}

// New creates a configured HTTP server for the telemetry service.
func New(addr string, repo telemetry.Repository, orchestrator *stream.Orchestrator, dashboards *dashboard.Service, logger *log.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer:   &http.Server{Addr: addr, Handler: mux},
		repo:         repo,
		orchestrator: orchestrator,
		dashboards:   dashboards,
		logger:       logger,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/sources", s.handleSources)
	mux.HandleFunc("GET /api/dashboards/{id}", s.handleDashboard)
	mux.HandleFunc("GET /api/dashboards/{id}/stream", s.handleStream)
	mux.HandleFunc("GET /api/dashboards/{id}/ws", s.handleStreamWS)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	ids, err := s.repo.ListSourceIDs(r.Context())
	if err != nil {
		// Degrade to an empty list rather than failing the request.
		s.logger.Printf("list sources: %v", err)
	}
	sources := make([]models.Source, 0, len(ids))
	for _, id := range ids {
		sources = append(sources, models.NewSource(id))
	}
	s.writeCBOR(w, r, http.StatusOK, sources)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	page := s.dashboards.Build(r.Context(), id, parseHours(r))
	s.writeCBOR(w, r, http.StatusOK, page)
}

// parseHours reads the window from the query string, falling back to
// the default for anything missing or unusable.
func parseHours(r *http.Request) int {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return defaultHours
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultHours
	}
	return value
}

// frameCompressionNegotiated decides, once per connection, whether
// frame payloads are zstd-compressed. The client signals the
// capability through Accept-Encoding (or ?compress= for websocket
// clients that cannot set headers).
func frameCompressionNegotiated(r *http.Request) bool {
	if r.URL.Query().Get("compress") == wire.Encoding {
		return true
	}
	return strings.Contains(r.Header.Get("Accept-Encoding"), wire.Encoding)
}
