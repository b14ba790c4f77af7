// Package server mounts the two entry points: the MCP streamable-HTTP
// endpoint at /api/mcp and the JSON dashboard API at /dashboard.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/voocel/toolgate/config"
	"github.com/voocel/toolgate/service"
)

const (
	// Name identifies the process on the help surfaces.
	Name = "Toolgate MCP Server"

	// Version is the reported server version.
	Version = "1.0.0"

	mcpPath       = "/api/mcp"
	dashboardPath = "/dashboard"
	healthPath    = "/health"
)

// Server owns the HTTP surface. All real work happens in the service layer.
type Server struct {
	cfg config.Config
	svc *service.Service
}

// New creates a server over the given service.
func New(cfg config.Config, svc *service.Service) *Server {
	return &Server{cfg: cfg, svc: svc}
}

// Router builds the full route tree.
func (s *Server) Router() (http.Handler, error) {
	mcpHandler, err := s.mcpHandler()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get(healthPath, s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Handle(mcpPath, mcpHandler)
	r.Mount(dashboardPath, s.dashboardRouter())

	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    Name,
		"version": Version,
		"endpoints": map[string]string{
			"mcp":       mcpPath,
			"health":    healthPath,
			"dashboard": dashboardPath,
		},
		"tools": s.svc.ToolNames(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
