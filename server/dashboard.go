package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voocel/toolgate/sandbox"
	"github.com/voocel/toolgate/schema"
)

func (s *Server) dashboardRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleDashboardIndex)
	r.Get("/status", s.handleStatus)
	r.Get("/models", s.handleModels)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)
		pr.Post("/chat", s.handleChat)
		pr.Post("/sandbox", s.handleSandbox)
		pr.Post("/agent", s.handleAgent)
	})

	return r
}

func (s *Server) handleDashboardIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "Toolgate AI Dashboard",
		"endpoints": map[string]string{
			"GET /":         "This help",
			"GET /status":   "System status",
			"POST /chat":    "Chat with AI",
			"POST /sandbox": "Execute code in sandbox",
			"POST /agent":   "Run AI agent workflow",
			"GET /models":   "List available models",
		},
	})
}

// handleStatus reports a static operational snapshot. The service labels are
// literal, not a live health check.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "operational",
		"services": map[string]string{
			"aiGateway": "connected",
			"sandbox":   "available",
			"mcpServer": "running",
		},
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": s.cfg.Environment,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": s.svc.Models()})
}

type chatRequest struct {
	Messages []schema.Message `json:"messages"`
	Model    string           `json:"model"`
	Stream   bool             `json:"stream"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Messages == nil {
		writeError(w, http.StatusBadRequest, "Messages array required")
		return
	}

	if req.Stream {
		s.streamChat(w, r, req)
		return
	}

	resp, err := s.svc.Chat(r.Context(), req.Messages, req.Model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"text":  resp.Text,
		"usage": resp.Usage,
	})
}

// streamChat relays gateway fragments as server-sent events, one fragment at
// a time in production order, terminated by a [DONE] sentinel.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, req chatRequest) {
	events, err := s.svc.ChatStream(r.Context(), req.Messages, req.Model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for event := range events {
		switch event.Type {
		case schema.EventToken:
			token, ok := event.Data.(schema.TokenEvent)
			if !ok {
				continue
			}
			payload, _ := json.Marshal(map[string]string{"text": token.Delta})
			_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		case schema.EventError:
			payload, _ := json.Marshal(map[string]string{"error": event.Error.Error()})
			_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}

	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

type sandboxRequest struct {
	Code    string `json:"code"`
	Runtime string `json:"runtime"`
	Timeout int    `json:"timeout"`
}

func (s *Server) handleSandbox(w http.ResponseWriter, r *http.Request) {
	var req sandboxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "Code required")
		return
	}
	if req.Runtime == "" {
		req.Runtime = sandbox.DefaultRuntime
	}
	if req.Timeout <= 0 {
		req.Timeout = sandbox.DefaultTimeoutMS
	}

	result, err := s.svc.ExecuteCode(r.Context(), req.Code, req.Runtime, req.Timeout)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type agentRequest struct {
	Task  string `json:"task"`
	Model string `json:"model"`
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Task == "" {
		writeError(w, http.StatusBadRequest, "Task required")
		return
	}

	result, err := s.svc.RunAgent(r.Context(), req.Task, req.Model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
