// Package transport exposes the query pipeline over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/gateway"
	"github.com/teammon/teammon/internal/usecase"
)

const (
	serviceName  = "team-activity-monitor"
	queryTimeout = 30 * time.Second

	minDays = 1
	maxDays = 365
)

// ConnectionTester reports whether a provider connection is usable.
type ConnectionTester interface {
	Name() string
	TestConnection(ctx context.Context) (*gateway.ConnectionInfo, error)
}

// Handler serves the REST API for activity queries.
type Handler struct {
	service *usecase.Service
	jira    ConnectionTester
	github  ConnectionTester
	logger  *zap.Logger
}

// NewHandler creates a Handler around the query service and the two
// provider connections.
func NewHandler(service *usecase.Service, jira, github ConnectionTester, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		jira:    jira,
		github:  github,
		logger:  logger,
	}
}

// Router builds the API route table.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", h.Health)
	r.Get("/api/status", h.Status)
	r.Post("/api/query", h.Query)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Not found",
			"message": "The requested endpoint does not exist",
		})
	})
	return r
}

// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": serviceName,
	})
}

// GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	services := map[string]string{}
	healthy := true
	for _, tester := range []ConnectionTester{h.jira, h.github} {
		key := strings.ToLower(tester.Name())
		if _, err := tester.TestConnection(ctx); err != nil {
			h.logger.Warn("connection check failed", zap.String("provider", tester.Name()), zap.Error(err))
			services[key] = "error: " + err.Error()
			healthy = false
			continue
		}
		services[key] = "connected"
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"services": services,
	})
}

type queryRequest struct {
	Query *string `json:"query"`
	Days  *int    `json:"days"`
}

// POST /api/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Missing 'query' field in request body",
		})
		return
	}
	if strings.TrimSpace(*req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Query must be a non-empty string",
		})
		return
	}

	days := usecase.DefaultDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < minDays || days > maxDays {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Days must be an integer between 1 and 365",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	answer, err := h.service.AnswerQuery(ctx, *req.Query, days)
	if err != nil {
		if errors.Is(err, usecase.ErrNoUsername) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":      "Could not extract username from query",
				"suggestion": "Try asking 'What is [Name] working on?'",
				"query":      *req.Query,
			})
			return
		}
		h.logger.Error("query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
