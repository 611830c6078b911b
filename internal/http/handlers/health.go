package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rgiraldo/mini-user-api/internal/http/respond"
)

// HealthHandler serves the welcome index and the health endpoint.
type HealthHandler struct {
	startedAt time.Time
	respond   *respond.Responder
}

// NewHealthHandler creates the handler.
func NewHealthHandler(startedAt time.Time, rp *respond.Responder) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, respond: rp}
}

// Register attaches the welcome and health routes.
func (h *HealthHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.handleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/api/health", h.handleHealth).Methods(http.MethodGet)
}

func (h *HealthHandler) handleWelcome(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the Mini User API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"users":  "/api/users",
			"health": "/api/health",
		},
	})
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// NotFound is the catch-all handler for unmatched routes.
func NotFound(rp *respond.Responder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rp.JSON(w, http.StatusNotFound, map[string]any{
			"error":   "Endpoint not found",
			"message": "The route " + r.URL.Path + " does not exist",
			"availableEndpoints": []string{
				"GET /",
				"GET /api/health",
				"GET /api/users",
				"POST /api/users",
				"GET /api/users/search",
				"GET /api/users/:id",
				"PUT /api/users/:id",
				"DELETE /api/users/:id",
			},
		})
	})
}
