package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rgiraldo/mini-user-api/internal/config"
	"github.com/rgiraldo/mini-user-api/internal/http/handlers"
	"github.com/rgiraldo/mini-user-api/internal/http/respond"
	"github.com/rgiraldo/mini-user-api/internal/middleware"
	"github.com/rgiraldo/mini-user-api/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore) *Server {
	rp := respond.New(cfg.Production())

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Logging, middleware.BodyLimit(cfg.MaxBodyBytes))
	router.NotFoundHandler = handlers.NotFound(rp)

	handlers.NewHealthHandler(time.Now(), rp).Register(router)
	handlers.NewUserHandler(store, rp).Register(router)

	handler := middleware.CORS(cfg.CORSOrigins, router)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
