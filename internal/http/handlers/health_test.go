package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgiraldo/mini-user-api/internal/http/handlers"
	"github.com/rgiraldo/mini-user-api/internal/http/respond"
)

func TestHealth(t *testing.T) {
	router := mux.NewRouter()
	handlers.NewHealthHandler(time.Now().Add(-90*time.Second), respond.New(false)).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "1m30s", body["uptime"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestWelcome(t *testing.T) {
	router := mux.NewRouter()
	handlers.NewHealthHandler(time.Now(), respond.New(false)).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Welcome to the Mini User API", body["message"])
}

func TestNotFoundHandler(t *testing.T) {
	router := mux.NewRouter()
	router.NotFoundHandler = handlers.NotFound(respond.New(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Endpoint not found", body["error"])
	assert.NotEmpty(t, body["availableEndpoints"])
}
