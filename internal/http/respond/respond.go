// Package respond owns the JSON response surface: the success writer and the
// single terminal translation from internal error signals to the stable
// (status, code, message) taxonomy.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rgiraldo/mini-user-api/internal/middleware"
	"github.com/rgiraldo/mini-user-api/internal/storage"
	"github.com/rgiraldo/mini-user-api/internal/validation"
)

// Request-shaping failures produced in the handlers and classified here.
var (
	// ErrMalformedBody indicates the request body is not valid JSON.
	ErrMalformedBody = errors.New("request body is not valid JSON")

	// ErrPayloadTooLarge indicates the request body exceeded the size limit.
	ErrPayloadTooLarge = errors.New("request body exceeds the size limit")

	// ErrInvalidSearchTerm indicates a missing or too-short search term.
	ErrInvalidSearchTerm = errors.New("search term must be at least 2 characters")

	// ErrDeleteFailed indicates the store removed no row despite the prior
	// existence check.
	ErrDeleteFailed = errors.New("user could not be deleted")
)

// ErrorBody is the uniform error response shape.
type ErrorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// Responder writes JSON responses. In production mode, internal failures are
// reported with a generic message instead of diagnostic detail.
type Responder struct {
	production bool
}

// New constructs a Responder.
func New(production bool) *Responder {
	return &Responder{production: production}
}

// JSON writes a success payload with the given status.
func (rp *Responder) JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response payload")
	}
}

// Error inspects the failure signal from any upstream stage and writes
// exactly one taxonomy kind. First match wins.
func (rp *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		rp.writeError(w, http.StatusBadRequest, ErrorBody{
			Error:   "Validation failed",
			Message: "The request contains invalid fields",
			Code:    "VALIDATION_ERROR",
			Details: vErr.Details,
		})
	case errors.Is(err, ErrInvalidSearchTerm):
		rp.writeError(w, http.StatusBadRequest, ErrorBody{
			Error:   "Invalid search term",
			Message: "The search term must be at least 2 characters",
			Code:    "INVALID_SEARCH_TERM",
		})
	case errors.Is(err, storage.ErrDuplicateEmail):
		rp.writeError(w, http.StatusConflict, ErrorBody{
			Error:   "Duplicate email",
			Message: "The email is already registered",
			Code:    "DUPLICATE_EMAIL",
		})
	case errors.Is(err, storage.ErrNotFound):
		rp.writeError(w, http.StatusNotFound, ErrorBody{
			Error:   "User not found",
			Message: "No user exists with the given id",
			Code:    "USER_NOT_FOUND",
		})
	case errors.Is(err, storage.ErrInvalidReference):
		rp.writeError(w, http.StatusBadRequest, ErrorBody{
			Error:   "Invalid reference",
			Message: "The referenced record does not exist",
			Code:    "INVALID_REFERENCE",
		})
	case errors.Is(err, storage.ErrCheckViolation):
		rp.writeError(w, http.StatusBadRequest, ErrorBody{
			Error:   "Invalid data",
			Message: "The data does not satisfy the database constraints",
			Code:    "CONSTRAINT_VIOLATION",
		})
	case errors.Is(err, storage.ErrTimeout):
		rp.logError(r, err)
		rp.writeError(w, http.StatusGatewayTimeout, ErrorBody{
			Error:   "Timeout",
			Message: "The operation took too long to complete",
			Code:    "TIMEOUT_ERROR",
		})
	case errors.Is(err, storage.ErrUnavailable):
		rp.logError(r, err)
		rp.writeError(w, http.StatusServiceUnavailable, ErrorBody{
			Error:   "Service unavailable",
			Message: "Cannot connect to the database",
			Code:    "DATABASE_CONNECTION_ERROR",
		})
	case errors.Is(err, ErrMalformedBody):
		rp.writeError(w, http.StatusBadRequest, ErrorBody{
			Error:   "Invalid JSON",
			Message: "The request body is not valid JSON",
			Code:    "INVALID_JSON",
		})
	case errors.Is(err, ErrPayloadTooLarge):
		rp.writeError(w, http.StatusRequestEntityTooLarge, ErrorBody{
			Error:   "Payload too large",
			Message: "The request body exceeds the allowed size limit",
			Code:    "FILE_TOO_LARGE",
		})
	case errors.Is(err, ErrDeleteFailed):
		rp.logError(r, err)
		rp.writeError(w, http.StatusInternalServerError, ErrorBody{
			Error:   "Delete failed",
			Message: "The user could not be deleted",
			Code:    "DELETE_ERROR",
		})
	default:
		rp.logError(r, err)
		message := err.Error()
		if rp.production {
			message = "Internal server error"
		}
		rp.writeError(w, http.StatusInternalServerError, ErrorBody{
			Error:   "Internal server error",
			Message: message,
			Code:    "INTERNAL_SERVER_ERROR",
		})
	}
}

func (rp *Responder) writeError(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode error payload")
	}
}

func (rp *Responder) logError(r *http.Request, err error) {
	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Msg("request failed")
}
