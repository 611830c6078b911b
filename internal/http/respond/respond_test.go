package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgiraldo/mini-user-api/internal/http/respond"
	"github.com/rgiraldo/mini-user-api/internal/storage"
	"github.com/rgiraldo/mini-user-api/internal/validation"
)

func writeError(t *testing.T, production bool, err error) (int, respond.ErrorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	respond.New(production).Error(rec, req, err)

	var body respond.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestError_Taxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: &validation.Error{Details: []string{"name is required"}}, wantStatus: 400, wantCode: "VALIDATION_ERROR"},
		{name: "invalid search term", err: respond.ErrInvalidSearchTerm, wantStatus: 400, wantCode: "INVALID_SEARCH_TERM"},
		{name: "duplicate email", err: storage.ErrDuplicateEmail, wantStatus: 409, wantCode: "DUPLICATE_EMAIL"},
		{name: "not found", err: storage.ErrNotFound, wantStatus: 404, wantCode: "USER_NOT_FOUND"},
		{name: "invalid reference", err: storage.ErrInvalidReference, wantStatus: 400, wantCode: "INVALID_REFERENCE"},
		{name: "check violation", err: storage.ErrCheckViolation, wantStatus: 400, wantCode: "CONSTRAINT_VIOLATION"},
		{name: "timeout", err: storage.ErrTimeout, wantStatus: 504, wantCode: "TIMEOUT_ERROR"},
		{name: "unavailable", err: storage.ErrUnavailable, wantStatus: 503, wantCode: "DATABASE_CONNECTION_ERROR"},
		{name: "malformed body", err: respond.ErrMalformedBody, wantStatus: 400, wantCode: "INVALID_JSON"},
		{name: "payload too large", err: respond.ErrPayloadTooLarge, wantStatus: 413, wantCode: "FILE_TOO_LARGE"},
		{name: "delete failed", err: respond.ErrDeleteFailed, wantStatus: 500, wantCode: "DELETE_ERROR"},
		{name: "fallback", err: errors.New("boom"), wantStatus: 500, wantCode: "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := writeError(t, false, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestError_ValidationCarriesDetails(t *testing.T) {
	details := []string{"name is required", "email is required"}
	_, body := writeError(t, false, &validation.Error{Details: details})
	assert.Equal(t, details, body.Details)
}

func TestError_WrappedStorageErrorStillMaps(t *testing.T) {
	wrapped := erroredOp(storage.ErrDuplicateEmail)
	status, body := writeError(t, false, wrapped)
	assert.Equal(t, 409, status)
	assert.Equal(t, "DUPLICATE_EMAIL", body.Code)
}

func erroredOp(err error) error {
	return errors.Join(errors.New("create user"), err)
}

func TestError_FallbackMessageByMode(t *testing.T) {
	_, devBody := writeError(t, false, errors.New("pool exploded"))
	assert.Equal(t, "pool exploded", devBody.Message)

	_, prodBody := writeError(t, true, errors.New("pool exploded"))
	assert.Equal(t, "Internal server error", prodBody.Message)
}

func TestJSON_WritesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.New(false).JSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}
