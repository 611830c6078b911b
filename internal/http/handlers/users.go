package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/rgiraldo/mini-user-api/internal/http/respond"
	"github.com/rgiraldo/mini-user-api/internal/models"
	"github.com/rgiraldo/mini-user-api/internal/models/dto"
	"github.com/rgiraldo/mini-user-api/internal/storage"
	"github.com/rgiraldo/mini-user-api/internal/validation"
)

// UserHandler sequences validation, uniqueness checks, and store calls for
// each user operation.
type UserHandler struct {
	store   storage.UserStore
	respond *respond.Responder
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, rp *respond.Responder) *UserHandler {
	return &UserHandler{store: store, respond: rp}
}

// Register attaches the user routes to the router. The search route must be
// registered before the id route so "search" is not captured as an id.
func (h *UserHandler) Register(r *mux.Router) {
	users := r.PathPrefix("/api/users").Subrouter()
	users.HandleFunc("", h.Create).Methods(http.MethodPost)
	users.HandleFunc("", h.List).Methods(http.MethodGet)
	users.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.GetByID).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.Update).Methods(http.MethodPut)
	users.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	input, err := validation.CreateUser(req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	// Advisory pre-check for a friendly error; the unique constraint is the
	// source of truth.
	if _, err := h.store.FindByEmail(r.Context(), input.Email); err == nil {
		h.respond.Error(w, r, storage.ErrDuplicateEmail)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.respond.Error(w, r, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), input)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, dto.UserEnvelope{
		Message: "User created successfully",
		Data:    dto.FromUser(user),
	})
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := validation.Query(r.URL.Query())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	users, total, err := h.fetchPage(r, query)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.ListEnvelope{
		Message:    "Users retrieved successfully",
		Data:       dto.FromUsers(users),
		Pagination: dto.NewPagination(query.Page, query.Limit, total),
	})
}

// Search handles GET /api/users/search.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, err := validation.Query(r.URL.Query())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	query.Search = strings.TrimSpace(query.Search)
	if utf8.RuneCountInString(query.Search) < 2 {
		h.respond.Error(w, r, respond.ErrInvalidSearchTerm)
		return
	}

	users, total, err := h.fetchPage(r, query)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.SearchEnvelope{
		Message:      fmt.Sprintf("Search completed. Found %d users", total),
		Data:         dto.FromUsers(users),
		SearchTerm:   query.Search,
		TotalResults: total,
	})
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := validation.UserID(mux.Vars(r)["id"])
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	user, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.UserEnvelope{
		Message: "User retrieved successfully",
		Data:    dto.FromUser(user),
	})
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.UserID(mux.Vars(r)["id"])
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	upd, err := validation.UpdateUser(req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	current, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	// Only consult the uniqueness pre-check when the email actually changes,
	// so updating a user's email to its own value never conflicts with itself.
	if upd.Email != nil && *upd.Email != current.Email {
		if _, err := h.store.FindByEmail(r.Context(), *upd.Email); err == nil {
			h.respond.Error(w, r, storage.ErrDuplicateEmail)
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			h.respond.Error(w, r, err)
			return
		}
	}

	user, err := h.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.UserEnvelope{
		Message: "User updated successfully",
		Data:    dto.FromUser(user),
	})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.UserID(mux.Vars(r)["id"])
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if _, err := h.store.FindByID(r.Context(), id); err != nil {
		h.respond.Error(w, r, err)
		return
	}

	deleted, err := h.store.DeleteUser(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if !deleted {
		// The row vanished between the existence check and the delete.
		h.respond.Error(w, r, respond.ErrDeleteFailed)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.DeleteEnvelope{
		Message: "User deleted successfully",
		Data: dto.DeleteResult{
			ID:        id,
			DeletedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// fetchPage runs the page query and the matching count concurrently; the two
// have no ordering dependency.
func (h *UserHandler) fetchPage(r *http.Request, query validation.ListQuery) ([]models.User, int, error) {
	var (
		users []models.User
		total int
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		users, err = h.store.FindAll(ctx, storage.ListParams{
			Page:   query.Page,
			Limit:  query.Limit,
			Search: query.Search,
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.store.Count(ctx, query.Search)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return respond.ErrPayloadTooLarge
		}
		return respond.ErrMalformedBody
	}
	return nil
}
