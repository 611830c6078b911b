package storage

import (
	"context"
	"errors"

	"github.com/rgiraldo/mini-user-api/internal/models"
)

// Storage error kinds. The Postgres store classifies driver failures into
// these at the point of failure; nothing downstream inspects raw driver
// errors.
var (
	// ErrNotFound indicates the queried user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates a unique constraint violation on email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidReference indicates a foreign key constraint violation.
	ErrInvalidReference = errors.New("referenced record does not exist")

	// ErrCheckViolation indicates a CHECK constraint rejected the row.
	ErrCheckViolation = errors.New("check constraint violated")

	// ErrTimeout indicates the statement exceeded its deadline.
	ErrTimeout = errors.New("database operation timed out")

	// ErrUnavailable indicates the database cannot be reached.
	ErrUnavailable = errors.New("database unavailable")
)

// ListParams bounds a paginated listing. Search, when non-empty, filters to
// rows whose name or email contains the term case-insensitively.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the row offset implied by the page window.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// UserStore captures the persistence operations needed by the handlers.
type UserStore interface {
	CreateUser(ctx context.Context, input models.NewUser) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindAll(ctx context.Context, params ListParams) ([]models.User, error)
	Count(ctx context.Context, search string) (int, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}
