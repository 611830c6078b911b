package dto

import (
	"time"

	"github.com/rgiraldo/mini-user-api/internal/models"
)

// CreateUserRequest is the JSON body accepted by POST /api/users. Pointers
// distinguish absent fields from zero values.
type CreateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Age     *int    `json:"age"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateUserRequest is the JSON body accepted by PUT /api/users/{id}.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Age     *int    `json:"age"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UserResponse is the external JSON shape of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromUser converts a persisted user to its external representation.
func FromUser(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsers converts a slice of users, always returning a non-nil slice so an
// empty page serializes as [] rather than null.
func FromUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = FromUser(u)
	}
	return out
}

// Pagination is the metadata block returned alongside paginated listings.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// NewPagination derives pagination metadata from the request window and the
// total matching row count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

// UserEnvelope wraps a single user success response.
type UserEnvelope struct {
	Message string       `json:"message"`
	Data    UserResponse `json:"data"`
}

// ListEnvelope wraps the paginated listing response.
type ListEnvelope struct {
	Message    string         `json:"message"`
	Data       []UserResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// SearchEnvelope wraps the search response.
type SearchEnvelope struct {
	Message      string         `json:"message"`
	Data         []UserResponse `json:"data"`
	SearchTerm   string         `json:"searchTerm"`
	TotalResults int            `json:"totalResults"`
}

// DeleteResult reports the removed id and when the removal happened.
type DeleteResult struct {
	ID        int64  `json:"id"`
	DeletedAt string `json:"deletedAt"`
}

// DeleteEnvelope wraps the delete response.
type DeleteEnvelope struct {
	Message string       `json:"message"`
	Data    DeleteResult `json:"data"`
}
