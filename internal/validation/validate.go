// Package validation checks raw request input against the per-operation field
// rules and returns normalized, typed values. It never touches storage; all
// violations for a payload are collected before reporting.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rgiraldo/mini-user-api/internal/models"
	"github.com/rgiraldo/mini-user-api/internal/models/dto"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
)

// Error reports one or more field-level validation failures. Details preserves
// the order the rules were evaluated in.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// CreateUser validates the create payload and returns the normalized fields.
func CreateUser(req dto.CreateUserRequest) (models.NewUser, error) {
	var details []string

	if req.Name == nil {
		details = append(details, "name is required")
	} else {
		details = appendNameErrors(details, *req.Name)
	}
	if req.Email == nil {
		details = append(details, "email is required")
	} else {
		details = appendEmailErrors(details, *req.Email)
	}
	details = appendOptionalErrors(details, req.Age, req.Phone, req.Address)

	if len(details) > 0 {
		return models.NewUser{}, &Error{Details: details}
	}
	return models.NewUser{
		Name:    *req.Name,
		Email:   *req.Email,
		Age:     req.Age,
		Phone:   req.Phone,
		Address: req.Address,
	}, nil
}

// UpdateUser validates the partial update payload. A payload with no
// recognized fields fails with a single error.
func UpdateUser(req dto.UpdateUserRequest) (models.UserUpdate, error) {
	upd := models.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Age:     req.Age,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if upd.IsEmpty() {
		return models.UserUpdate{}, &Error{Details: []string{"must supply at least one field to update"}}
	}

	var details []string
	if req.Name != nil {
		details = appendNameErrors(details, *req.Name)
	}
	if req.Email != nil {
		details = appendEmailErrors(details, *req.Email)
	}
	details = appendOptionalErrors(details, req.Age, req.Phone, req.Address)

	if len(details) > 0 {
		return models.UserUpdate{}, &Error{Details: details}
	}
	return upd, nil
}

// UserID parses and validates a path id.
func UserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, &Error{Details: []string{"id must be a positive integer"}}
	}
	return id, nil
}

// ListQuery holds normalized pagination and search parameters.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Query validates page, limit, and search query parameters, applying defaults
// for the ones left absent.
func Query(values url.Values) (ListQuery, error) {
	q := ListQuery{Page: defaultPage, Limit: defaultLimit}
	var details []string

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			details = append(details, "page must be a positive integer")
		} else {
			q.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			details = append(details, fmt.Sprintf("limit must be an integer between 1 and %d", maxLimit))
		} else {
			q.Limit = limit
		}
	}
	if raw := values.Get("search"); raw != "" {
		if utf8.RuneCountInString(raw) > 100 {
			details = append(details, "search must be at most 100 characters")
		} else {
			q.Search = raw
		}
	}

	if len(details) > 0 {
		return ListQuery{}, &Error{Details: details}
	}
	return q, nil
}

func appendNameErrors(details []string, name string) []string {
	switch n := utf8.RuneCountInString(name); {
	case n < 2:
		details = append(details, "name must be at least 2 characters")
	case n > 100:
		details = append(details, "name must be at most 100 characters")
	}
	return details
}

func appendEmailErrors(details []string, email string) []string {
	if !emailPattern.MatchString(email) {
		details = append(details, "email must be a valid email address")
	}
	if utf8.RuneCountInString(email) > 255 {
		details = append(details, "email must be at most 255 characters")
	}
	return details
}

func appendOptionalErrors(details []string, age *int, phone, address *string) []string {
	if age != nil {
		if *age < 1 {
			details = append(details, "age must be greater than 0")
		} else if *age > 149 {
			details = append(details, "age must be less than 150")
		}
	}
	if phone != nil && !phonePattern.MatchString(*phone) {
		details = append(details, "phone must be a valid phone number")
	}
	if address != nil && utf8.RuneCountInString(*address) > 500 {
		details = append(details, "address must be at most 500 characters")
	}
	return details
}
