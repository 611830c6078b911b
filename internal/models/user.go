package models

import "time"

// User is a persisted user row. Optional columns are pointers so a nil value
// round-trips as SQL NULL and JSON null.
type User struct {
	ID        int64
	Name      string
	Email     string
	Age       *int
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser carries the fields accepted when creating a user. The store assigns
// id and both timestamps.
type NewUser struct {
	Name    string
	Email   string
	Age     *int
	Phone   *string
	Address *string
}

// UserUpdate carries a partial mutation. A nil field is left untouched.
type UserUpdate struct {
	Name    *string
	Email   *string
	Age     *int
	Phone   *string
	Address *string
}

// IsEmpty reports whether the update touches no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Age == nil && u.Phone == nil && u.Address == nil
}
