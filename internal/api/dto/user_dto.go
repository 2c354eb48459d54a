package dto

import "time"

// UserResponse is the wire shape for a user account. The password hash and
// confirmation key never leave the service.
type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	DefaultNonsig string    `json:"default_nonsig"`
	Role          string    `json:"role"`
	IsLocked      bool      `json:"is_locked"`
	IsConfirmed   bool      `json:"is_confirmed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserUpdateRequest payload for partial account updates.
type UserUpdateRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	DefaultNonsig *string `json:"default_nonsig"`
	Role          *string `json:"role"`
	IsLocked      *bool   `json:"is_locked"`
}
