package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	DefaultNonsig string `json:"default_nonsig"`
}

// LoginRequest payload for login by username or email.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ConfirmAccountRequest payload for account confirmation.
type ConfirmAccountRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// PasswordResetRequest payload to start a reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload to complete a reset.
type PasswordResetConfirmRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// PasswordChangeRequest payload for signed-in password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
