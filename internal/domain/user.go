package domain

import "time"

// UserRole names a navigation role assigned to a user account.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the domain model for THQ user accounts, backed by the sys_user table.
type User struct {
	ID              string
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	DefaultNonsig   string
	Role            UserRole
	IsLocked        bool
	IsConfirmed     bool
	ConfirmationKey *string
	PasswordHash    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanSignIn reports whether the account may start a session.
func (u *User) CanSignIn() bool {
	return u.IsConfirmed && !u.IsLocked && u.PasswordHash != nil
}
