package auth

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 50
)

var (
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// ValidatePassword applies the account password policy to a password and its
// confirmation copy.
func ValidatePassword(password, confirm string) error {
	switch {
	case password != confirm:
		return errors.New("passwords do not match")
	case !upperPattern.MatchString(password):
		return errors.New("passwords should contain an uppercase letter")
	case !digitPattern.MatchString(password):
		return errors.New("passwords should contain a number")
	case len(password) < minPasswordLength:
		return errors.New("password needs to be at least 8 characters long")
	case len(password) > maxPasswordLength:
		return errors.New("passwords can not be over 50 characters long")
	}
	return nil
}

// ValidateAndHashPassword combines policy validation with hashing.
func ValidateAndHashPassword(password, confirm string, cost int) (string, error) {
	if err := ValidatePassword(password, confirm); err != nil {
		return "", err
	}
	return HashPassword(password, cost)
}
