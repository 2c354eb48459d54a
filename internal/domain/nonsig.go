package domain

import (
	"errors"
	"strings"
	"time"
)

// NonsigCodeLength is the normalized width of a customer number.
const NonsigCodeLength = 9

// ErrEmptyNonsigCode is returned when no customer number is provided.
var ErrEmptyNonsigCode = errors.New("no customer number provided")

// Nonsig is a customer account record, backed by the sys_customer table.
type Nonsig struct {
	ID          string
	Code        string
	TradeStyle  string
	Addr1       string
	Addr2       *string
	City        string
	State       string
	PostalCode  string
	Country     string
	BrandKey    *string
	IsActive    bool
	IsActiveTHQ bool
	Type        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeNonsigCode pads short codes with leading zeros and truncates long
// ones to the canonical 9 characters.
func NormalizeNonsigCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrEmptyNonsigCode
	}
	if len(code) < NonsigCodeLength {
		return strings.Repeat("0", NonsigCodeLength-len(code)) + code, nil
	}
	return code[:NonsigCodeLength], nil
}

// Usable reports whether the nonsig may back new user registrations.
func (n *Nonsig) Usable() bool {
	return n.IsActive && n.IsActiveTHQ
}
