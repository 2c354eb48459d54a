package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Purpose tags a token with the flow it belongs to. Session tokens carry no tag.
type Purpose string

const (
	PurposeSession       Purpose = ""
	PurposeRegistration  Purpose = "r"
	PurposePasswordReset Purpose = "h"
)

// VerificationKind classifies why a token failed verification.
type VerificationKind int

const (
	// KindInvalid covers signature mismatch, malformed input and tampering.
	KindInvalid VerificationKind = iota
	// KindExpired means the signature checked out but the TTL has passed.
	KindExpired
)

// VerificationError reports a failed Verify call. Expired errors carry the
// original claims' purpose tag so callers can produce a flow-specific message.
type VerificationError struct {
	Kind    VerificationKind
	Purpose Purpose
	err     error
}

func (e *VerificationError) Error() string {
	switch e.Kind {
	case KindExpired:
		return fmt.Sprintf("token expired: %v", e.err)
	default:
		return fmt.Sprintf("token invalid: %v", e.err)
	}
}

func (e *VerificationError) Unwrap() error {
	return e.err
}

// Claims is the signed, time-boxed claim set carried by every credential token.
type Claims struct {
	UserIsAuthenticated bool    `json:"userIsAuthenticated"`
	UserID              *string `json:"userId"`
	UserRole            *string `json:"userRole"`
	Purpose             Purpose `json:"purpose,omitempty"`
	// ConfirmationKey rides along on registration and password reset tokens.
	ConfirmationKey *string `json:"t,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies credential tokens with the process-wide secret.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Sign serializes the claims and signs them with an expiry of now + ttl.
func (tm *TokenManager) Sign(claims *Claims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the decoded claims. Failures
// are always a *VerificationError; no partially trusted claims escape.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			verr := &VerificationError{Kind: KindExpired, err: err}
			if parsed != nil {
				if claims, ok := parsed.Claims.(*Claims); ok {
					verr.Purpose = claims.Purpose
				}
			}
			return nil, verr
		}
		return nil, &VerificationError{Kind: KindInvalid, err: err}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, &VerificationError{Kind: KindInvalid, err: errors.New("invalid token claims")}
	}
	return claims, nil
}
