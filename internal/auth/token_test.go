package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SignVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	userID := "1f6f1c2e-user"
	role := "admin"
	token, exp, err := tm.Sign(&Claims{
		UserIsAuthenticated: true,
		UserID:              &userID,
		UserRole:            &role,
	}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.UserIsAuthenticated)
	require.NotNil(t, claims.UserID)
	assert.Equal(t, userID, *claims.UserID)
	require.NotNil(t, claims.UserRole)
	assert.Equal(t, role, *claims.UserRole)
	assert.Equal(t, PurposeSession, claims.Purpose)
}

func TestTokenManager_VerifyExpiredCarriesPurpose(t *testing.T) {
	tm := NewTokenManager("test-secret")

	tests := []struct {
		name    string
		purpose Purpose
	}{
		{name: "session", purpose: PurposeSession},
		{name: "registration", purpose: PurposeRegistration},
		{name: "password reset", purpose: PurposePasswordReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := tm.Sign(&Claims{Purpose: tt.purpose}, -time.Minute)
			require.NoError(t, err)

			_, err = tm.Verify(token)
			require.Error(t, err)

			var verr *VerificationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, KindExpired, verr.Kind)
			assert.Equal(t, tt.purpose, verr.Purpose)
		})
	}
}

func TestTokenManager_VerifyTampered(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, _, err := tm.Sign(&Claims{UserIsAuthenticated: true}, time.Hour)
	require.NoError(t, err)

	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = tm.Verify(string(tampered))
	require.Error(t, err)

	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, KindInvalid, verr.Kind)
}

func TestTokenManager_VerifyWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-one").Sign(&Claims{}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two").Verify(token)
	require.Error(t, err)

	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, KindInvalid, verr.Kind)
}

func TestTokenManager_VerifyMalformed(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.Verify(input)
		require.Error(t, err, "input %q", input)

		var verr *VerificationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, KindInvalid, verr.Kind)
	}
}
