package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/thq-service/internal/observability"
)

type contextCapture struct {
	ctx *Context
}

func setupAuthApp(t *testing.T, tm *TokenManager) (*fiber.App, *contextCapture, *observability.Metrics) {
	t.Helper()

	app := fiber.New()
	metrics := observability.NewMetrics()
	mw := NewMiddleware(tm, time.Hour, zap.NewNop(), metrics)
	app.Use(mw.Handle)

	capture := &contextCapture{}
	app.Get("/probe", func(c *fiber.Ctx) error {
		ctx, ok := ContextFromRequest(c)
		require.True(t, ok, "auth context must be attached on every path")
		capture.ctx = ctx
		return c.SendString("ok")
	})
	return app, capture, metrics
}

func tokenCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == TokenCookieName {
			return cookie
		}
	}
	t.Fatal("no token cookie set")
	return nil
}

func TestMiddleware_NoCredentialIssuesAnonymousSession(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app, capture, metrics := setupAuthApp(t, tm)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, capture.ctx)
	assert.False(t, capture.ctx.IsAuthenticated)
	assert.False(t, capture.ctx.IsAuthorized)
	assert.Nil(t, capture.ctx.UserID)
	assert.Equal(t, int64(1), metrics.Snapshot().AnonymousSessions)

	claims, err := tm.Verify(tokenCookie(t, resp).Value)
	require.NoError(t, err)
	assert.False(t, claims.UserIsAuthenticated)
	assert.Nil(t, claims.UserID)
}

func TestMiddleware_ValidTokenRenewsSession(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app, capture, metrics := setupAuthApp(t, tm)

	userID := "user-42"
	role := "admin"
	token, _, err := tm.Sign(&Claims{
		UserIsAuthenticated: true,
		UserID:              &userID,
		UserRole:            &role,
	}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, capture.ctx)
	assert.True(t, capture.ctx.IsAuthenticated)
	require.NotNil(t, capture.ctx.UserID)
	assert.Equal(t, userID, *capture.ctx.UserID)
	require.NotNil(t, capture.ctx.UserRole)
	assert.Equal(t, role, *capture.ctx.UserRole)

	// The renewed token reproduces the identity with a reset 1h expiry.
	claims, err := tm.Verify(tokenCookie(t, resp).Value)
	require.NoError(t, err)
	assert.True(t, claims.UserIsAuthenticated)
	assert.Equal(t, userID, *claims.UserID)
	assert.Equal(t, role, *claims.UserRole)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.Equal(t, int64(0), metrics.Snapshot().AnonymousSessions)
}

func TestMiddleware_BearerPrefixAndQueryFallback(t *testing.T) {
	tm := NewTokenManager("test-secret")

	userID := "user-7"
	token, _, err := tm.Sign(&Claims{UserIsAuthenticated: true, UserID: &userID}, time.Minute)
	require.NoError(t, err)

	t.Run("bearer prefix in cookie", func(t *testing.T) {
		app, capture, _ := setupAuthApp(t, tm)
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "Bearer " + token})
		_, err := app.Test(req)
		require.NoError(t, err)
		require.NotNil(t, capture.ctx)
		assert.True(t, capture.ctx.IsAuthenticated)
	})

	t.Run("token in query string", func(t *testing.T) {
		app, capture, _ := setupAuthApp(t, tm)
		req := httptest.NewRequest(http.MethodGet, "/probe?token="+token, nil)
		_, err := app.Test(req)
		require.NoError(t, err)
		require.NotNil(t, capture.ctx)
		assert.True(t, capture.ctx.IsAuthenticated)
	})
}

func TestMiddleware_TamperedTokenEqualsMissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app, capture, metrics := setupAuthApp(t, tm)

	userID := "user-42"
	token, _, err := tm.Sign(&Claims{UserIsAuthenticated: true, UserID: &userID}, time.Minute)
	require.NoError(t, err)

	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: string(tampered)})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, capture.ctx)
	assert.False(t, capture.ctx.IsAuthenticated)
	assert.Nil(t, capture.ctx.UserID)
	assert.Equal(t, int64(1), metrics.Snapshot().AnonymousSessions)

	claims, err := tm.Verify(tokenCookie(t, resp).Value)
	require.NoError(t, err)
	assert.False(t, claims.UserIsAuthenticated)
}

func TestMiddleware_ExpiredTokenFallsBackToAnonymous(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app, capture, _ := setupAuthApp(t, tm)

	userID := "user-42"
	token, _, err := tm.Sign(&Claims{UserIsAuthenticated: true, UserID: &userID}, -2*time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, capture.ctx)
	assert.False(t, capture.ctx.IsAuthenticated)

	claims, err := tm.Verify(tokenCookie(t, resp).Value)
	require.NoError(t, err)
	assert.False(t, claims.UserIsAuthenticated)
}
