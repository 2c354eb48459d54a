package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/thq-service/internal/observability"
)

type fakeLookup struct {
	decision Decision
	err      error

	calls      int
	lastMethod string
	lastURL    string
	lastRole   *string
}

func (f *fakeLookup) Authorize(_ context.Context, method, originalURL string, role *string) (Decision, error) {
	f.calls++
	f.lastMethod = method
	f.lastURL = originalURL
	f.lastRole = role
	return f.decision, f.err
}

func setupAuthorizerApp(lookup PermissionLookup, authCtx *Context) (*fiber.App, *bool) {
	app := fiber.New()
	if authCtx != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(contextKey, authCtx)
			return c.Next()
		})
	}

	authorizer := NewAuthorizer(lookup, zap.NewNop(), observability.NewMetrics())
	reached := false
	app.Get("/admin", authorizer.Handle, func(c *fiber.Ctx) error {
		reached = true
		return c.SendString("ok")
	})
	return app, &reached
}

func decodeDenial(t *testing.T, resp *http.Response) (bool, string) {
	t.Helper()
	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error, body.Message
}

func TestAuthorizer_MissingContextRejectsWithoutLookup(t *testing.T) {
	lookup := &fakeLookup{decision: Decision{Authorized: true}}
	app, reached := setupAuthorizerApp(lookup, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	hasError, message := decodeDenial(t, resp)
	assert.True(t, hasError)
	assert.Equal(t, "User unauthenticated", message)
	assert.Zero(t, lookup.calls, "lookup must not run for unauthenticated requests")
	assert.False(t, *reached)
}

func TestAuthorizer_AnonymousContextRejectsWithoutLookup(t *testing.T) {
	lookup := &fakeLookup{decision: Decision{Authorized: true}}
	authCtx := &Context{}
	app, reached := setupAuthorizerApp(lookup, authCtx)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, lookup.calls)
	assert.False(t, authCtx.IsAuthorized)
	assert.False(t, *reached)
}

func TestAuthorizer_AuthorizedDecisionProceeds(t *testing.T) {
	lookup := &fakeLookup{decision: Decision{Authorized: true}}
	userID := "user-42"
	role := "admin"
	authCtx := &Context{IsAuthenticated: true, UserID: &userID, UserRole: &role}
	app, reached := setupAuthorizerApp(lookup, authCtx)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin?tab=users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, *reached)
	assert.True(t, authCtx.IsAuthorized)

	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, http.MethodGet, lookup.lastMethod)
	assert.Equal(t, "/admin?tab=users", lookup.lastURL)
	require.NotNil(t, lookup.lastRole)
	assert.Equal(t, role, *lookup.lastRole)
}

func TestAuthorizer_DeniedDecisionRejects(t *testing.T) {
	lookup := &fakeLookup{decision: Decision{Authorized: false}}
	userID := "user-42"
	role := "user"
	authCtx := &Context{IsAuthenticated: true, UserID: &userID, UserRole: &role}
	app, reached := setupAuthorizerApp(lookup, authCtx)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	hasError, message := decodeDenial(t, resp)
	assert.True(t, hasError)
	assert.Equal(t, "User unauthorized with current privileges", message)
	assert.False(t, authCtx.IsAuthorized)
	assert.False(t, *reached)
}

func TestAuthorizer_LookupFailureRejects(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("navigation store down")}
	userID := "user-42"
	role := "admin"
	authCtx := &Context{IsAuthenticated: true, UserID: &userID, UserRole: &role}
	app, reached := setupAuthorizerApp(lookup, authCtx)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, message := decodeDenial(t, resp)
	assert.Equal(t, "User authorization failed", message)
	assert.False(t, authCtx.IsAuthorized)
	assert.False(t, *reached)
}
