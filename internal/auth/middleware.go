package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/thq-service/internal/observability"
)

const (
	// TokenCookieName is the cookie (and query parameter) carrying the credential.
	TokenCookieName = "token"

	contextKey = "auth_context"
)

// Context is the per-request authentication state attached by the middleware
// chain. It is owned exclusively by the request that created it.
type Context struct {
	IsAuthenticated bool
	IsAuthorized    bool
	UserID          *string
	UserRole        *string
}

// ContextFromRequest retrieves the auth context attached to the request.
func ContextFromRequest(c *fiber.Ctx) (*Context, bool) {
	val := c.Locals(contextKey)
	if val == nil {
		return nil, false
	}
	authCtx, ok := val.(*Context)
	return authCtx, ok
}

// Middleware validates inbound credential tokens. It never rejects a request:
// a missing, malformed or expired token downgrades the request to an anonymous
// session and lets the authorizer decide downstream.
type Middleware struct {
	tokens     *TokenManager
	sessionTTL time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewMiddleware constructs the authentication middleware.
func NewMiddleware(tokens *TokenManager, sessionTTL time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Middleware {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Middleware{tokens: tokens, sessionTTL: sessionTTL, logger: logger, metrics: metrics}
}

// Handle runs once per request. Exactly one token cookie is written and the
// auth context is populated on every path before the chain continues.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	candidate := c.Cookies(TokenCookieName)
	if candidate == "" {
		candidate = c.Query(TokenCookieName)
	}
	candidate = strings.TrimPrefix(candidate, "Bearer ")

	if candidate == "" {
		return m.anonymous(c)
	}

	claims, err := m.tokens.Verify(candidate)
	if err != nil {
		// Expired and invalid tokens are treated alike: both fall back to an
		// anonymous session. The distinction matters only for diagnostics.
		var verr *VerificationError
		if errors.As(err, &verr) && verr.Kind == KindExpired {
			m.logger.Debug("expired token downgraded to anonymous session")
		} else {
			m.logger.Warn("invalid token downgraded to anonymous session", zap.Error(err))
		}
		return m.anonymous(c)
	}

	// Sliding renewal: every validated request gets a fresh token.
	renewed := &Claims{
		UserIsAuthenticated: true,
		UserID:              claims.UserID,
		UserRole:            claims.UserRole,
	}
	token, _, err := m.tokens.Sign(renewed, m.sessionTTL)
	if err != nil {
		m.logger.Error("token renewal failed", zap.Error(err))
		return m.anonymous(c)
	}

	m.setTokenCookie(c, token)
	c.Locals(contextKey, &Context{
		IsAuthenticated: true,
		UserID:          claims.UserID,
		UserRole:        claims.UserRole,
	})
	return c.Next()
}

// anonymous issues a fresh unauthenticated session and continues the chain.
func (m *Middleware) anonymous(c *fiber.Ctx) error {
	token, _, err := m.tokens.Sign(&Claims{UserIsAuthenticated: false}, m.sessionTTL)
	if err != nil {
		// Signer faults are fatal and unexpected; this is the one path where
		// the middleware surfaces an error.
		return err
	}

	m.metrics.RecordAnonymousSession()
	m.setTokenCookie(c, token)
	c.Locals(contextKey, &Context{})
	return c.Next()
}

func (m *Middleware) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:    TokenCookieName,
		Value:   token,
		Path:    "/",
		Expires: time.Now().Add(m.sessionTTL),
	})
}
