package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/thq-service/internal/observability"
)

// Decision is the permission lookup verdict for a (method, path, role) triple.
type Decision struct {
	Authorized bool
}

// PermissionLookup maps an HTTP method, the original request URL and a role to
// an authorization decision. The role is nil for accounts without one.
type PermissionLookup interface {
	Authorize(ctx context.Context, method, originalURL string, role *string) (Decision, error)
}

// Authorizer gates protected routes based on the auth context attached by the
// authentication middleware and the external permission lookup.
type Authorizer struct {
	lookup  PermissionLookup
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthorizer constructs the authorization middleware.
func NewAuthorizer(lookup PermissionLookup, logger *zap.Logger, metrics *observability.Metrics) *Authorizer {
	return &Authorizer{lookup: lookup, logger: logger, metrics: metrics}
}

// Handle runs after the authentication middleware. Unauthenticated requests
// are rejected without consulting the lookup.
func (a *Authorizer) Handle(c *fiber.Ctx) error {
	authCtx, ok := ContextFromRequest(c)
	if !ok || !authCtx.IsAuthenticated || authCtx.UserID == nil {
		if ok {
			authCtx.IsAuthorized = false
		}
		return a.deny(c, "User unauthenticated")
	}

	decision, err := a.lookup.Authorize(c.UserContext(), c.Method(), c.OriginalURL(), authCtx.UserRole)
	if err != nil {
		a.logger.Error("permission lookup failed",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Error(err))
		authCtx.IsAuthorized = false
		return a.deny(c, "User authorization failed")
	}

	authCtx.IsAuthorized = decision.Authorized
	if !decision.Authorized {
		return a.deny(c, "User unauthorized with current privileges")
	}
	return c.Next()
}

func (a *Authorizer) deny(c *fiber.Ctx, message string) error {
	a.metrics.RecordAuthorizationDenied()
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
