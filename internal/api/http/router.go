package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/thq-service/internal/api/http/handlers"
	"github.com/spec-kit/thq-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Nonsigs        *handlers.NonsigsHandler
	Navigation     *handlers.NavigationHandler
	AuthMiddleware *auth.Middleware
	Authorizer     *auth.Authorizer
}

// RegisterRoutes wires HTTP routes. Health probes bypass the token pipeline;
// every other route passes through authentication first, and the protected
// groups add endpoint authorization on top.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Use(cfg.AuthMiddleware.Handle)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/confirm", cfg.Auth.ConfirmAccount)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/availability", cfg.Auth.Availability)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.Authorizer.Handle, cfg.Auth.ChangePassword)

	users := app.Group("/users", cfg.Authorizer.Handle)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)

	nonsigs := app.Group("/nonsigs", cfg.Authorizer.Handle)
	nonsigs.Post("/", cfg.Nonsigs.Create)
	nonsigs.Get("/", cfg.Nonsigs.List)
	nonsigs.Get("/:code", cfg.Nonsigs.Get)

	nav := app.Group("/navigation", cfg.Authorizer.Handle)
	nav.Get("/links", cfg.Navigation.Links)
	nav.Get("/menus", cfg.Navigation.Menus)
}
