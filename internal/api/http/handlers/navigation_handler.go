package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/thq-service/internal/auth"
	"github.com/spec-kit/thq-service/internal/navigation"
)

// NavigationHandler serves the role-scoped navigation links for the client shell.
type NavigationHandler struct {
	nav *navigation.Service
}

// NewNavigationHandler constructs handler.
func NewNavigationHandler(nav *navigation.Service) *NavigationHandler {
	return &NavigationHandler{nav: nav}
}

// Links handles GET /navigation/links.
func (h *NavigationHandler) Links(c *fiber.Ctx) error {
	role, err := roleFromRequest(c)
	if err != nil {
		return err
	}
	links, err := h.nav.LinksForRole(c.Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": links})
}

// Menus handles GET /navigation/menus.
func (h *NavigationHandler) Menus(c *fiber.Ctx) error {
	role, err := roleFromRequest(c)
	if err != nil {
		return err
	}
	menus, err := h.nav.Menus(c.Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menus})
}

func roleFromRequest(c *fiber.Ctx) (string, error) {
	authCtx, ok := auth.ContextFromRequest(c)
	if !ok || authCtx.UserRole == nil {
		return "", fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return *authCtx.UserRole, nil
}
