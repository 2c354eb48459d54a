package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/thq-service/internal/api/dto"
	"github.com/spec-kit/thq-service/internal/auth"
	"github.com/spec-kit/thq-service/internal/service"
)

// AuthHandler exposes registration, login and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.DefaultNonsig == "" {
		return fiber.NewError(http.StatusBadRequest, "username, email and default_nonsig required")
	}

	user, _, exp, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		DefaultNonsig: req.DefaultNonsig,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user":                 userResponse(user),
			"confirmation_expires": exp,
		},
	})
}

// ConfirmAccount handles POST /auth/confirm.
func (h *AuthHandler) ConfirmAccount(c *fiber.Ctx) error {
	var req dto.ConfirmAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Password == "" || req.PasswordConfirm == "" {
		return fiber.NewError(http.StatusBadRequest, "token and both passwords required")
	}

	if err := h.auth.ConfirmAccount(c.Context(), req.Token, req.Password, req.PasswordConfirm); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "confirmed"}})
}

// Login handles POST /auth/login. The session token is returned in the body
// and mirrored into the token cookie the middleware reads.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Login == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "login and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Login, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:    auth.TokenCookieName,
		Value:   token,
		Path:    "/",
		Expires: exp,
	})
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout by expiring the token cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:    auth.TokenCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// RequestPasswordReset handles POST /auth/password/reset/request. The response
// is the same whether or not the email is known.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{"status": "reset_requested"},
	})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Password == "" || req.PasswordConfirm == "" {
		return fiber.NewError(http.StatusBadRequest, "token and both passwords required")
	}

	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.Password, req.PasswordConfirm); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	authCtx, ok := auth.ContextFromRequest(c)
	if !ok || authCtx.UserID == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.Password == "" || req.PasswordConfirm == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new passwords required")
	}

	if err := h.auth.ChangePassword(c.Context(), *authCtx.UserID, req.CurrentPassword, req.Password, req.PasswordConfirm); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// Availability handles GET /auth/availability?username=&email=.
func (h *AuthHandler) Availability(c *fiber.Ctx) error {
	username := c.Query("username")
	email := c.Query("email")
	if username == "" && email == "" {
		return fiber.NewError(http.StatusBadRequest, "username or email required")
	}

	messages, err := h.auth.Availability(c.Context(), username, email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"available": len(messages) == 0,
			"messages":  messages,
		},
	})
}
