package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/thq-service/internal/api/dto"
	"github.com/spec-kit/thq-service/internal/domain"
	"github.com/spec-kit/thq-service/internal/service"
)

// NonsigsHandler exposes customer account endpoints.
type NonsigsHandler struct {
	nonsigs *service.NonsigService
}

// NewNonsigsHandler constructs handler.
func NewNonsigsHandler(nonsigService *service.NonsigService) *NonsigsHandler {
	return &NonsigsHandler{nonsigs: nonsigService}
}

// Create handles POST /nonsigs.
func (h *NonsigsHandler) Create(c *fiber.Ctx) error {
	var req dto.NonsigRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	nonsig, err := h.nonsigs.Create(c.Context(), service.NonsigInput{
		Code:       req.Code,
		TradeStyle: req.TradeStyle,
		Addr1:      req.Addr1,
		Addr2:      req.Addr2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		BrandKey:   req.BrandKey,
		Type:       req.Type,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": nonsigResponse(nonsig)})
}

// List handles GET /nonsigs.
func (h *NonsigsHandler) List(c *fiber.Ctx) error {
	includeInactive := parseBoolQuery(c, "include_inactive", false)
	nonsigs, err := h.nonsigs.List(c.Context(), includeInactive)
	if err != nil {
		return err
	}
	resp := make([]dto.NonsigResponse, 0, len(nonsigs))
	for i := range nonsigs {
		resp = append(resp, nonsigResponse(&nonsigs[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /nonsigs/:code.
func (h *NonsigsHandler) Get(c *fiber.Ctx) error {
	nonsig, err := h.nonsigs.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nonsigResponse(nonsig)})
}

func nonsigResponse(nonsig *domain.Nonsig) dto.NonsigResponse {
	return dto.NonsigResponse{
		ID:          nonsig.ID,
		Code:        nonsig.Code,
		TradeStyle:  nonsig.TradeStyle,
		Addr1:       nonsig.Addr1,
		Addr2:       nonsig.Addr2,
		City:        nonsig.City,
		State:       nonsig.State,
		PostalCode:  nonsig.PostalCode,
		Country:     nonsig.Country,
		BrandKey:    nonsig.BrandKey,
		IsActive:    nonsig.IsActive,
		IsActiveTHQ: nonsig.IsActiveTHQ,
		Type:        nonsig.Type,
		CreatedAt:   nonsig.CreatedAt,
		UpdatedAt:   nonsig.UpdatedAt,
	}
}

func parseBoolQuery(c *fiber.Ctx, key string, fallback bool) bool {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
