package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/repository"
	"go.uber.org/zap"
)

type ProviderHandler struct {
	providers ProviderStore
	logger    *zap.Logger
}

func NewProviderHandler(providers ProviderStore, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{providers: providers, logger: logger}
}

type profileInput struct {
	BusinessName string          `json:"business_name"`
	Description  string          `json:"description"`
	Category     models.Category `json:"category"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Website      string          `json:"website"`
}

func (in profileInput) validate() string {
	if strings.TrimSpace(in.BusinessName) == "" {
		return "Business name is required"
	}
	if !in.Category.Valid() {
		return "Invalid category"
	}
	return ""
}

func (in profileInput) apply(p *models.Provider) {
	p.BusinessName = strings.TrimSpace(in.BusinessName)
	p.Description = in.Description
	p.Category = in.Category
	p.Address = in.Address
	p.City = in.City
	p.Phone = in.Phone
	p.Email = in.Email
	p.Website = in.Website
}

// GetAllProviders browses providers, filtered by category, city and a free text query.
func (h *ProviderHandler) GetAllProviders(c *fiber.Ctx) error {
	filter := repository.ProviderFilter{
		Category: models.Category(c.Query("category")),
		City:     c.Query("city"),
		Query:    c.Query("q"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid category")
	}

	providers, total, err := h.providers.List(c.UserContext(), filter)
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.JSON(fiber.Map{
		"providers": providers,
		"total":     total,
		"page":      filter.Page,
	})
}

// GetProviderDetails returns a provider's public profile along with the normalized view of
// each weekday.
func (h *ProviderHandler) GetProviderDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid provider ID")
	}
	provider, err := h.providers.GetByID(c.UserContext(), id)
	if err != nil {
		return storeError(c, h.logger, err, "Provider not found")
	}
	return c.JSON(fiber.Map{
		"provider": provider,
		"schedule": provider.Availability.Views(),
	})
}

func (h *ProviderHandler) GetProviderProfile(c *fiber.Ctx) error {
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	return c.JSON(provider)
}

// CreateProviderProfile sets up the caller's business profile. Its week starts out
// entirely unavailable.
func (h *ProviderHandler) CreateProviderProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if msg := input.validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	_, err := h.providers.GetByUserID(c.UserContext(), userID)
	switch {
	case err == nil:
		return errorJSON(c, fiber.StatusConflict, "Provider profile already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return storeError(c, h.logger, err, "")
	}

	provider := &models.Provider{UserID: userID, Availability: availability.NewWeekly()}
	input.apply(provider)
	if err := h.providers.Create(c.UserContext(), provider); err != nil {
		return storeError(c, h.logger, err, "")
	}
	h.logger.Info("provider profile created", zap.Uint("provider_id", provider.ID), zap.Uint("user_id", userID))
	return c.Status(fiber.StatusCreated).JSON(provider)
}

func (h *ProviderHandler) UpdateProviderProfile(c *fiber.Ctx) error {
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}

	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if msg := input.validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	input.apply(provider)
	if err := h.providers.UpdateProfile(c.UserContext(), provider); err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": provider,
	})
}
