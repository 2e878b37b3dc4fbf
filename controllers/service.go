package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
	"go.uber.org/zap"
)

type ServiceHandler struct {
	providers ProviderStore
	services  ServiceStore
	logger    *zap.Logger
}

func NewServiceHandler(providers ProviderStore, services ServiceStore, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{providers: providers, services: services, logger: logger}
}

type serviceInput struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        models.Category `json:"category"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           float64         `json:"price"`
	Discount        float64         `json:"discount"`
	Active          *bool           `json:"active"`
}

func (in serviceInput) validate() string {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return "Service name is required"
	case in.Category != "" && !in.Category.Valid():
		return "Invalid category"
	case in.DurationMinutes <= 0:
		return "Duration must be positive"
	case in.Price < 0:
		return "Price cannot be negative"
	case in.Discount < 0 || in.Discount > 100:
		return "Discount must be between 0 and 100"
	}
	return ""
}

func (in serviceInput) apply(s *models.Service) {
	s.Name = strings.TrimSpace(in.Name)
	s.Description = in.Description
	s.Category = in.Category
	s.DurationMinutes = in.DurationMinutes
	s.Price = in.Price
	s.Discount = in.Discount
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.DiscountedPrice = s.Price - (s.Price * s.Discount / 100)
}

// GetProviderServices returns the active services of a provider (public).
func (h *ServiceHandler) GetProviderServices(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid provider ID")
	}
	services, err := h.services.ListByProvider(c.UserContext(), id, true)
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	if services == nil {
		services = []models.Service{}
	}
	return c.JSON(services)
}

// GetAllServices returns all of the caller's services, inactive ones included.
func (h *ServiceHandler) GetAllServices(c *fiber.Ctx) error {
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	services, err := h.services.ListByProvider(c.UserContext(), provider.ID, false)
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.JSON(services)
}

// CreateService creates a new service
func (h *ServiceHandler) CreateService(c *fiber.Ctx) error {
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}

	var input serviceInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if msg := input.validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	if input.Category == "" {
		input.Category = provider.Category
	}

	service := &models.Service{ProviderID: provider.ID, Active: true}
	input.apply(service)
	if err := h.services.Create(c.UserContext(), service); err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService updates a service
func (h *ServiceHandler) UpdateService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid service ID")
	}
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	service, err := h.services.Get(c.UserContext(), id)
	if err != nil {
		return storeError(c, h.logger, err, "Service not found")
	}
	if service.ProviderID != provider.ID {
		return errorJSON(c, fiber.StatusNotFound, "Service not found")
	}

	var input serviceInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if msg := input.validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	if input.Category == "" {
		input.Category = service.Category
	}

	input.apply(service)
	if err := h.services.Update(c.UserContext(), service); err != nil {
		return storeError(c, h.logger, err, "Service not found")
	}
	return c.JSON(service)
}

// DeleteService deletes a service
func (h *ServiceHandler) DeleteService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid service ID")
	}
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	if err := h.services.Delete(c.UserContext(), provider.ID, id); err != nil {
		return storeError(c, h.logger, err, "Service not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
