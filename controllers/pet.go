package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
	"go.uber.org/zap"
)

type PetHandler struct {
	pets   PetStore
	logger *zap.Logger
}

func NewPetHandler(pets PetStore, logger *zap.Logger) *PetHandler {
	return &PetHandler{pets: pets, logger: logger}
}

type petInput struct {
	Name     string  `json:"name"`
	Species  string  `json:"species"`
	Breed    string  `json:"breed"`
	AgeYears int     `json:"age_years"`
	WeightKg float64 `json:"weight_kg"`
	Notes    string  `json:"notes"`
}

func (in petInput) validate() string {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return "Name and species are required"
	}
	if in.AgeYears < 0 || in.WeightKg < 0 {
		return "Age and weight cannot be negative"
	}
	return ""
}

func (in petInput) apply(p *models.Pet) {
	p.Name = strings.TrimSpace(in.Name)
	p.Species = strings.ToLower(strings.TrimSpace(in.Species))
	p.Breed = in.Breed
	p.AgeYears = in.AgeYears
	p.WeightKg = in.WeightKg
	p.Notes = in.Notes
}

func (h *PetHandler) GetAllPets(c *fiber.Ctx) error {
	pets, err := h.pets.ListByOwner(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.JSON(pets)
}

func (h *PetHandler) GetPet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid pet ID")
	}
	pet, err := h.pets.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return storeError(c, h.logger, err, "Pet not found")
	}
	return c.JSON(pet)
}

func (h *PetHandler) CreatePet(c *fiber.Ctx) error {
	var input petInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if msg := input.validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	pet := &models.Pet{OwnerID: middleware.UserID(c)}
	input.apply(pet)
	if err := h.pets.Create(c.UserContext(), pet); err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(pet)
}

func (h *PetHandler) UpdatePet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid pet ID")
	}
	pet, err := h.pets.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return storeError(c, h.logger, err, "Pet not found")
	}

	var input petInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if msg := input.validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	input.apply(pet)
	if err := h.pets.Update(c.UserContext(), pet); err != nil {
		return storeError(c, h.logger, err, "Pet not found")
	}
	return c.JSON(pet)
}

func (h *PetHandler) DeletePet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid pet ID")
	}
	if err := h.pets.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return storeError(c, h.logger, err, "Pet not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
