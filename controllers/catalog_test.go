package controllers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProviderProfileLifecycle(t *testing.T) {
	providers := newFakeProviders()
	h := NewProviderHandler(providers, zap.NewNop())

	app := fiber.New()
	app.Get("/providers", h.GetAllProviders)
	app.Get("/providers/:id", h.GetProviderDetails)
	app.Get("/provider/profile", fakeAuth, h.GetProviderProfile)
	app.Post("/provider/profile", fakeAuth, h.CreateProviderProfile)
	app.Put("/provider/profile", fakeAuth, h.UpdateProviderProfile)

	status, _ := doJSON(t, app, owner, "GET", "/provider/profile", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, owner, "POST", "/provider/profile", map[string]string{
		"business_name": "Paws & Claws", "category": "spa",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := doJSON(t, app, owner, "POST", "/provider/profile", map[string]string{
		"business_name": "Paws & Claws", "category": "grooming", "city": "Pune",
	})
	require.Equal(t, fiber.StatusCreated, status)
	id := uint(body["ID"].(float64))
	week := body["availability"].(map[string]any)
	assert.Len(t, week, 7)
	assert.Equal(t, false, week["saturday"])

	status, _ = doJSON(t, app, owner, "POST", "/provider/profile", map[string]string{
		"business_name": "Again", "category": "grooming",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = doJSON(t, app, owner, "PUT", "/provider/profile", map[string]string{
		"business_name": "Paws and Claws", "category": "boarding", "city": "Pune",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "boarding", body["profile"].(map[string]any)["category"])

	status, body = doJSON(t, app, caller{}, "GET", "/providers/"+itoa(id), nil)
	require.Equal(t, fiber.StatusOK, status)
	schedule := body["schedule"].(map[string]any)
	assert.Equal(t, map[string]any{"available": false, "slots": []any{}}, schedule["monday"])

	status, body = doJSON(t, app, caller{}, "GET", "/providers?category=boarding", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])

	status, _ = doJSON(t, app, caller{}, "GET", "/providers?category=spa", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestServiceHandler(t *testing.T) {
	providers := newFakeProviders(&models.Provider{Model: modelID(providerID), UserID: owner.id, Category: models.CategoryGrooming})
	services := &fakeServices{byID: map[uint]*models.Service{}}
	h := NewServiceHandler(providers, services, zap.NewNop())

	app := fiber.New()
	app.Get("/providers/:id/services", h.GetProviderServices)
	own := app.Group("/provider/services", fakeAuth)
	own.Get("/", h.GetAllServices)
	own.Post("/", h.CreateService)
	own.Put("/:id", h.UpdateService)
	own.Delete("/:id", h.DeleteService)

	status, _ := doJSON(t, app, owner, "POST", "/provider/services/", map[string]any{"name": "Nail trim", "duration_minutes": 0})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := doJSON(t, app, owner, "POST", "/provider/services/", map[string]any{
		"name": "Full groom", "duration_minutes": 60, "price": 1200, "discount": 25,
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "grooming", body["category"], "defaults to the provider's category")
	assert.InDelta(t, 900.0, body["discounted_price"], 0.001)

	status, body = doJSON(t, app, owner, "PUT", "/provider/services/1", map[string]any{
		"name": "Full groom", "duration_minutes": 90, "price": 1200, "active": false,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["active"])

	status, body = doJSON(t, app, caller{}, "GET", "/providers/7/services", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "[]", body["_raw"], "inactive services are hidden from customers")

	other := caller{id: 71, role: models.RoleProvider}
	status, _ = doJSON(t, app, other, "DELETE", "/provider/services/1", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, owner, "DELETE", "/provider/services/1", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestPetHandler(t *testing.T) {
	pets := &fakePets{byID: map[uint]*models.Pet{}}
	h := NewPetHandler(pets, zap.NewNop())

	app := fiber.New()
	g := app.Group("/pets", fakeAuth)
	g.Get("/", h.GetAllPets)
	g.Post("/", h.CreatePet)
	g.Get("/:id", h.GetPet)
	g.Put("/:id", h.UpdatePet)
	g.Delete("/:id", h.DeletePet)

	status, _ := doJSON(t, app, customer, "POST", "/pets/", map[string]any{"name": "Rex"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := doJSON(t, app, customer, "POST", "/pets/", map[string]any{"name": "Rex", "species": "Dog", "age_years": 3})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "dog", body["species"])

	status, _ = doJSON(t, app, stranger, "GET", "/pets/1", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = doJSON(t, app, customer, "PUT", "/pets/1", map[string]any{"name": "Rex", "species": "dog", "age_years": 4})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(4), body["age_years"])

	status, _ = doJSON(t, app, customer, "DELETE", "/pets/1", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Empty(t, pets.byID)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, isValidationError(availability.ErrOverlappingSlots))
	assert.False(t, isValidationError(availability.ErrNoEditSession))
}
