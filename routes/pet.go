package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/controllers"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
)

// SetupPetRoutes configures the customer's pet records
func SetupPetRoutes(app *fiber.App, h *controllers.PetHandler, protected fiber.Handler) {
	pets := app.Group("/pets", protected, middleware.RequireRole(models.RoleCustomer))
	pets.Get("/", h.GetAllPets)
	pets.Post("/", h.CreatePet)
	pets.Get("/:id", h.GetPet)
	pets.Put("/:id", h.UpdatePet)
	pets.Delete("/:id", h.DeletePet)
}
