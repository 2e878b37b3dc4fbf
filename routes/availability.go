package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/controllers"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
)

// SetupAvailabilityRoutes configures the provider's weekly availability editor
func SetupAvailabilityRoutes(app *fiber.App, h *controllers.AvailabilityHandler, protected fiber.Handler) {
	availability := app.Group("/business/availability", protected, middleware.RequireRole(models.RoleProvider))
	availability.Get("/", h.GetAvailability)
	availability.Put("/", h.ReplaceAvailability)

	// Day-level changes commit immediately
	availability.Post("/:day/toggle", h.ToggleDay)
	availability.Put("/:day/hours", h.UpdateWorkingHours)

	// Slot edit session
	edit := availability.Group("/:day/edit")
	edit.Post("/", h.OpenDay)
	edit.Get("/", h.GetBuffer)
	edit.Delete("/", h.DiscardDay)
	edit.Post("/slots", h.AddSlot)
	edit.Patch("/slots/:index", h.UpdateSlot)
	edit.Delete("/slots/:index", h.RemoveSlot)
	edit.Post("/regenerate", h.Regenerate)
	edit.Post("/save", h.SaveDay)
}
