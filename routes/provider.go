package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/controllers"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
)

// SetupProviderRoutes configures the public provider directory and the
// provider's own business profile.
func SetupProviderRoutes(app *fiber.App, h *controllers.ProviderHandler, protected fiber.Handler) {
	public := app.Group("/providers")
	public.Get("/", h.GetAllProviders)
	public.Get("/:id", h.GetProviderDetails)

	own := app.Group("/business/profile", protected, middleware.RequireRole(models.RoleProvider))
	own.Get("/", h.GetProviderProfile)
	own.Post("/", h.CreateProviderProfile)
	own.Put("/", h.UpdateProviderProfile)
}
