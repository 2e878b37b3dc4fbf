package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/controllers"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
)

func SetupServiceRoutes(app *fiber.App, h *controllers.ServiceHandler, protected fiber.Handler) {
	app.Get("/providers/:id/services", h.GetProviderServices)

	service := app.Group("/business/services", protected, middleware.RequireRole(models.RoleProvider))
	service.Get("/", h.GetAllServices)
	service.Post("/", h.CreateService)
	service.Put("/:id", h.UpdateService)
	service.Delete("/:id", h.DeleteService)
}
