package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/controllers"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, h *controllers.AuthHandler, protected fiber.Handler) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	// Protected routes
	auth.Get("/me", protected, h.GetUserProfile)
}
