package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/controllers"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
)

// SetupBookingRoutes configures slot lookup and booking related routes
func SetupBookingRoutes(app *fiber.App, h *controllers.BookingHandler, protected fiber.Handler) {
	app.Get("/providers/:id/slots", h.GetAvailableSlots)

	bookings := app.Group("/bookings", protected)
	bookings.Post("/", middleware.RequireRole(models.RoleCustomer), h.CreateBooking)
	bookings.Get("/", h.GetAllBookings)
	bookings.Get("/:id", h.GetBooking)
	bookings.Patch("/:id/status", h.UpdateBookingStatus)

	app.Get("/business/bookings", protected, middleware.RequireRole(models.RoleProvider), h.GetProviderBookings)
}
