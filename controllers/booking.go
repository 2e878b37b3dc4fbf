package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/repository"
	"github.com/meinhoongagan/petcare/utils"
	"go.uber.org/zap"
)

type BookingHandler struct {
	providers    ProviderStore
	availability AvailabilityStore
	services     ServiceStore
	pets         PetStore
	bookings     BookingStore
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

type BookingConfig struct {
	Providers    ProviderStore
	Availability AvailabilityStore
	Services     ServiceStore
	Pets         PetStore
	Bookings     BookingStore
	Location     *time.Location
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

func NewBookingHandler(cfg BookingConfig) *BookingHandler {
	h := &BookingHandler{
		providers:    cfg.Providers,
		availability: cfg.Availability,
		services:     cfg.Services,
		pets:         cfg.Pets,
		bookings:     cfg.Bookings,
		loc:          cfg.Location,
		now:          cfg.Now,
		logger:       cfg.Logger,
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

var errPastDate = errors.New("date is in the past")

// parseDate reads a YYYY-MM-DD date in the handler's location and rejects
// days before today.
func (h *BookingHandler) parseDate(s string) (time.Time, error) {
	date, err := utils.ParseDate(s, h.loc)
	if err != nil {
		return time.Time{}, err
	}
	if date.Before(utils.Today(h.now(), h.loc)) {
		return time.Time{}, errPastDate
	}
	return date, nil
}

// openSlots is what a customer can still book on date: the provider's
// bookable slots minus live bookings, minus the part of today already gone.
// With d > 0 the result is the list of windows long enough for d.
func (h *BookingHandler) openSlots(ctx context.Context, providerID uint, date time.Time, d time.Duration) ([]availability.TimeSlot, error) {
	w, err := h.availability.GetAvailability(ctx, providerID)
	if err != nil {
		return nil, err
	}
	busy, err := h.bookings.BusyIntervals(ctx, providerID, date.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}
	free := availability.Subtract(w.BookableSlots(date), busy)

	now := h.now().In(h.loc)
	if date.Equal(utils.Today(now, h.loc)) {
		cutoff := availability.Time(now.Hour()*60 + now.Minute())
		upcoming := free[:0]
		for _, s := range free {
			if s.Start > cutoff {
				upcoming = append(upcoming, s)
			}
		}
		free = upcoming
	}

	if d > 0 {
		return availability.Openings(free, d), nil
	}
	return free, nil
}

// serviceOf loads an active service and checks it belongs to providerID.
func (h *BookingHandler) serviceOf(ctx context.Context, providerID, serviceID uint) (*models.Service, error) {
	service, err := h.services.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service.ProviderID != providerID || !service.Active {
		return nil, repository.ErrNotFound
	}
	return service, nil
}

// GetAvailableSlots lists the open slots of a provider on ?date=, grouped into windows
// of the service's duration when ?service_id= is given.
func (h *BookingHandler) GetAvailableSlots(c *fiber.Ctx) error {
	providerID, err := paramID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid provider ID")
	}
	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid date: "+err.Error())
	}

	var duration time.Duration
	if raw := c.Query("service_id"); raw != "" {
		serviceID := uint(c.QueryInt("service_id"))
		service, err := h.serviceOf(c.UserContext(), providerID, serviceID)
		if err != nil {
			return storeError(c, h.logger, err, "Service not found")
		}
		duration = service.Duration()
	}

	slots, err := h.openSlots(c.UserContext(), providerID, date, duration)
	if err != nil {
		return storeError(c, h.logger, err, "Provider not found")
	}
	if slots == nil {
		slots = []availability.TimeSlot{}
	}
	return c.JSON(fiber.Map{
		"date":  date.Format(models.DateLayout),
		"day":   availability.WeekdayOf(date),
		"slots": slots,
	})
}

type bookingInput struct {
	ProviderID uint              `json:"provider_id"`
	ServiceID  uint              `json:"service_id"`
	PetID      uint              `json:"pet_id"`
	Date       string            `json:"date"`
	StartTime  availability.Time `json:"start_time"`
	Notes      string            `json:"notes"`
}

// CreateBooking books a service for one of the caller's pets. The requested start
// must open a free window of the service's duration.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	customerID := middleware.UserID(c)
	ctx := c.UserContext()

	var input bookingInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid booking: "+err.Error())
	}
	if input.ProviderID == 0 || input.ServiceID == 0 || input.PetID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "provider_id, service_id and pet_id are required")
	}
	date, err := h.parseDate(input.Date)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid date: "+err.Error())
	}

	if _, err := h.pets.Get(ctx, customerID, input.PetID); err != nil {
		return storeError(c, h.logger, err, "Pet not found")
	}
	service, err := h.serviceOf(ctx, input.ProviderID, input.ServiceID)
	if err != nil {
		return storeError(c, h.logger, err, "Service not found")
	}

	end := input.StartTime.Add(service.Duration())
	openings, err := h.openSlots(ctx, input.ProviderID, date, service.Duration())
	if err != nil {
		return storeError(c, h.logger, err, "Provider not found")
	}
	if !startsOpening(openings, input.StartTime) {
		return errorJSON(c, fiber.StatusConflict, "Requested time is not available")
	}

	booking := &models.Booking{
		Date:       date.Format(models.DateLayout),
		StartTime:  input.StartTime,
		EndTime:    end,
		Notes:      input.Notes,
		ServiceID:  service.ID,
		ProviderID: input.ProviderID,
		CustomerID: customerID,
		PetID:      input.PetID,
	}
	if err := h.bookings.CreateIfFree(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return errorJSON(c, fiber.StatusConflict, "Requested time is not available")
		}
		return storeError(c, h.logger, err, "Provider not found")
	}

	h.logger.Info("booking created",
		zap.String("reference", booking.Reference),
		zap.Uint("provider_id", booking.ProviderID),
		zap.String("date", booking.Date),
		zap.Stringer("start", booking.StartTime),
	)
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func startsOpening(openings []availability.TimeSlot, start availability.Time) bool {
	for _, o := range openings {
		if o.Start == start {
			return true
		}
	}
	return false
}

func (h *BookingHandler) GetAllBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListForCustomer(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.JSON(bookings)
}

// GetProviderBookings lists the caller's incoming bookings, optionally for one ?date=.
func (h *BookingHandler) GetProviderBookings(c *fiber.Ctx) error {
	provider, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	date := c.Query("date")
	if date != "" {
		if _, err := utils.ParseDate(date, h.loc); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid date")
		}
	}
	bookings, err := h.bookings.ListForProvider(c.UserContext(), provider.ID, date)
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.JSON(bookings)
}

// authorize loads a booking the caller may see: their own as a customer, or
// one made with their business as a provider.
func (h *BookingHandler) authorize(c *fiber.Ctx) (*models.Booking, bool, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, false, repository.ErrNotFound
	}
	booking, err := h.bookings.Get(c.UserContext(), id)
	if err != nil {
		return nil, false, err
	}

	userID := middleware.UserID(c)
	if booking.CustomerID == userID {
		return booking, false, nil
	}
	if middleware.Role(c) == models.RoleProvider {
		provider, err := h.providers.GetByUserID(c.UserContext(), userID)
		if err == nil && provider.ID == booking.ProviderID {
			return booking, true, nil
		}
	}
	return nil, false, repository.ErrNotFound
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	booking, _, err := h.authorize(c)
	if err != nil {
		return storeError(c, h.logger, err, "Booking not found")
	}
	return c.JSON(booking)
}

// UpdateBookingStatus moves a booking along pending → confirmed → completed. Either
// side may cancel; only the provider confirms or completes.
func (h *BookingHandler) UpdateBookingStatus(c *fiber.Ctx) error {
	booking, asProvider, err := h.authorize(c)
	if err != nil {
		return storeError(c, h.logger, err, "Booking not found")
	}

	var input struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if !asProvider && input.Status != models.StatusCanceled {
		return errorJSON(c, fiber.StatusForbidden, "Customers can only cancel bookings")
	}
	if err := booking.Transition(input.Status); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.bookings.UpdateStatus(c.UserContext(), booking); err != nil {
		return storeError(c, h.logger, err, "Booking not found")
	}
	return c.JSON(booking)
}
