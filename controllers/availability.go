package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/middleware"
	"go.uber.org/zap"
)

// AvailabilityHandler serves the provider's own weekly availability: whole
// week reads and replacement, day-level commits, and per-day slot edit
// sessions kept in a SessionStore between requests.
type AvailabilityHandler struct {
	providers  ProviderStore
	store      AvailabilityStore
	sessions   SessionStore
	notifiers  NotifierFactory
	regenerate availability.RegeneratePolicy
	overlap    availability.OverlapPolicy
	logger     *zap.Logger
}

type AvailabilityConfig struct {
	Providers        ProviderStore
	Store            AvailabilityStore
	Sessions         SessionStore
	Notifiers        NotifierFactory
	RegeneratePolicy availability.RegeneratePolicy
	OverlapPolicy    availability.OverlapPolicy
	Logger           *zap.Logger
}

func NewAvailabilityHandler(cfg AvailabilityConfig) *AvailabilityHandler {
	return &AvailabilityHandler{
		providers:  cfg.Providers,
		store:      cfg.Store,
		sessions:   cfg.Sessions,
		notifiers:  cfg.Notifiers,
		regenerate: cfg.RegeneratePolicy,
		overlap:    cfg.OverlapPolicy,
		logger:     cfg.Logger,
	}
}

// providerID resolves the caller's provider record.
func (h *AvailabilityHandler) providerID(c *fiber.Ctx) (uint, error) {
	p, err := h.providers.GetByUserID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (h *AvailabilityHandler) editor(ctx context.Context, providerID uint) (*availability.Editor, error) {
	w, err := h.store.GetAvailability(ctx, providerID)
	if err != nil {
		return nil, err
	}
	opts := []availability.Option{
		availability.WithRegeneratePolicy(h.regenerate),
		availability.WithOverlapPolicy(h.overlap),
		availability.OnUpdate(func(w availability.Weekly) error {
			return h.store.SaveAvailability(ctx, providerID, w)
		}),
	}
	if h.notifiers != nil {
		opts = append(opts, availability.WithNotifier(h.notifiers.For(providerID)))
	}
	return availability.NewEditor(w, opts...), nil
}

func parseDay(c *fiber.Ctx) (availability.Weekday, error) {
	return availability.ParseWeekday(c.Params("day"))
}

// editError answers a failed edit: 400 for rejected input, 409 when no edit
// session is open, the store mapping otherwise.
func (h *AvailabilityHandler) editError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, availability.ErrNoEditSession):
		return errorJSON(c, fiber.StatusConflict, "No edit session is open for this day")
	}
	return storeError(c, h.logger, err, "Provider profile not found")
}

// GetAvailability returns the stored week and its normalized per-day views.
func (h *AvailabilityHandler) GetAvailability(c *fiber.Ctx) error {
	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	w, err := h.store.GetAvailability(c.UserContext(), providerID)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	return c.JSON(fiber.Map{
		"availability": w,
		"days":         w.Views(),
	})
}

// ReplaceAvailability overwrites the whole week. Any of the stored day encodings is
// accepted; the week is validated before it is saved.
func (h *AvailabilityHandler) ReplaceAvailability(c *fiber.Ctx) error {
	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}

	var w availability.Weekly
	if err := json.Unmarshal(c.Body(), &w); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := w.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.store.SaveAvailability(c.UserContext(), providerID, w); err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	return c.JSON(fiber.Map{
		"availability": w,
		"days":         w.Views(),
	})
}

func (h *AvailabilityHandler) dayResponse(c *fiber.Ctx, ed *availability.Editor, day availability.Weekday) error {
	view, err := ed.Day(day)
	if err != nil {
		return h.editError(c, err)
	}
	start, end := ed.Weekly().Day(day).WorkingHours()
	return c.JSON(fiber.Map{
		"day":  day,
		"view": view,
		"working_hours": fiber.Map{
			"start": start,
			"end":   end,
		},
	})
}

// ToggleDay flips a day between unavailable and slots generated from its
// working hours.
func (h *AvailabilityHandler) ToggleDay(c *fiber.Ctx) error {
	day, err := parseDay(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	ed, err := h.editor(c.UserContext(), providerID)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	if err := ed.ToggleDay(day); err != nil {
		return h.editError(c, err)
	}
	return h.dayResponse(c, ed, day)
}

type workingHoursInput struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateWorkingHours sets the start or end of a day's working hours and
// rebuilds its slots. Only a stored working-hours block keeps its bounds; once
// a day holds slots the other boundary falls back to 09:00-17:00, so a second
// edit does not build on the first. The effective hours are returned as
// "working_hours".
func (h *AvailabilityHandler) UpdateWorkingHours(c *fiber.Ctx) error {
	day, err := parseDay(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	var input workingHoursInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	field, err := availability.ParseField(input.Field)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	value, err := availability.ParseTime(input.Value)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	ed, err := h.editor(c.UserContext(), providerID)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	if err := ed.UpdateWorkingHours(day, field, value); err != nil {
		return h.editError(c, err)
	}
	return h.dayResponse(c, ed, day)
}

// session runs fn against an editor holding the day's persisted edit buffer
// and writes the resulting buffer back.
func (h *AvailabilityHandler) session(c *fiber.Ctx, fn func(*availability.Editor, availability.Weekday) error) error {
	day, err := parseDay(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	ctx := c.UserContext()

	ed, err := h.editor(ctx, providerID)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	buf, ok, err := h.sessions.Load(ctx, providerID, day)
	if err != nil {
		return storeError(c, h.logger, err, "")
	}
	if !ok {
		return h.editError(c, availability.ErrNoEditSession)
	}
	if err := ed.LoadBuffer(day, buf); err != nil {
		return h.editError(c, err)
	}

	if err := fn(ed, day); err != nil {
		return h.editError(c, err)
	}

	next, open := ed.Buffer(day)
	if !open {
		if err := h.sessions.Delete(ctx, providerID, day); err != nil {
			h.logger.Warn("failed to close edit session", zap.Uint("provider_id", providerID), zap.Error(err))
		}
		return h.dayResponse(c, ed, day)
	}
	if err := h.sessions.Save(ctx, providerID, day, next); err != nil {
		return storeError(c, h.logger, err, "")
	}
	if next == nil {
		next = []availability.TimeSlot{}
	}
	return c.JSON(fiber.Map{
		"day":   day,
		"slots": next,
	})
}

// OpenDay starts (or restarts) an edit session seeded with the day's slots.
func (h *AvailabilityHandler) OpenDay(c *fiber.Ctx) error {
	day, err := parseDay(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	ed, err := h.editor(c.UserContext(), providerID)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	slots, err := ed.OpenDay(day)
	if err != nil {
		return h.editError(c, err)
	}
	if err := h.sessions.Save(c.UserContext(), providerID, day, slots); err != nil {
		return storeError(c, h.logger, err, "")
	}
	if slots == nil {
		slots = []availability.TimeSlot{}
	}
	return c.JSON(fiber.Map{
		"day":   day,
		"slots": slots,
	})
}

func (h *AvailabilityHandler) GetBuffer(c *fiber.Ctx) error {
	return h.session(c, func(*availability.Editor, availability.Weekday) error { return nil })
}

func (h *AvailabilityHandler) AddSlot(c *fiber.Ctx) error {
	var slot availability.TimeSlot
	if err := c.BodyParser(&slot); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid slot: "+err.Error())
	}
	return h.session(c, func(ed *availability.Editor, day availability.Weekday) error {
		return ed.AddSlot(day, slot)
	})
}

func slotIndex(c *fiber.Ctx) (int, error) {
	idx, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, availability.ErrSlotIndex
	}
	return idx, nil
}

func (h *AvailabilityHandler) UpdateSlot(c *fiber.Ctx) error {
	idx, err := slotIndex(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	var edit availability.SlotEdit
	if err := c.BodyParser(&edit); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid slot edit: "+err.Error())
	}
	return h.session(c, func(ed *availability.Editor, day availability.Weekday) error {
		return ed.UpdateSlot(day, idx, edit)
	})
}

func (h *AvailabilityHandler) RemoveSlot(c *fiber.Ctx) error {
	idx, err := slotIndex(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return h.session(c, func(ed *availability.Editor, day availability.Weekday) error {
		return ed.RemoveSlot(day, idx)
	})
}

func (h *AvailabilityHandler) Regenerate(c *fiber.Ctx) error {
	return h.session(c, func(ed *availability.Editor, day availability.Weekday) error {
		return ed.RegenerateFromWorkingHours(day)
	})
}

// SaveDay validates and commits the session buffer, closing the session.
func (h *AvailabilityHandler) SaveDay(c *fiber.Ctx) error {
	return h.session(c, func(ed *availability.Editor, day availability.Weekday) error {
		return ed.SaveDay(day)
	})
}

// DiscardDay drops the session without touching the stored week.
func (h *AvailabilityHandler) DiscardDay(c *fiber.Ctx) error {
	day, err := parseDay(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	providerID, err := h.providerID(c)
	if err != nil {
		return storeError(c, h.logger, err, "Provider profile not found")
	}
	if err := h.sessions.Delete(c.UserContext(), providerID, day); err != nil {
		return storeError(c, h.logger, err, "")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
