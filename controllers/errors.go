package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/repository"
	"go.uber.org/zap"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// storeError answers a repository failure: 404 for a missing record, 500
// (logged) for anything else.
func storeError(c *fiber.Ctx, logger *zap.Logger, err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, notFound)
	}
	logger.Error("store failure",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

// isValidationError reports whether err is a rejected availability edit.
func isValidationError(err error) bool {
	for _, target := range []error{
		availability.ErrInvalidTime,
		availability.ErrInvalidWeekday,
		availability.ErrInvalidRange,
		availability.ErrInvalidSlot,
		availability.ErrOverlappingSlots,
		availability.ErrSlotIndex,
		availability.ErrInvalidField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
