package availability

import "errors"

var (
	ErrInvalidTime      = errors.New("invalid time, expected HH:MM")
	ErrInvalidWeekday   = errors.New("invalid weekday")
	ErrInvalidRange     = errors.New("start must be before end")
	ErrInvalidSlot      = errors.New("slot start must be before its end")
	ErrOverlappingSlots = errors.New("slots overlap")
	ErrNoEditSession    = errors.New("no open edit session for day")
	ErrSlotIndex        = errors.New("slot index out of range")
	ErrInvalidField     = errors.New("unknown working hours field")
)
