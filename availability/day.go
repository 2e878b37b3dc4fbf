package availability

import (
	"bytes"
	"encoding/json"
)

// Kind tags which shape a Day holds.
type Kind int

const (
	KindUnavailable Kind = iota
	KindWorkingHours
	KindSlots
	// KindEnabled is a truthy stored value that carries no availability
	// flag: a bare true, or an object with no "available" field.
	KindEnabled
)

func (k Kind) String() string {
	switch k {
	case KindWorkingHours:
		return "working_hours"
	case KindSlots:
		return "slots"
	case KindEnabled:
		return "enabled"
	default:
		return "unavailable"
	}
}

// Default working hours used when a day does not carry its own.
var (
	DefaultStart = MustTime("09:00")
	DefaultEnd   = MustTime("17:00")
)

// Day is the availability of one weekday. Stored records use three legacy
// shapes (false, a single working-hours object, or a slot array); they are
// decoded into a Day once and never inspected raw afterwards.
type Day struct {
	kind  Kind
	block TimeSlot
	slots []TimeSlot
	// hours is set when a KindEnabled day still names its start and end.
	hours bool
}

// DayView is the uniform projection handed to callers.
type DayView struct {
	Available bool       `json:"available"`
	Slots     []TimeSlot `json:"slots"`
}

func Unavailable() Day {
	return Day{}
}

func WorkingHoursBlock(start, end Time, available bool) Day {
	return Day{kind: KindWorkingHours, block: TimeSlot{Start: start, End: end, Available: available}}
}

// EnabledDay is an available day without slots. With no bounds it encodes as
// true; otherwise as a {start, end} object.
func EnabledDay(bounds ...Time) Day {
	d := Day{kind: KindEnabled}
	if len(bounds) == 2 {
		d.hours = true
		d.block = TimeSlot{Start: bounds[0], End: bounds[1]}
	}
	return d
}

// ExplicitSlots stores slots as given. No slots means the day is unavailable.
func ExplicitSlots(slots []TimeSlot) Day {
	if len(slots) == 0 {
		return Unavailable()
	}
	return Day{kind: KindSlots, slots: cloneSlots(slots)}
}

func (d Day) Kind() Kind { return d.kind }

// View normalizes the day into {available, slots}. A working-hours block is
// reported as one slot spanning the whole block.
func (d Day) View() DayView {
	switch d.kind {
	case KindSlots:
		return DayView{Available: len(d.slots) > 0, Slots: cloneSlots(d.slots)}
	case KindWorkingHours:
		return DayView{Available: d.block.Available, Slots: []TimeSlot{d.block}}
	case KindEnabled:
		return DayView{Available: true, Slots: []TimeSlot{}}
	default:
		return DayView{Available: false, Slots: []TimeSlot{}}
	}
}

// Enabled reports whether the day is currently bookable at all.
func (d Day) Enabled() bool {
	return d.View().Available
}

// WorkingHours returns the stored start and end, or 09:00-17:00 when the day
// does not carry both.
func (d Day) WorkingHours() (Time, Time) {
	if d.kind == KindWorkingHours || (d.kind == KindEnabled && d.hours) {
		return d.block.Start, d.block.End
	}
	return DefaultStart, DefaultEnd
}

func (d Day) clone() Day {
	d.slots = cloneSlots(d.slots)
	return d
}

func (d Day) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case KindWorkingHours:
		return json.Marshal(d.block)
	case KindSlots:
		return json.Marshal(d.slots)
	case KindEnabled:
		if !d.hours {
			return []byte("true"), nil
		}
		return json.Marshal(struct {
			Start Time `json:"start"`
			End   Time `json:"end"`
		}{d.block.Start, d.block.End})
	default:
		return []byte("false"), nil
	}
}

// UnmarshalJSON never fails. false, null and malformed input decode as
// Unavailable; true and objects without "available" decode as EnabledDay.
func (d *Day) UnmarshalJSON(b []byte) error {
	*d = decodeDay(b)
	return nil
}

func decodeDay(b []byte) Day {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Unavailable()
	}
	switch b[0] {
	case '[':
		var slots []TimeSlot
		if err := json.Unmarshal(b, &slots); err != nil {
			return Unavailable()
		}
		return ExplicitSlots(slots)
	case '{':
		var raw struct {
			Start     *Time `json:"start"`
			End       *Time `json:"end"`
			Available *bool `json:"available"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return Unavailable()
		}
		if raw.Available == nil {
			if raw.Start != nil && raw.End != nil {
				return EnabledDay(*raw.Start, *raw.End)
			}
			return EnabledDay()
		}
		if raw.Start == nil || raw.End == nil {
			if !*raw.Available {
				return Unavailable()
			}
			return WorkingHoursBlock(DefaultStart, DefaultEnd, true)
		}
		return WorkingHoursBlock(*raw.Start, *raw.End, *raw.Available)
	case 't':
		if string(b) == "true" {
			return EnabledDay()
		}
	}
	return Unavailable()
}
