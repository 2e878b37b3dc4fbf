package availability

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Weekly maps each weekday to its availability. Missing keys are unavailable.
type Weekly map[Weekday]Day

// NewWeekly returns a week with every day unavailable, the shape a new
// provider record starts with.
func NewWeekly() Weekly {
	w := make(Weekly, len(Weekdays))
	for _, d := range Weekdays {
		w[d] = Unavailable()
	}
	return w
}

func (w Weekly) Day(d Weekday) Day {
	if w == nil {
		return Unavailable()
	}
	return w[d].clone()
}

// Clone deep-copies the week, filling in missing days.
func (w Weekly) Clone() Weekly {
	out := NewWeekly()
	for d, day := range w {
		if d.Valid() {
			out[d] = day.clone()
		}
	}
	return out
}

// Views normalizes every day.
func (w Weekly) Views() map[Weekday]DayView {
	out := make(map[Weekday]DayView, len(Weekdays))
	for _, d := range Weekdays {
		out[d] = w.Day(d).View()
	}
	return out
}

// BookableSlots lists the slots a customer may pick on date. A working-hours
// block is subdivided into the standard grid, explicit slots are filtered to
// the available ones.
func (w Weekly) BookableSlots(date time.Time) []TimeSlot {
	day := w.Day(WeekdayOf(date))
	switch day.kind {
	case KindWorkingHours:
		if !day.block.Available {
			return nil
		}
		return GenerateTimeSlots(day.block.Start, day.block.End)
	case KindSlots:
		var out []TimeSlot
		for _, s := range day.slots {
			if s.Available && s.Valid() {
				out = append(out, s)
			}
		}
		sortSlots(out)
		return out
	default:
		return nil
	}
}

func (w Weekly) MarshalJSON() ([]byte, error) {
	out := make(map[Weekday]Day, len(Weekdays))
	for _, d := range Weekdays {
		out[d] = w.Day(d)
	}
	return json.Marshal(out)
}

func (w *Weekly) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode weekly availability: %w", err)
	}
	out := NewWeekly()
	for key, val := range raw {
		d, err := ParseWeekday(key)
		if err != nil {
			continue
		}
		out[d] = decodeDay(val)
	}
	*w = out
	return nil
}

// Value implements the driver.Valuer interface
func (w Weekly) Value() (driver.Value, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (w *Weekly) Scan(value interface{}) error {
	if value == nil {
		*w = NewWeekly()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal weekly availability: unsupported type %T", value)
	}

	return json.Unmarshal(data, w)
}

// GormDataType keeps the column as jsonb when migrating.
func (Weekly) GormDataType() string {
	return "jsonb"
}

// Validate checks a whole week before it replaces the stored one: stored
// hours need start < end, explicit slots must be well formed and must not overlap.
func (w Weekly) Validate() error {
	for _, d := range Weekdays {
		day := w.Day(d)
		switch day.Kind() {
		case KindWorkingHours, KindEnabled:
			if (day.kind == KindWorkingHours || day.hours) && !day.block.Valid() {
				return fmt.Errorf("%s: %w: %s-%s", d, ErrInvalidRange, day.block.Start, day.block.End)
			}
		case KindSlots:
			if _, err := OverlapReject.resolve(day.slots); err != nil {
				return fmt.Errorf("%s: %w", d, err)
			}
		}
	}
	return nil
}
