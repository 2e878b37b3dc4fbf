package availability

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time is a wall-clock time of day, stored as minutes since midnight.
// Its wire form is a zero-padded 24-hour "HH:MM" string.
type Time int

const minutesPerDay = 24 * 60

// ParseTime parses an "HH:MM" string.
func ParseTime(s string) (Time, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return Time(t.Hour()*60 + t.Minute()), nil
}

// MustTime is ParseTime for literals known to be valid.
func MustTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether t falls inside a single day.
func (t Time) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// Add returns t shifted by d, truncated to whole minutes.
func (t Time) Add(d time.Duration) Time {
	return t + Time(d/time.Minute)
}

// On places t on the calendar date of day, in day's location.
func (t Time) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, day.Location())
}

func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := ParseTime(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTime, b)
	}
	return t.UnmarshalText([]byte(s))
}
