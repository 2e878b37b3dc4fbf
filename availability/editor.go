package availability

import (
	"fmt"
	"sync"
)

// Field names a working-hours boundary.
type Field string

const (
	FieldStart Field = "start"
	FieldEnd   Field = "end"
)

func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldStart, FieldEnd:
		return Field(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}

// SlotEdit changes one or more fields of a buffered slot. Nil fields are left alone.
type SlotEdit struct {
	Start     *Time `json:"start,omitempty"`
	End       *Time `json:"end,omitempty"`
	Available *bool `json:"available,omitempty"`
}

// Action identifies the committed mutation in a Notification.
type Action string

const (
	ActionToggleDay    Action = "toggle_day"
	ActionWorkingHours Action = "working_hours"
	ActionSaveDay      Action = "save_day"
)

// Notification is the informational message emitted after every commit.
type Notification struct {
	Day     Weekday `json:"day"`
	Action  Action  `json:"action"`
	Enabled bool    `json:"enabled"`
	Slots   int     `json:"slots"`
	Message string  `json:"message"`
}

// Notifier receives commit notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type Option func(*Editor)

func WithRegeneratePolicy(p RegeneratePolicy) Option {
	return func(e *Editor) { e.regenerate = p }
}

func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(e *Editor) { e.overlap = p }
}

func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// OnUpdate registers the callback that receives the whole week after every
// committed mutation. Persisting it is up to the callback.
func OnUpdate(fn func(Weekly) error) Option {
	return func(e *Editor) { e.onUpdate = fn }
}

// Editor applies provider edits to a weekly availability. Day-level changes
// (toggle, working hours) commit immediately; slot-level changes go through a
// per-day edit buffer that is opened, modified, then saved or discarded.
type Editor struct {
	mu         sync.Mutex
	weekly     Weekly
	buffers    map[Weekday][]TimeSlot
	regenerate RegeneratePolicy
	overlap    OverlapPolicy
	notifier   Notifier
	onUpdate   func(Weekly) error
}

func NewEditor(w Weekly, opts ...Option) *Editor {
	e := &Editor{
		weekly:  w.Clone(),
		buffers: make(map[Weekday][]TimeSlot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weekly returns a copy of the current committed week.
func (e *Editor) Weekly() Weekly {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weekly.Clone()
}

func (e *Editor) Day(day Weekday) (DayView, error) {
	if !day.Valid() {
		return DayView{}, fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weekly.Day(day).View(), nil
}

// ToggleDay enables a disabled day with slots generated from its working
// hours, or clears an enabled day back to unavailable.
func (e *Editor) ToggleDay(day Weekday) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.weekly.Day(day)
	var next Day
	if current.Enabled() {
		next = Unavailable()
	} else {
		start, end := current.WorkingHours()
		slots := GenerateTimeSlots(start, end)
		if len(slots) == 0 {
			return fmt.Errorf("%w: %s-%s is shorter than one slot", ErrInvalidRange, start, end)
		}
		next = ExplicitSlots(slots)
	}
	return e.commit(day, next, ActionToggleDay)
}

// UpdateWorkingHours moves one boundary of the day's working hours and
// rebuilds its slots under the editor's RegeneratePolicy.
func (e *Editor) UpdateWorkingHours(day Weekday, field Field, value Time) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	if !value.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTime, int(value))
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.weekly.Day(day)
	start, end := current.WorkingHours()
	switch field {
	case FieldStart:
		start = value
	case FieldEnd:
		end = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	if start >= end {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}

	var existing []TimeSlot
	if current.Kind() == KindSlots {
		existing = current.View().Slots
	}
	slots := e.regenerate.apply(existing, start, end)
	return e.commit(day, ExplicitSlots(slots), ActionWorkingHours)
}

// OpenDay loads the day's current slots into its edit buffer, replacing any
// buffer already open.
func (e *Editor) OpenDay(day Weekday) ([]TimeSlot, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	slots := e.weekly.Day(day).View().Slots
	e.buffers[day] = slots
	return cloneSlots(slots), nil
}

// LoadBuffer restores a previously opened edit buffer.
func (e *Editor) LoadBuffer(day Weekday, slots []TimeSlot) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	buf := cloneSlots(slots)
	if buf == nil {
		buf = []TimeSlot{}
	}
	e.buffers[day] = buf
	return nil
}

// Buffer returns a copy of the day's open edit buffer.
func (e *Editor) Buffer(day Weekday) ([]TimeSlot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	buf, ok := e.buffers[day]
	return cloneSlots(buf), ok
}

func (e *Editor) AddSlot(day Weekday, slot TimeSlot) error {
	return e.withBuffer(day, func(buf []TimeSlot) ([]TimeSlot, error) {
		return append(buf, slot), nil
	})
}

func (e *Editor) RemoveSlot(day Weekday, index int) error {
	return e.withBuffer(day, func(buf []TimeSlot) ([]TimeSlot, error) {
		if index < 0 || index >= len(buf) {
			return nil, fmt.Errorf("%w: %d", ErrSlotIndex, index)
		}
		return append(buf[:index], buf[index+1:]...), nil
	})
}

func (e *Editor) UpdateSlot(day Weekday, index int, edit SlotEdit) error {
	return e.withBuffer(day, func(buf []TimeSlot) ([]TimeSlot, error) {
		if index < 0 || index >= len(buf) {
			return nil, fmt.Errorf("%w: %d", ErrSlotIndex, index)
		}
		if edit.Start != nil {
			buf[index].Start = *edit.Start
		}
		if edit.End != nil {
			buf[index].End = *edit.End
		}
		if edit.Available != nil {
			buf[index].Available = *edit.Available
		}
		return buf, nil
	})
}

// RegenerateFromWorkingHours throws away the buffer and refills it from the
// day's current working hours.
func (e *Editor) RegenerateFromWorkingHours(day Weekday) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.buffers[day]; !ok {
		return fmt.Errorf("%w: %s", ErrNoEditSession, day)
	}
	start, end := e.weekly.Day(day).WorkingHours()
	buf := GenerateTimeSlots(start, end)
	if buf == nil {
		buf = []TimeSlot{}
	}
	e.buffers[day] = buf
	return nil
}

// SaveDay validates the buffer and commits it as the day's slots. An empty
// buffer disables the day. The buffer is closed on success and kept on error.
func (e *Editor) SaveDay(day Weekday) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	buf, ok := e.buffers[day]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEditSession, day)
	}
	slots, err := e.overlap.resolve(buf)
	if err != nil {
		return err
	}
	if err := e.commit(day, ExplicitSlots(slots), ActionSaveDay); err != nil {
		return err
	}
	delete(e.buffers, day)
	return nil
}

// DiscardDay closes the buffer without committing.
func (e *Editor) DiscardDay(day Weekday) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.buffers, day)
}

func (e *Editor) withBuffer(day Weekday, fn func([]TimeSlot) ([]TimeSlot, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	buf, ok := e.buffers[day]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEditSession, day)
	}
	next, err := fn(cloneSlots(buf))
	if err != nil {
		return err
	}
	if next == nil {
		next = []TimeSlot{}
	}
	e.buffers[day] = next
	return nil
}

// commit must be called with e.mu held. The previous value is restored if the
// update callback fails.
func (e *Editor) commit(day Weekday, next Day, action Action) error {
	prev := e.weekly[day]
	e.weekly[day] = next

	if e.onUpdate != nil {
		if err := e.onUpdate(e.weekly.Clone()); err != nil {
			e.weekly[day] = prev
			return fmt.Errorf("availability update: %w", err)
		}
	}

	if e.notifier != nil {
		view := next.View()
		e.notifier.Notify(Notification{
			Day:     day,
			Action:  action,
			Enabled: view.Available,
			Slots:   len(view.Slots),
			Message: notificationMessage(day, action, view),
		})
	}
	return nil
}

func notificationMessage(day Weekday, action Action, view DayView) string {
	switch action {
	case ActionToggleDay:
		if view.Available {
			return fmt.Sprintf("%s enabled with %d slots", day, len(view.Slots))
		}
		return fmt.Sprintf("%s disabled", day)
	case ActionWorkingHours:
		return fmt.Sprintf("%s working hours updated, %d slots", day, len(view.Slots))
	default:
		if !view.Available {
			return fmt.Sprintf("%s saved with no slots and disabled", day)
		}
		return fmt.Sprintf("%s saved with %d slots", day, len(view.Slots))
	}
}
