package availability_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	updates       []availability.Weekly
	notifications []availability.Notification
}

func (r *recorder) options() []availability.Option {
	return []availability.Option{
		availability.OnUpdate(func(w availability.Weekly) error {
			r.updates = append(r.updates, w)
			return nil
		}),
		availability.WithNotifier(availability.NotifierFunc(func(n availability.Notification) {
			r.notifications = append(r.notifications, n)
		})),
	}
}

func boolPtr(b bool) *bool { return &b }

func timePtr(s string) *availability.Time {
	t := tm(s)
	return &t
}

func TestEditorToggleDay(t *testing.T) {
	rec := &recorder{}
	ed := availability.NewEditor(availability.NewWeekly(), rec.options()...)

	require.NoError(t, ed.ToggleDay(availability.Monday))
	view, err := ed.Day(availability.Monday)
	require.NoError(t, err)
	assert.True(t, view.Available)
	assert.Len(t, view.Slots, 32) // 09:00-17:00
	assert.Equal(t, tm("09:00"), view.Slots[0].Start)

	require.NoError(t, ed.ToggleDay(availability.Monday))
	out, err := json.Marshal(ed.Weekly())
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Equal(t, "false", string(raw["monday"]))

	require.Len(t, rec.updates, 2)
	require.Len(t, rec.notifications, 2)
	assert.Equal(t, availability.ActionToggleDay, rec.notifications[0].Action)
	assert.True(t, rec.notifications[0].Enabled)
	assert.False(t, rec.notifications[1].Enabled)
}

func TestEditorToggleUsesBlockHours(t *testing.T) {
	w := availability.NewWeekly()
	w[availability.Saturday] = availability.WorkingHoursBlock(tm("10:00"), tm("11:00"), false)
	ed := availability.NewEditor(w)

	require.NoError(t, ed.ToggleDay(availability.Saturday))
	view, _ := ed.Day(availability.Saturday)
	assert.True(t, view.Available)
	assert.Len(t, view.Slots, 4)
}

func TestEditorToggleEnabledDayWithoutSlots(t *testing.T) {
	rec := &recorder{}
	w := availability.NewWeekly()
	w[availability.Sunday] = availability.EnabledDay()
	ed := availability.NewEditor(w, rec.options()...)

	require.NoError(t, ed.ToggleDay(availability.Sunday))
	view, _ := ed.Day(availability.Sunday)
	assert.False(t, view.Available)
	require.Len(t, rec.notifications, 1)
	assert.False(t, rec.notifications[0].Enabled)
}

func TestEditorToggleRejectsBlockShorterThanASlot(t *testing.T) {
	rec := &recorder{}
	w := availability.NewWeekly()
	w[availability.Saturday] = availability.WorkingHoursBlock(tm("10:00"), tm("10:10"), false)
	ed := availability.NewEditor(w, rec.options()...)

	assert.ErrorIs(t, ed.ToggleDay(availability.Saturday), availability.ErrInvalidRange)
	assert.Equal(t, availability.KindWorkingHours, ed.Weekly().Day(availability.Saturday).Kind())
	assert.Empty(t, rec.updates)
	assert.Empty(t, rec.notifications)
}

func TestEditorToggleInvalidDay(t *testing.T) {
	ed := availability.NewEditor(nil)
	assert.ErrorIs(t, ed.ToggleDay("someday"), availability.ErrInvalidWeekday)
}

func TestEditorUpdateWorkingHours(t *testing.T) {
	t.Run("regenerate discards custom slots", func(t *testing.T) {
		w := availability.NewWeekly()
		w[availability.Monday] = availability.WorkingHoursBlock(tm("09:00"), tm("10:00"), true)
		rec := &recorder{}
		ed := availability.NewEditor(w, rec.options()...)

		_, err := ed.OpenDay(availability.Monday)
		require.NoError(t, err)
		require.NoError(t, ed.AddSlot(availability.Monday, slot("12:00", "12:40", true)))
		require.NoError(t, ed.SaveDay(availability.Monday))

		require.NoError(t, ed.UpdateWorkingHours(availability.Monday, availability.FieldStart, tm("12:00")))
		view, _ := ed.Day(availability.Monday)
		// the day held slots, so the accessor falls back to the 17:00 default end
		assert.Len(t, view.Slots, 20)
		for _, s := range view.Slots {
			assert.NotEqual(t, tm("12:40"), s.End)
		}
		assert.Equal(t, availability.ActionWorkingHours, rec.notifications[len(rec.notifications)-1].Action)
	})

	t.Run("block hours are the seed", func(t *testing.T) {
		w := availability.NewWeekly()
		w[availability.Monday] = availability.WorkingHoursBlock(tm("09:00"), tm("10:00"), true)
		ed := availability.NewEditor(w)

		require.NoError(t, ed.UpdateWorkingHours(availability.Monday, availability.FieldEnd, tm("09:45")))
		view, _ := ed.Day(availability.Monday)
		assert.Equal(t, []availability.TimeSlot{
			slot("09:00", "09:15", true),
			slot("09:15", "09:30", true),
			slot("09:30", "09:45", true),
		}, view.Slots)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		rec := &recorder{}
		ed := availability.NewEditor(availability.NewWeekly(), rec.options()...)
		err := ed.UpdateWorkingHours(availability.Monday, availability.FieldEnd, tm("08:00"))
		assert.ErrorIs(t, err, availability.ErrInvalidRange)
		assert.Empty(t, rec.updates)
		view, _ := ed.Day(availability.Monday)
		assert.False(t, view.Available)
	})

	t.Run("merge keeps custom slots and flags", func(t *testing.T) {
		w := availability.NewWeekly()
		w[availability.Monday] = availability.ExplicitSlots([]availability.TimeSlot{
			slot("09:00", "09:15", false),
			slot("09:15", "09:30", true),
			slot("10:00", "10:40", true),
			slot("18:00", "18:30", true),
		})
		ed := availability.NewEditor(w, availability.WithRegeneratePolicy(availability.PolicyMergePreserveCustom))

		require.NoError(t, ed.UpdateWorkingHours(availability.Monday, availability.FieldEnd, tm("11:00")))
		view, _ := ed.Day(availability.Monday)

		assert.Equal(t, slot("09:00", "09:15", false), view.Slots[0])
		assert.Contains(t, view.Slots, slot("10:00", "10:40", true))
		assert.NotContains(t, view.Slots, slot("18:00", "18:30", true))
		assert.NotContains(t, view.Slots, slot("10:15", "10:30", true))
		assert.Contains(t, view.Slots, slot("10:45", "11:00", true))
		for i := 1; i < len(view.Slots); i++ {
			assert.LessOrEqual(t, view.Slots[i-1].End, view.Slots[i].Start)
		}
	})
}

func TestEditorBuffer(t *testing.T) {
	w := availability.NewWeekly()
	w[availability.Tuesday] = availability.ExplicitSlots(availability.GenerateTimeSlots(tm("09:00"), tm("10:00")))
	rec := &recorder{}
	ed := availability.NewEditor(w, rec.options()...)

	t.Run("operations need an open buffer", func(t *testing.T) {
		assert.ErrorIs(t, ed.AddSlot(availability.Tuesday, slot("11:00", "11:15", true)), availability.ErrNoEditSession)
		assert.ErrorIs(t, ed.RemoveSlot(availability.Tuesday, 0), availability.ErrNoEditSession)
		assert.ErrorIs(t, ed.SaveDay(availability.Tuesday), availability.ErrNoEditSession)
		assert.ErrorIs(t, ed.RegenerateFromWorkingHours(availability.Tuesday), availability.ErrNoEditSession)
	})

	t.Run("edit and save", func(t *testing.T) {
		slots, err := ed.OpenDay(availability.Tuesday)
		require.NoError(t, err)
		require.Len(t, slots, 4)

		require.NoError(t, ed.RemoveSlot(availability.Tuesday, 0))
		require.NoError(t, ed.UpdateSlot(availability.Tuesday, 0, availability.SlotEdit{Available: boolPtr(false)}))
		require.NoError(t, ed.AddSlot(availability.Tuesday, slot("08:00", "08:30", true)))
		assert.ErrorIs(t, ed.RemoveSlot(availability.Tuesday, 9), availability.ErrSlotIndex)

		// nothing is committed until save
		view, _ := ed.Day(availability.Tuesday)
		assert.Len(t, view.Slots, 4)
		assert.Empty(t, rec.updates)

		require.NoError(t, ed.SaveDay(availability.Tuesday))
		view, _ = ed.Day(availability.Tuesday)
		assert.Equal(t, []availability.TimeSlot{
			slot("08:00", "08:30", true),
			slot("09:15", "09:30", false),
			slot("09:30", "09:45", true),
			slot("09:45", "10:00", true),
		}, view.Slots)
		require.Len(t, rec.updates, 1)
		assert.Equal(t, availability.ActionSaveDay, rec.notifications[0].Action)

		_, open := ed.Buffer(availability.Tuesday)
		assert.False(t, open)
	})

	t.Run("empty buffer stores false", func(t *testing.T) {
		_, err := ed.OpenDay(availability.Tuesday)
		require.NoError(t, err)
		require.NoError(t, ed.LoadBuffer(availability.Tuesday, nil))
		require.NoError(t, ed.SaveDay(availability.Tuesday))

		assert.Equal(t, availability.KindUnavailable, ed.Weekly().Day(availability.Tuesday).Kind())
	})

	t.Run("regenerate replaces buffer", func(t *testing.T) {
		_, err := ed.OpenDay(availability.Tuesday)
		require.NoError(t, err)
		require.NoError(t, ed.AddSlot(availability.Tuesday, slot("20:00", "20:15", true)))
		require.NoError(t, ed.RegenerateFromWorkingHours(availability.Tuesday))

		buf, open := ed.Buffer(availability.Tuesday)
		require.True(t, open)
		assert.Len(t, buf, 32)
		ed.DiscardDay(availability.Tuesday)
		_, open = ed.Buffer(availability.Tuesday)
		assert.False(t, open)
	})
}

func TestEditorSaveValidation(t *testing.T) {
	t.Run("inverted slot", func(t *testing.T) {
		ed := availability.NewEditor(availability.NewWeekly())
		_, _ = ed.OpenDay(availability.Friday)
		require.NoError(t, ed.AddSlot(availability.Friday, slot("10:00", "09:00", true)))
		assert.ErrorIs(t, ed.SaveDay(availability.Friday), availability.ErrInvalidSlot)

		_, open := ed.Buffer(availability.Friday)
		assert.True(t, open, "buffer survives a failed save")
	})

	t.Run("overlap rejected", func(t *testing.T) {
		ed := availability.NewEditor(availability.NewWeekly())
		_, _ = ed.OpenDay(availability.Friday)
		require.NoError(t, ed.AddSlot(availability.Friday, slot("09:00", "10:00", true)))
		require.NoError(t, ed.AddSlot(availability.Friday, slot("09:30", "10:30", true)))
		assert.ErrorIs(t, ed.SaveDay(availability.Friday), availability.ErrOverlappingSlots)
	})

	t.Run("overlap merged", func(t *testing.T) {
		ed := availability.NewEditor(availability.NewWeekly(), availability.WithOverlapPolicy(availability.OverlapMerge))
		_, _ = ed.OpenDay(availability.Friday)
		require.NoError(t, ed.AddSlot(availability.Friday, slot("11:00", "11:15", true)))
		require.NoError(t, ed.AddSlot(availability.Friday, slot("09:30", "10:30", false)))
		require.NoError(t, ed.AddSlot(availability.Friday, slot("09:00", "10:00", true)))
		require.NoError(t, ed.SaveDay(availability.Friday))

		view, _ := ed.Day(availability.Friday)
		assert.Equal(t, []availability.TimeSlot{
			slot("09:00", "10:30", false),
			slot("11:00", "11:15", true),
		}, view.Slots)
	})

	t.Run("update slot edits fields", func(t *testing.T) {
		ed := availability.NewEditor(availability.NewWeekly())
		_, _ = ed.OpenDay(availability.Friday)
		require.NoError(t, ed.AddSlot(availability.Friday, slot("09:00", "09:15", true)))
		require.NoError(t, ed.UpdateSlot(availability.Friday, 0, availability.SlotEdit{Start: timePtr("08:45"), End: timePtr("09:30")}))
		buf, _ := ed.Buffer(availability.Friday)
		assert.Equal(t, slot("08:45", "09:30", true), buf[0])
		assert.ErrorIs(t, ed.UpdateSlot(availability.Friday, 3, availability.SlotEdit{}), availability.ErrSlotIndex)
	})
}

func TestEditorRollsBackOnUpdateFailure(t *testing.T) {
	boom := errors.New("store down")
	notified := false
	ed := availability.NewEditor(availability.NewWeekly(),
		availability.OnUpdate(func(availability.Weekly) error { return boom }),
		availability.WithNotifier(availability.NotifierFunc(func(availability.Notification) { notified = true })),
	)

	err := ed.ToggleDay(availability.Monday)
	assert.ErrorIs(t, err, boom)
	assert.False(t, notified)
	view, _ := ed.Day(availability.Monday)
	assert.False(t, view.Available)
}
