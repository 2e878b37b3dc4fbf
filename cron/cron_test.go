package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeStore struct {
	bookings []models.Booking
	dates    []string
	marked   []uint
}

func (f *fakeStore) DueForReminder(ctx context.Context, dates []string) ([]models.Booking, error) {
	f.dates = dates
	return f.bookings, nil
}

func (f *fakeStore) MarkReminded(ctx context.Context, id uint) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeMailer struct {
	to   []string
	fail map[string]bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail[to] {
		return errors.New("mailbox unavailable")
	}
	m.to = append(m.to, to)
	return nil
}

func booking(id uint, date, start, email string) models.Booking {
	return models.Booking{
		Model:     gorm.Model{ID: id},
		Date:      date,
		StartTime: availability.MustTime(start),
		EndTime:   availability.MustTime(start).Add(30 * time.Minute),
		Status:    models.StatusConfirmed,
		Customer:  models.User{Name: "Meera", Email: email},
		Service:   models.Service{Name: "Bath"},
		Pet:       models.Pet{Name: "Bruno"},
	}
}

func TestReminderRun(t *testing.T) {
	store := &fakeStore{bookings: []models.Booking{
		booking(1, "2026-10-19", "10:30", "a@example.com"), // inside the hour
		booking(2, "2026-10-19", "09:45", "b@example.com"), // already started
		booking(3, "2026-10-19", "12:00", "c@example.com"), // too far out
		booking(4, "2026-10-19", "10:45", "d@example.com"), // mail fails
	}}
	mailer := &fakeMailer{fail: map[string]bool{"d@example.com": true}}

	r := NewReminder(store, mailer, time.Hour, time.UTC, zap.NewNop())
	r.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }
	r.Run(context.Background())

	assert.Equal(t, []string{"2026-10-19"}, store.dates)
	assert.Equal(t, []string{"a@example.com"}, mailer.to)
	assert.Equal(t, []uint{1}, store.marked)
}

func TestReminderWindowCrossesMidnight(t *testing.T) {
	store := &fakeStore{bookings: []models.Booking{
		booking(5, "2026-10-20", "00:15", "late@example.com"),
	}}
	mailer := &fakeMailer{}

	r := NewReminder(store, mailer, time.Hour, time.UTC, zap.NewNop())
	r.now = func() time.Time { return time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC) }
	r.Run(context.Background())

	require.Equal(t, []string{"2026-10-19", "2026-10-20"}, store.dates)
	assert.Equal(t, []uint{5}, store.marked)
}
