package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderStore is the booking query surface the reminder job needs.
type ReminderStore interface {
	DueForReminder(ctx context.Context, dates []string) ([]models.Booking, error)
	MarkReminded(ctx context.Context, id uint) error
}

// Reminder emails customers about confirmed bookings starting within lead.
type Reminder struct {
	store  ReminderStore
	mailer utils.Mailer
	lead   time.Duration
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewReminder(store ReminderStore, mailer utils.Mailer, lead time.Duration, loc *time.Location, logger *zap.Logger) *Reminder {
	if loc == nil {
		loc = time.UTC
	}
	return &Reminder{
		store:  store,
		mailer: mailer,
		lead:   lead,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// StartCronJobs schedules the reminder job every minute and starts the scheduler.
func StartCronJobs(r *Reminder) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(r.loc))
	_, err := c.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		r.Run(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add reminder job: %w", err)
	}
	c.Start()
	r.logger.Info("cron job scheduler started for booking reminders", zap.Duration("lead", r.lead))
	return c, nil
}

// Run sends one round of reminders. Bookings whose mail fails stay unmarked
// and are retried on the next run while still inside the window.
func (r *Reminder) Run(ctx context.Context) {
	now := r.now().In(r.loc)
	until := now.Add(r.lead)

	dates := []string{now.Format(models.DateLayout)}
	if d := until.Format(models.DateLayout); d != dates[0] {
		dates = append(dates, d)
	}

	bookings, err := r.store.DueForReminder(ctx, dates)
	if err != nil {
		r.logger.Error("error fetching bookings for reminders", zap.Error(err))
		return
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		day, err := utils.ParseDate(b.Date, r.loc)
		if err != nil {
			r.logger.Warn("booking has unreadable date", zap.Uint("booking_id", b.ID), zap.String("date", b.Date))
			continue
		}
		start := b.StartTime.On(day)
		if !start.After(now) || start.After(until) {
			continue
		}

		if err := r.sendReminderEmail(b); err != nil {
			r.logger.Warn("failed to send reminder", zap.Uint("booking_id", b.ID), zap.Error(err))
			continue
		}
		if err := r.store.MarkReminded(ctx, b.ID); err != nil {
			r.logger.Error("failed to mark booking reminded", zap.Uint("booking_id", b.ID), zap.Error(err))
			continue
		}
		sent++
	}
	if sent > 0 {
		r.logger.Info("sent booking reminders", zap.Int("count", sent))
	}
}

func (r *Reminder) sendReminderEmail(b *models.Booking) error {
	subject := fmt.Sprintf("Reminder: %s for %s on %s at %s", b.Service.Name, b.Pet.Name, b.Date, b.StartTime)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder of your upcoming booking.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Pet:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s - %s</li>
			<li><strong>Reference:</strong> %s</li>
		</ul>
		<p>If you need to cancel, please do so from your bookings page as soon as possible.</p>
	`, b.Customer.Name, b.Service.Name, b.Provider.BusinessName, b.Pet.Name,
		b.Date, b.StartTime, b.EndTime, b.Reference)

	return r.mailer.Send(b.Customer.Email, subject, body)
}
