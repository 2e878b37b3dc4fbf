package repository

import (
	"context"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateIfFree inserts b unless another live booking of the same provider
// overlaps it. The provider row is locked for the duration of the check.
func (r *BookingRepository) CreateIfFree(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var provider models.Provider
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&provider, b.ProviderID).Error; err != nil {
			return translate(err)
		}

		var conflicts int64
		err := tx.Model(&models.Booking{}).
			Where("provider_id = ? AND date = ? AND status <> ?", b.ProviderID, b.Date, models.StatusCanceled).
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrSlotTaken
		}

		return tx.Create(b).Error
	})
}

func (r *BookingRepository) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").Preload("Pet").
		First(&b, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepository) ListForCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").Preload("Pet").
		Where("customer_id = ?", customerID).
		Order("date DESC, start_time DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListForProvider lists a provider's bookings, optionally restricted to one date.
func (r *BookingRepository) ListForProvider(ctx context.Context, providerID uint, date string) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).
		Preload("Service").Preload("Pet").Preload("Customer").
		Where("provider_id = ?", providerID)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	var bookings []models.Booking
	err := query.Order("date, start_time").Find(&bookings).Error
	return bookings, err
}

// BusyIntervals returns the parts of date already taken by live bookings.
func (r *BookingRepository) BusyIntervals(ctx context.Context, providerID uint, date string) ([]availability.Interval, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where("provider_id = ? AND date = ? AND status <> ?", providerID, date, models.StatusCanceled).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	busy := make([]availability.Interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, b.Interval())
	}
	return busy, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Model(b).Update("status", b.Status).Error
}

// DueForReminder returns confirmed, not yet reminded bookings on the given dates.
func (r *BookingRepository) DueForReminder(ctx context.Context, dates []string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Service").Preload("Provider").Preload("Pet").
		Where("status = ? AND reminder_sent = ? AND date IN ?", models.StatusConfirmed, false, dates).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) MarkReminded(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("reminder_sent", true).Error
}
