package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/meinhoongagan/petcare/availability"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
	StatusCompleted BookingStatus = "completed"
)

// DateLayout is the calendar date format bookings are stored with.
const DateLayout = "2006-01-02"

type Booking struct {
	gorm.Model
	Reference    string            `json:"reference" gorm:"uniqueIndex"`
	Date         string            `json:"date" gorm:"index"` // YYYY-MM-DD
	StartTime    availability.Time `json:"start_time"`
	EndTime      availability.Time `json:"end_time"`
	Status       BookingStatus     `json:"status"`
	Notes        string            `json:"notes"`
	ReminderSent bool              `json:"reminder_sent" gorm:"default:false"`
	ServiceID    uint              `json:"service_id"`
	Service      Service           `json:"service" gorm:"foreignKey:ServiceID"`
	ProviderID   uint              `json:"provider_id" gorm:"index"`
	Provider     Provider          `json:"provider" gorm:"foreignKey:ProviderID"`
	CustomerID   uint              `json:"customer_id" gorm:"index"`
	Customer     User              `json:"customer" gorm:"foreignKey:CustomerID"`
	PetID        uint              `json:"pet_id"`
	Pet          Pet               `json:"pet" gorm:"foreignKey:PetID"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.Reference == "" {
		b.Reference = uuid.NewString()
	}
	return nil
}

// Interval is the part of the day the booking occupies.
func (b Booking) Interval() availability.Interval {
	return availability.Interval{Start: b.StartTime, End: b.EndTime}
}

// Transition validates a status change without persisting it.
func (b *Booking) Transition(newStatus BookingStatus) error {
	switch b.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCanceled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCanceled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCanceled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	default:
		return fmt.Errorf("unknown status %q", b.Status)
	}

	b.Status = newStatus
	return nil
}
