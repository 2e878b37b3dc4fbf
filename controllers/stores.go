package controllers

import (
	"context"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/repository"
)

// The handlers depend on these narrow views of the repositories so they can
// be exercised with in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type ProviderStore interface {
	Create(ctx context.Context, p *models.Provider) error
	GetByID(ctx context.Context, id uint) (*models.Provider, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Provider, error)
	List(ctx context.Context, f repository.ProviderFilter) ([]models.Provider, int64, error)
	UpdateProfile(ctx context.Context, p *models.Provider) error
}

type AvailabilityStore interface {
	GetAvailability(ctx context.Context, providerID uint) (availability.Weekly, error)
	SaveAvailability(ctx context.Context, providerID uint, w availability.Weekly) error
}

// SessionStore persists open per-day edit buffers between requests.
type SessionStore interface {
	Load(ctx context.Context, providerID uint, day availability.Weekday) ([]availability.TimeSlot, bool, error)
	Save(ctx context.Context, providerID uint, day availability.Weekday, slots []availability.TimeSlot) error
	Delete(ctx context.Context, providerID uint, day availability.Weekday) error
}

// NotifierFactory hands out a Notifier bound to one provider.
type NotifierFactory interface {
	For(providerID uint) availability.Notifier
}

type ServiceStore interface {
	ListByProvider(ctx context.Context, providerID uint, activeOnly bool) ([]models.Service, error)
	Get(ctx context.Context, id uint) (*models.Service, error)
	Create(ctx context.Context, s *models.Service) error
	Update(ctx context.Context, s *models.Service) error
	Delete(ctx context.Context, providerID, id uint) error
}

type PetStore interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error)
	Get(ctx context.Context, ownerID, id uint) (*models.Pet, error)
	Create(ctx context.Context, p *models.Pet) error
	Update(ctx context.Context, p *models.Pet) error
	Delete(ctx context.Context, ownerID, id uint) error
}

type BookingStore interface {
	CreateIfFree(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id uint) (*models.Booking, error)
	ListForCustomer(ctx context.Context, customerID uint) ([]models.Booking, error)
	ListForProvider(ctx context.Context, providerID uint, date string) ([]models.Booking, error)
	BusyIntervals(ctx context.Context, providerID uint, date string) ([]availability.Interval, error)
	UpdateStatus(ctx context.Context, b *models.Booking) error
}
