package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/models"
	"gorm.io/gorm"
)

type ProviderFilter struct {
	Category models.Category
	City     string
	Query    string
	Page     int
	Limit    int
}

func (f *ProviderFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
}

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(ctx context.Context, p *models.Provider) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProviderRepository) GetByID(ctx context.Context, id uint) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProviderRepository) GetByUserID(ctx context.Context, userID uint) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// List returns one page of providers and the total number matching the filter.
func (r *ProviderRepository) List(ctx context.Context, f ProviderFilter) ([]models.Provider, int64, error) {
	f.normalize()

	query := r.db.WithContext(ctx).Model(&models.Provider{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(f.City))
	}
	if f.Query != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(f.Query))
		query = query.Where("LOWER(business_name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var providers []models.Provider
	err := query.Order("id").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&providers).Error
	if err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

// UpdateProfile saves the editable profile fields; availability is left alone.
func (r *ProviderRepository) UpdateProfile(ctx context.Context, p *models.Provider) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("business_name", "description", "category", "address", "city", "phone", "email", "website").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProviderRepository) GetAvailability(ctx context.Context, providerID uint) (availability.Weekly, error) {
	var p models.Provider
	err := r.db.WithContext(ctx).Select("id", "availability").First(&p, providerID).Error
	if err != nil {
		return nil, translate(err)
	}
	if p.Availability == nil {
		return availability.NewWeekly(), nil
	}
	return p.Availability, nil
}

// SaveAvailability replaces the provider's stored week. Last write wins.
func (r *ProviderRepository) SaveAvailability(ctx context.Context, providerID uint, w availability.Weekly) error {
	res := r.db.WithContext(ctx).Model(&models.Provider{}).
		Where("id = ?", providerID).
		Update("availability", w)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
