package repository

import (
	"context"

	"github.com/meinhoongagan/petcare/models"
	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID uint, activeOnly bool) ([]models.Service, error) {
	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var services []models.Service
	if err := query.Order("id").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServiceRepository) Delete(ctx context.Context, providerID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND provider_id = ?", id, providerID).Delete(&models.Service{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
