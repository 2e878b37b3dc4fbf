package repository

import (
	"context"

	"github.com/meinhoongagan/petcare/models"
	"gorm.io/gorm"
)

type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	var pets []models.Pet
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

// Get only finds pets belonging to ownerID.
func (r *PetRepository) Get(ctx context.Context, ownerID, id uint) (*models.Pet, error) {
	var p models.Pet
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PetRepository) Create(ctx context.Context, p *models.Pet) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PetRepository) Update(ctx context.Context, p *models.Pet) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PetRepository) Delete(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Pet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
