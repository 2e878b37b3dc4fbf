package models

import (
	"time"

	"gorm.io/gorm"
)

type Service struct {
	gorm.Model
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           float64  `json:"price"`
	Discount        float64  `json:"discount"` // Discount percentage
	DiscountedPrice float64  `json:"discounted_price" gorm:"-"`
	Active          bool     `json:"active" gorm:"default:true"`
	ProviderID      uint     `json:"provider_id" gorm:"index"`
}

func (s *Service) AfterFind(tx *gorm.DB) (err error) {
	s.DiscountedPrice = s.Price - (s.Price * s.Discount / 100)
	return
}

// Duration of one booking, never shorter than a single slot.
func (s Service) Duration() time.Duration {
	d := time.Duration(s.DurationMinutes) * time.Minute
	if d < 15*time.Minute {
		return 15 * time.Minute
	}
	return d
}
