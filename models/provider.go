package models

import (
	"github.com/meinhoongagan/petcare/availability"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryGrooming   Category = "grooming"
	CategoryVeterinary Category = "veterinary"
	CategoryBoarding   Category = "boarding"
	CategoryTraining   Category = "training"
	CategoryAdoption   Category = "adoption"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGrooming, CategoryVeterinary, CategoryBoarding, CategoryTraining, CategoryAdoption:
		return true
	}
	return false
}

// Provider is the business profile of a user with the provider role.
type Provider struct {
	gorm.Model
	UserID       uint                `json:"user_id" gorm:"uniqueIndex"`
	User         User                `json:"-" gorm:"foreignKey:UserID"`
	BusinessName string              `json:"business_name"`
	Description  string              `json:"description"`
	Category     Category            `json:"category" gorm:"index"`
	Address      string              `json:"address"`
	City         string              `json:"city" gorm:"index"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	Website      string              `json:"website"`
	Availability availability.Weekly `json:"availability" gorm:"type:jsonb"`
	Services     []Service           `json:"services,omitempty" gorm:"foreignKey:ProviderID"`
}

// BeforeCreate starts every provider with an all-unavailable week
func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.Availability == nil {
		p.Availability = availability.NewWeekly()
	}
	return nil
}
