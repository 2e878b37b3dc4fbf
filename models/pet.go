package models

import "gorm.io/gorm"

type Pet struct {
	gorm.Model
	OwnerID  uint    `json:"owner_id" gorm:"index"`
	Name     string  `json:"name"`
	Species  string  `json:"species"` // dog, cat, ...
	Breed    string  `json:"breed"`
	AgeYears int     `json:"age_years"`
	WeightKg float64 `json:"weight_kg"`
	Notes    string  `json:"notes"`
}
