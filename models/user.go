package models

import (
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"password,omitempty"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role" gorm:"type:varchar(20);default:customer"`
	Pets      []Pet     `json:"pets,omitempty" gorm:"foreignKey:OwnerID"`
	Bookings  []Booking `json:"bookings,omitempty" gorm:"foreignKey:CustomerID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
