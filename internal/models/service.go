package models

import "time"

type Service struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	BarbershopID uint  `json:"barbershop_id"`
	BranchID     *uint `json:"branch_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
