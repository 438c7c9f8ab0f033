package models

import "time"

type Barbershop struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone string `gorm:"size:50" json:"timezone"`

	// AdminPhone recebe os alertas de novo agendamento via WhatsApp.
	AdminPhone string `gorm:"size:20" json:"admin_phone"`

	// BookingURL é o link público usado nas mensagens de retenção.
	BookingURL string `gorm:"size:255" json:"booking_url"`

	MinAdvanceMinutes int `gorm:"default:120" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
