package models

import "time"

type CustomerNote struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `json:"barbershop_id"`
	ClientID     uint `gorm:"index" json:"client_id"`

	Text   string `gorm:"size:500;not null" json:"text"`
	Author string `gorm:"size:100" json:"author"`

	CreatedAt time.Time `json:"created_at"`
}
