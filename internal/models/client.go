package models

import "time"

const (
	ClientStatusVisitante  = "visitante"
	ClientStatusFidelizado = "fidelizado"
)

// Cliente sem login próprio, deduplicado por telefone dentro da barbearia.
// Um visitante pode ser vinculado a um perfil fidelizado via ParentClientID.
type Client struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `json:"barbershop_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	Status         string `gorm:"size:20;default:'visitante'" json:"status"`
	ParentClientID *uint  `json:"parent_client_id"`

	LoyaltyPoints int    `gorm:"default:0" json:"loyalty_points"`
	Observations  string `gorm:"size:500" json:"observations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
