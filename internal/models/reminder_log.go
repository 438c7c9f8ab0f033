package models

import "time"

// ReminderLog é append-only: uma linha por lembrete disparado. Serve de
// trava contra reenvio dentro da janela de supressão de 7 dias.
type ReminderLog struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `json:"barbershop_id"`

	ClientID uint `gorm:"index" json:"client_id"`

	// ServiceID guarda "unknown" quando o último serviço não pôde ser resolvido.
	ServiceID string `gorm:"size:20" json:"service_id"`

	SentAt                time.Time `gorm:"index" json:"sent_at"`
	EstimatedIntervalDays int       `json:"estimated_interval_days"`
	Channel               string    `gorm:"size:20;default:'whatsapp'" json:"channel"`
}
