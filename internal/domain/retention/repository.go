package retention

import (
	"context"
	"time"

	"github.com/navalhaclub/barber-saas/internal/models"
)

type Repository interface {
	ListBarbershops(
		ctx context.Context,
	) ([]models.Barbershop, error)

	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	ListClients(
		ctx context.Context,
		barbershopID uint,
	) ([]models.Client, error)

	// ListAppointmentsByClient retorna os agendamentos do cliente ordenados
	// por starts_at decrescente (o mais recente primeiro).
	ListAppointmentsByClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	// ListRemindersSince retorna os lembretes enviados a partir de `since`,
	// base da janela de supressão.
	ListRemindersSince(
		ctx context.Context,
		barbershopID uint,
		since time.Time,
	) ([]models.ReminderLog, error)

	CreateReminderLog(
		ctx context.Context,
		log *models.ReminderLog,
	) error

	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// ListCompletedAppointments retorna agendamentos completed com Client e
	// Service pré-carregados, insumo do job de agradecimento.
	ListCompletedAppointments(
		ctx context.Context,
		barbershopID uint,
	) ([]models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
