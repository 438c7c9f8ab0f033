package retention

import (
	"context"
	"time"

	domain "github.com/navalhaclub/barber-saas/internal/domain/retention"
)

// IdentifyOverdueClients é o detector: varre os clientes da barbearia e
// devolve quem provavelmente já deveria ter voltado. Passada somente de
// leitura — quem grava é o ProcessRetentionReminders.
type IdentifyOverdueClients struct {
	repo domain.Repository
	now  func() time.Time
}

func NewIdentifyOverdueClients(repo domain.Repository) *IdentifyOverdueClients {
	return &IdentifyOverdueClients{
		repo: repo,
		now:  time.Now,
	}
}

func (uc *IdentifyOverdueClients) Execute(
	ctx context.Context,
	barbershopID uint,
) ([]domain.OverdueClient, error) {

	now := uc.now()

	clients, err := uc.repo.ListClients(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	reminders, err := uc.repo.ListRemindersSince(
		ctx,
		barbershopID,
		now.Add(-domain.SuppressionWindow),
	)
	if err != nil {
		return nil, err
	}

	recentlyReminded := make(map[uint]bool, len(reminders))
	for _, r := range reminders {
		recentlyReminded[r.ClientID] = true
	}

	var overdue []domain.OverdueClient

	for _, client := range clients {
		appointments, err := uc.repo.ListAppointmentsByClient(ctx, client.ID)
		if err != nil {
			return nil, err
		}
		if len(appointments) == 0 {
			continue
		}

		// Visitas realizadas: completed OU horário já passado. Um pending
		// antigo conta como visita, regra herdada do produto.
		var past []time.Time
		var lastIdx = -1
		for i := range appointments {
			if domain.IsPastVisit(&appointments[i], now) {
				past = append(past, appointments[i].StartsAt)
				if lastIdx == -1 {
					// lista vem ordenada decrescente: a primeira é a mais recente
					lastIdx = i
				}
			}
		}
		if lastIdx == -1 {
			continue
		}

		// Já tem horário marcado? Então não cobramos.
		if domain.HasFutureBooking(appointments, now) {
			continue
		}

		last := appointments[lastIdx]
		avgDays := domain.AverageIntervalDays(past)
		estimatedNext := last.StartsAt.AddDate(0, 0, avgDays)

		if estimatedNext.After(now) {
			continue
		}
		if recentlyReminded[client.ID] {
			continue
		}

		item := domain.OverdueClient{
			Client:   client,
			AvgDays:  avgDays,
			LastDate: last.StartsAt,
		}
		if service, err := uc.repo.GetService(ctx, last.ServiceID); err == nil {
			item.LastService = service
		}

		overdue = append(overdue, item)
	}

	return overdue, nil
}
