package retention

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/navalhaclub/barber-saas/internal/domain/retention"
	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/notification"
)

// DispatchResult relata o resultado por cliente do job de retenção.
type DispatchResult struct {
	Success bool   `json:"success"`
	Client  string `json:"client"`
	Sent    bool   `json:"sent"`
	Error   string `json:"error,omitempty"`
}

// ProcessRetentionReminders roda o detector e dispara um RETENTION_ALERT
// por candidato, gravando o ReminderLog que alimenta a janela de supressão.
// Falha em um cliente não aborta o lote.
type ProcessRetentionReminders struct {
	repo     domain.Repository
	detector *IdentifyOverdueClients
	notifier *notification.Dispatcher
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProcessRetentionReminders(
	repo domain.Repository,
	detector *IdentifyOverdueClients,
	notifier *notification.Dispatcher,
	logger zerolog.Logger,
) *ProcessRetentionReminders {
	return &ProcessRetentionReminders{
		repo:     repo,
		detector: detector,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute processa todas as barbearias. O agendamento da execução é
// externo (cron); a supressão de 7 dias é a única proteção entre rodadas.
func (uc *ProcessRetentionReminders) Execute(ctx context.Context) ([]DispatchResult, error) {
	shops, err := uc.repo.ListBarbershops(ctx)
	if err != nil {
		return nil, err
	}

	var results []DispatchResult
	for i := range shops {
		shopResults, err := uc.ExecuteForShop(ctx, &shops[i])
		if err != nil {
			return results, err
		}
		results = append(results, shopResults...)
	}

	return results, nil
}

func (uc *ProcessRetentionReminders) ExecuteForShop(
	ctx context.Context,
	shop *models.Barbershop,
) ([]DispatchResult, error) {

	overdue, err := uc.detector.Execute(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	results := make([]DispatchResult, 0, len(overdue))

	for _, item := range overdue {
		res := uc.notifier.Notify(ctx, shop, notification.RetentionAlert{
			ClientName:         item.Client.Name,
			ClientPhone:        item.Client.Phone,
			DaysSinceLastVisit: item.AvgDays,
		})

		serviceID := domain.ServiceUnknown
		if item.LastService != nil {
			serviceID = strconv.FormatUint(uint64(item.LastService.ID), 10)
		}

		logEntry := &models.ReminderLog{
			BarbershopID:          shop.ID,
			ClientID:              item.Client.ID,
			ServiceID:             serviceID,
			SentAt:                uc.now(),
			EstimatedIntervalDays: item.AvgDays,
			Channel:               "whatsapp",
		}

		if err := uc.repo.CreateReminderLog(ctx, logEntry); err != nil {
			uc.logger.Error().Err(err).
				Str("client", item.Client.Name).
				Msg("failed to record retention reminder")
			results = append(results, DispatchResult{
				Success: false,
				Client:  item.Client.Name,
				Sent:    res.ExternalSent,
				Error:   err.Error(),
			})
			continue
		}

		results = append(results, DispatchResult{
			Success: true,
			Client:  item.Client.Name,
			Sent:    res.ExternalSent,
		})
	}

	return results, nil
}
