package retention

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apdomain "github.com/navalhaclub/barber-saas/internal/domain/appointment"
	domain "github.com/navalhaclub/barber-saas/internal/domain/retention"
	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/notification"
)

// ThankYouResult relata o resultado por agendamento do job de agradecimento.
type ThankYouResult struct {
	Success       bool   `json:"success"`
	AppointmentID uint   `json:"appointment_id"`
	Client        string `json:"client,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SendThankYouMessages envia o agradecimento pós-corte para atendimentos
// concluídos há pelo menos 30 minutos que ainda não o receberam. Gravar
// thank_you_sent_at torna a rodada idempotente.
type SendThankYouMessages struct {
	repo     domain.Repository
	notifier *notification.Dispatcher
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSendThankYouMessages(
	repo domain.Repository,
	notifier *notification.Dispatcher,
	logger zerolog.Logger,
) *SendThankYouMessages {
	return &SendThankYouMessages{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *SendThankYouMessages) Execute(ctx context.Context) ([]ThankYouResult, error) {
	shops, err := uc.repo.ListBarbershops(ctx)
	if err != nil {
		return nil, err
	}

	var results []ThankYouResult
	for i := range shops {
		shopResults, err := uc.ExecuteForShop(ctx, &shops[i])
		if err != nil {
			return results, err
		}
		results = append(results, shopResults...)
	}

	return results, nil
}

func (uc *SendThankYouMessages) ExecuteForShop(
	ctx context.Context,
	shop *models.Barbershop,
) ([]ThankYouResult, error) {

	appointments, err := uc.repo.ListCompletedAppointments(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	var eligible []models.Appointment
	for _, ap := range appointments {
		if ap.Status != string(apdomain.StatusCompleted) {
			continue
		}
		if ap.FinishedAt == nil || ap.ThankYouSentAt != nil {
			continue
		}
		if now.Sub(*ap.FinishedAt) < domain.ThankYouDelay {
			continue
		}
		eligible = append(eligible, ap)
	}

	uc.logger.Info().
		Str("shop", shop.Slug).
		Int("eligible", len(eligible)).
		Msg("thank-you job scan")

	results := make([]ThankYouResult, 0, len(eligible))

	for i := range eligible {
		ap := eligible[i]
		if ap.Client.ID == 0 {
			continue
		}

		uc.notifier.Notify(ctx, shop, notification.AppointmentCompleted{
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
		})

		if err := apdomain.MarkThankYouSent(&ap, uc.now()); err != nil {
			results = append(results, ThankYouResult{
				Success:       false,
				AppointmentID: ap.ID,
				Error:         err.Error(),
			})
			continue
		}

		if err := uc.repo.UpdateAppointment(ctx, &ap); err != nil {
			uc.logger.Error().Err(err).
				Uint("appointment_id", ap.ID).
				Msg("failed to mark thank-you sent")
			results = append(results, ThankYouResult{
				Success:       false,
				AppointmentID: ap.ID,
				Error:         err.Error(),
			})
			continue
		}

		// Registra a interação no ledger, com intervalo zero.
		logEntry := &models.ReminderLog{
			BarbershopID:          shop.ID,
			ClientID:              ap.Client.ID,
			ServiceID:             strconv.FormatUint(uint64(ap.ServiceID), 10),
			SentAt:                uc.now(),
			EstimatedIntervalDays: 0,
			Channel:               "whatsapp",
		}
		if err := uc.repo.CreateReminderLog(ctx, logEntry); err != nil {
			uc.logger.Error().Err(err).Msg("failed to record thank-you interaction")
		}

		results = append(results, ThankYouResult{
			Success:       true,
			AppointmentID: ap.ID,
			Client:        ap.Client.Name,
		})
	}

	return results, nil
}
