package retention

import (
	"time"

	"github.com/navalhaclub/barber-saas/internal/models"
)

// SuppressionWindow é a janela de supressão: cliente que recebeu lembrete
// dentro dela não recebe outro.
const SuppressionWindow = 7 * 24 * time.Hour

// ThankYouDelay é o tempo mínimo após finished_at antes do agradecimento.
const ThankYouDelay = 30 * time.Minute

// ServiceUnknown é o sentinel gravado no ReminderLog quando o último
// serviço do cliente não pôde ser resolvido.
const ServiceUnknown = "unknown"

// OverdueClient é um candidato a lembrete de retenção.
type OverdueClient struct {
	Client      models.Client   `json:"client"`
	LastService *models.Service `json:"last_service"`
	AvgDays     int             `json:"avg_days"`
	LastDate    time.Time       `json:"last_date"`
}

// IsPastVisit decide se um agendamento conta como visita realizada.
// Um pending antigo conta como visita: a regra mistura "concluído" com
// "horário já passou" de propósito (comportamento herdado do produto).
func IsPastVisit(ap *models.Appointment, now time.Time) bool {
	return ap.Status == "completed" || ap.StartsAt.Before(now)
}

// HasFutureBooking indica se o cliente já tem horário marcado — nesse caso
// não faz sentido cobrá-lo.
func HasFutureBooking(appointments []models.Appointment, now time.Time) bool {
	for i := range appointments {
		ap := &appointments[i]
		if (ap.Status == "pending" || ap.Status == "confirmed") && ap.StartsAt.After(now) {
			return true
		}
	}
	return false
}
