package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/whatsapp"
)

// Store persiste o alerta interno do painel.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Result separa a falha de escrita interna da falha de envio externo.
// O Dispatcher nunca devolve error: notificação jamais bloqueia a operação
// de negócio que a disparou.
type Result struct {
	InternalErr  error
	ExternalSent bool
	ExternalErr  error
}

func (r Result) OK() bool {
	return r.InternalErr == nil && r.ExternalErr == nil
}

type Dispatcher struct {
	store  Store
	sender whatsapp.Sender
	logger zerolog.Logger

	// Fallbacks quando a barbearia não configurou os próprios.
	defaultAdminPhone string
	defaultBookingURL string
}

func NewDispatcher(
	store Store,
	sender whatsapp.Sender,
	logger zerolog.Logger,
	defaultAdminPhone string,
	defaultBookingURL string,
) *Dispatcher {
	return &Dispatcher{
		store:             store,
		sender:            sender,
		logger:            logger,
		defaultAdminPhone: defaultAdminPhone,
		defaultBookingURL: defaultBookingURL,
	}
}

// Notify grava o alerta interno (sempre, best-effort) e envia a mensagem
// externa conforme o tipo do evento.
func (d *Dispatcher) Notify(ctx context.Context, shop *models.Barbershop, ev Event) Result {
	var res Result

	d.logger.Info().
		Str("type", string(ev.Kind())).
		Str("client", ev.ClientLabel()).
		Msg("processing notification event")

	// --------------------------------------------------
	// 1. Alerta interno (sempre)
	// --------------------------------------------------
	title, message := internalAlert(ev)

	n := &models.Notification{
		Type:    "system",
		Title:   title,
		Message: message,
	}
	if shop != nil {
		n.BarbershopID = shop.ID
	}

	if err := d.store.CreateNotification(ctx, n); err != nil {
		d.logger.Error().Err(err).
			Str("type", string(ev.Kind())).
			Msg("failed to write internal notification")
		res.InternalErr = err
	}

	// --------------------------------------------------
	// 2. Mensagem externa (por tipo)
	// --------------------------------------------------
	switch e := ev.(type) {

	case AppointmentNew:
		adminPhone := d.adminPhone(shop)
		if adminPhone == "" {
			d.logger.Warn().Msg("admin phone not configured, skipping external send")
			return res
		}
		d.send(ctx, adminPhone, newBookingMessage(e), &res)

	case AppointmentCompleted:
		d.send(ctx, e.ClientPhone, thankYouMessage(e.ClientName), &res)

	case RetentionAlert:
		d.send(ctx, e.ClientPhone, retentionMessage(e, d.bookingURL(shop)), &res)

	case AppointmentReminder:
		// alerta interno apenas
	}

	return res
}

func (d *Dispatcher) send(ctx context.Context, to, message string, res *Result) {
	if err := d.sender.SendText(ctx, to, message); err != nil {
		d.logger.Error().Err(err).Str("to", to).Msg("failed to send whatsapp message")
		res.ExternalErr = err
		return
	}
	res.ExternalSent = true
}

func (d *Dispatcher) adminPhone(shop *models.Barbershop) string {
	if shop != nil && shop.AdminPhone != "" {
		return shop.AdminPhone
	}
	return d.defaultAdminPhone
}

func (d *Dispatcher) bookingURL(shop *models.Barbershop) string {
	if shop != nil && shop.BookingURL != "" {
		return shop.BookingURL
	}
	return d.defaultBookingURL
}

// --------------------------------------------------
// Textos
// --------------------------------------------------

func internalAlert(ev Event) (title, message string) {
	switch e := ev.(type) {
	case AppointmentNew:
		service := e.ServiceName
		if service == "" {
			service = "serviço"
		}
		return "Novo Agendamento",
			fmt.Sprintf("%s agendou %s para %s às %s", e.ClientName, service, e.Date, e.Time)
	case AppointmentReminder:
		return "Lembrete Enviado",
			fmt.Sprintf("Lembrete (Retenção) enviado para %s", e.ClientName)
	case AppointmentCompleted:
		return "Agradecimento Enviado",
			fmt.Sprintf("Agradecimento pós-corte enviado para %s", e.ClientName)
	case RetentionAlert:
		return "Risco de Churn",
			fmt.Sprintf("Cliente %s não volta há %d dias.", e.ClientName, e.DaysSinceLastVisit)
	}
	return "", ""
}

func newBookingMessage(e AppointmentNew) string {
	return fmt.Sprintf(
		"💈 *Novo agendamento!*\n\nCliente: %s\nServiço: %s\nBarbeiro: %s\nData: %s\nHorário: %s",
		e.ClientName, e.ServiceName, e.BarberName, e.Date, e.Time,
	)
}

func thankYouMessage(clientName string) string {
	return fmt.Sprintf(
		"Obrigado pela visita, %s!\nFoi um prazer te atender hoje.\nEsperamos que tenha curtido o corte.",
		firstName(clientName),
	)
}

func retentionMessage(e RetentionAlert, bookingURL string) string {
	return fmt.Sprintf(
		"Oi %s! 👋\nJá faz cerca de %d dias desde o seu último serviço.\nQue tal agendar novamente para manter o visual em dia? ✂️\n\nReserve aqui: %s",
		firstName(e.ClientName), e.DaysSinceLastVisit, bookingURL,
	)
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}
