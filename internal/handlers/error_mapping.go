package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/navalhaclub/barber-saas/internal/httperr"
)

// mapBookingErrors traduz os erros de negócio da criação de agendamento
// para respostas HTTP.
func mapBookingErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "branch_not_found"):
		httperr.BadRequest(c, "branch_not_found", "Unidade não encontrada.")
	case httperr.IsBusiness(err, "branch_inactive"):
		httperr.BadRequest(c, "branch_inactive", "Unidade desativada.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
	case httperr.IsBusiness(err, "too_soon"):
		httperr.BadRequest(c, "too_soon", "Horário inválido.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Serviço não encontrado.")
	case httperr.IsBusiness(err, "barber_not_found"):
		httperr.BadRequest(c, "barber_not_found", "Barbeiro não encontrado.")
	case httperr.IsBusiness(err, "outside_working_hours"):
		httperr.BadRequest(c, "outside_working_hours", "Fora do horário de atendimento.")
	case httperr.IsBusiness(err, "time_conflict"):
		httperr.Conflict(c, "time_conflict", "Conflito de horário.")
	default:
		httperr.Internal(c, "failed_to_create_appointment", "Erro ao criar agendamento.")
	}
}
