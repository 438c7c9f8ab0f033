package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/middleware"
	ucRetention "github.com/navalhaclub/barber-saas/internal/usecase/retention"
)

// RetentionHandler alimenta o painel: lista de clientes "sumidos" para o
// badge de overdue. Só leitura — o envio fica no job.
type RetentionHandler struct {
	detector *ucRetention.IdentifyOverdueClients
}

func NewRetentionHandler(detector *ucRetention.IdentifyOverdueClients) *RetentionHandler {
	return &RetentionHandler{detector: detector}
}

func (h *RetentionHandler) ListOverdue(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	overdue, err := h.detector.Execute(c.Request.Context(), barbershopID)
	if err != nil {
		httperr.Internal(c, "failed_to_detect_overdue", "Erro ao identificar clientes sumidos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(overdue),
		"overdue": overdue,
	})
}
