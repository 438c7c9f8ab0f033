package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/httpresp"
	infraRepo "github.com/navalhaclub/barber-saas/internal/infra/repository"
	"github.com/navalhaclub/barber-saas/internal/middleware"
)

type NotificationHandler struct {
	repo *infraRepo.NotificationGormRepository
}

func NewNotificationHandler(repo *infraRepo.NotificationGormRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	onlyUnread := c.Query("unread") == "true"

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	list, err := h.repo.List(c.Request.Context(), barbershopID, onlyUnread, limit)
	if err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Erro ao listar notificações.")
		return
	}

	httpresp.List(c, list)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.repo.MarkRead(c.Request.Context(), barbershopID, uint(id)); err != nil {
		httperr.Internal(c, "failed_to_mark_read", "Erro ao marcar como lida.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
