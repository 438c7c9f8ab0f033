package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/joblock"
	ucRetention "github.com/navalhaclub/barber-saas/internal/usecase/retention"
)

// ======================================================
// HANDLER
// ======================================================

// JobsHandler expõe os gatilhos dos jobs de retenção e agradecimento.
// Os jobs não têm scheduler interno: um cron externo chama estes
// endpoints; a trava Redis só evita rodadas sobrepostas.
type JobsHandler struct {
	remindersUC *ucRetention.ProcessRetentionReminders
	thankYouUC  *ucRetention.SendThankYouMessages
	locker      *joblock.Locker
}

func NewJobsHandler(
	remindersUC *ucRetention.ProcessRetentionReminders,
	thankYouUC *ucRetention.SendThankYouMessages,
	locker *joblock.Locker,
) *JobsHandler {
	return &JobsHandler{
		remindersUC: remindersUC,
		thankYouUC:  thankYouUC,
		locker:      locker,
	}
}

// ======================================================
// RETENTION
// ======================================================

func (h *JobsHandler) RunRetention(c *gin.Context) {
	release, ok := h.locker.TryAcquire(c.Request.Context(), "jobs:retention", 10*time.Minute)
	if !ok {
		httperr.Conflict(c, "job_already_running", "Job de retenção já está em execução.")
		return
	}
	defer release()

	results, err := h.remindersUC.Execute(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("retention job failed")
		httperr.Internal(c, "retention_job_failed", "Erro ao processar lembretes.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": len(results),
		"results":   results,
	})
}

// ======================================================
// THANK YOU (cron)
// ======================================================

func (h *JobsHandler) RunThankYou(c *gin.Context) {
	release, ok := h.locker.TryAcquire(c.Request.Context(), "jobs:thank-you", 10*time.Minute)
	if !ok {
		httperr.Conflict(c, "job_already_running", "Job de agradecimento já está em execução.")
		return
	}
	defer release()

	log.Info().Msg("triggering thank-you message job")

	results, err := h.thankYouUC.Execute(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("thank-you job failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": len(results),
		"details":   results,
	})
}
