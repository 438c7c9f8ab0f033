package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/httpresp"
	"github.com/navalhaclub/barber-saas/internal/middleware"
	"github.com/navalhaclub/barber-saas/internal/models"
)

type NoteHandler struct {
	db *gorm.DB
}

func NewNoteHandler(db *gorm.DB) *NoteHandler {
	return &NoteHandler{db: db}
}

type CreateNoteRequest struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
}

func (h *NoteHandler) ListForClient(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var notes []models.CustomerNote
	if err := h.db.
		Where("barbershop_id = ? AND client_id = ?", barbershopID, clientID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_notes", "Erro ao listar anotações.")
		return
	}

	httpresp.List(c, notes)
}

func (h *NoteHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", clientID, barbershopID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	note := models.CustomerNote{
		BarbershopID: barbershopID,
		ClientID:     client.ID,
		Text:         req.Text,
		Author:       req.Author,
	}

	if err := h.db.Create(&note).Error; err != nil {
		httperr.Internal(c, "failed_to_create_note", "Erro ao criar anotação.")
		return
	}

	c.JSON(http.StatusCreated, note)
}
