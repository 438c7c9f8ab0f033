package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/middleware"
	"github.com/navalhaclub/barber-saas/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	Observations string `json:"observations"`
}

type UpdateClientRequest struct {
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Status        *string `json:"status,omitempty"`
	Observations  *string `json:"observations,omitempty"`
	LoyaltyPoints *int    `json:"loyalty_points,omitempty"`
}

type LinkClientRequest struct {
	ParentClientID uint `json:"parent_client_id" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	status := strings.TrimSpace(c.Query("status"))

	q := h.db.Where("barbershop_id = ?", barbershopID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	if status == models.ClientStatusVisitante || status == models.ClientStatusFidelizado {
		q = q.Where("status = ?", status)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	status := req.Status
	if status != models.ClientStatusFidelizado {
		status = models.ClientStatusVisitante
	}

	// Telefone é a chave natural de deduplicação.
	var count int64
	h.db.Model(&models.Client{}).
		Where("barbershop_id = ? AND phone = ?", barbershopID, req.Phone).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "phone_already_exists", "Já existe cliente com esse telefone.")
		return
	}

	client := models.Client{
		BarbershopID: barbershopID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Status:       status,
		Observations: req.Observations,
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Erro ao criar cliente.")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	client, ok := h.clientFromParam(c, barbershopID)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Status != nil {
		if *req.Status != models.ClientStatusVisitante && *req.Status != models.ClientStatusFidelizado {
			httperr.BadRequest(c, "invalid_status", "Status de cliente inválido.")
			return
		}
		client.Status = *req.Status
	}
	if req.Observations != nil {
		client.Observations = *req.Observations
	}
	if req.LoyaltyPoints != nil {
		if *req.LoyaltyPoints < 0 {
			httperr.BadRequest(c, "invalid_loyalty_points", "Pontos não podem ser negativos.")
			return
		}
		client.LoyaltyPoints = *req.LoyaltyPoints
	}

	if err := h.db.Save(client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Erro ao atualizar cliente.")
		return
	}

	c.JSON(http.StatusOK, client)
}

// ======================================================
// LINK (visitante → fidelizado)
// ======================================================

// Link vincula um visitante a um perfil fidelizado. O vínculo é uma
// back-reference: o visitante aponta para o perfil pai e passa a contar
// como parte dele.
func (h *ClientHandler) Link(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	client, ok := h.clientFromParam(c, barbershopID)
	if !ok {
		return
	}

	var req LinkClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.ParentClientID == client.ID {
		httperr.BadRequest(c, "invalid_parent", "Cliente não pode ser pai de si mesmo.")
		return
	}

	var parent models.Client
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", req.ParentClientID, barbershopID).
		First(&parent).Error; err != nil {
		httperr.NotFound(c, "parent_not_found", "Perfil fidelizado não encontrado.")
		return
	}

	client.ParentClientID = &parent.ID
	client.Status = models.ClientStatusFidelizado

	if err := h.db.Save(client).Error; err != nil {
		httperr.Internal(c, "failed_to_link_client", "Erro ao vincular cliente.")
		return
	}

	c.JSON(http.StatusOK, client)
}

// ======================================================
// DELETE
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	client, ok := h.clientFromParam(c, barbershopID)
	if !ok {
		return
	}

	if err := h.db.Delete(client).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Erro ao excluir cliente.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ======================================================
// HELPERS
// ======================================================

func (h *ClientHandler) clientFromParam(c *gin.Context, barbershopID uint) (*models.Client, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return nil, false
	}
	return &client, true
}
