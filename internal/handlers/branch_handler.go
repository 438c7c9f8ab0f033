package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/middleware"
	"github.com/navalhaclub/barber-saas/internal/models"
)

type BranchHandler struct {
	db *gorm.DB
}

func NewBranchHandler(db *gorm.DB) *BranchHandler {
	return &BranchHandler{db: db}
}

// --------- Requests ---------

type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Hours   string `json:"hours"`
}

type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Hours   *string `json:"hours,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *BranchHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var branches []models.Branch
	if err := h.db.
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&branches).Error; err != nil {
		httperr.Internal(c, "failed_to_list_branches", "Erro ao listar unidades.")
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	branch := models.Branch{
		BarbershopID: barbershopID,
		Name:         req.Name,
		Address:      req.Address,
		Phone:        req.Phone,
		Hours:        req.Hours,
		Active:       true,
	}

	if err := h.db.Create(&branch).Error; err != nil {
		httperr.Internal(c, "failed_to_create_branch", "Erro ao criar unidade.")
		return
	}

	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	branch, ok := h.branchFromParam(c, barbershopID)
	if !ok {
		return
	}

	var req UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.Hours != nil {
		branch.Hours = *req.Hours
	}
	if req.Active != nil {
		branch.Active = *req.Active
	}

	if err := h.db.Save(branch).Error; err != nil {
		httperr.Internal(c, "failed_to_update_branch", "Erro ao atualizar unidade.")
		return
	}

	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) Delete(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	branch, ok := h.branchFromParam(c, barbershopID)
	if !ok {
		return
	}

	if err := h.db.Delete(branch).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_branch", "Erro ao excluir unidade.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *BranchHandler) branchFromParam(c *gin.Context, barbershopID uint) (*models.Branch, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var branch models.Branch
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&branch).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Unidade não encontrada.")
		return nil, false
	}
	return &branch, true
}
