package handlers

import (
	"net/http"

	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/gin-gonic/gin"
)

// SettlementHandler handles HTTP requests for settlements within a group.
type SettlementHandler struct {
	settlementModel *models.SettlementModel
}

func NewSettlementHandler(settlementModel *models.SettlementModel) *SettlementHandler {
	return &SettlementHandler{settlementModel: settlementModel}
}

// CreateSettlementHandler godoc
// @Summary Record a settlement
// @Description Records a direct payment between two members and refreshes the group's simplified debts
// @Tags settlements
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param request body types.CreateSettlementRequest true "Settlement details"
// @Success 201 {object} types.Settlement
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse
// @Router /groups/{groupId}/settlements [post]
// @Security BearerAuth
func (h *SettlementHandler) CreateSettlementHandler(c *gin.Context) {
	var req types.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	settlement, err := h.settlementModel.CreateSettlement(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c), req)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settlement)
}

// GetSettlementHandler godoc
// @Summary Get a settlement
// @Tags settlements
// @Produce json
// @Param groupId path string true "Group ID"
// @Param settlementId path string true "Settlement ID"
// @Success 200 {object} types.Settlement
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId}/settlements/{settlementId} [get]
// @Security BearerAuth
func (h *SettlementHandler) GetSettlementHandler(c *gin.Context) {
	settlement, err := h.settlementModel.GetSettlement(c.Request.Context(), c.Param("groupId"), c.Param("settlementId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// ListSettlementsHandler godoc
// @Summary List group settlements
// @Tags settlements
// @Produce json
// @Param groupId path string true "Group ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} types.PaginatedResponse
// @Router /groups/{groupId}/settlements [get]
// @Security BearerAuth
func (h *SettlementHandler) ListSettlementsHandler(c *gin.Context) {
	var params types.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.settlementModel.ListSettlements(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c), params)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteSettlementHandler godoc
// @Summary Delete a settlement
// @Description Deletes the settlement and refreshes the group's simplified debts
// @Tags settlements
// @Param groupId path string true "Group ID"
// @Param settlementId path string true "Settlement ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId}/settlements/{settlementId} [delete]
// @Security BearerAuth
func (h *SettlementHandler) DeleteSettlementHandler(c *gin.Context) {
	err := h.settlementModel.DeleteSettlement(c.Request.Context(), c.Param("groupId"), c.Param("settlementId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
