package handlers

import (
	"net/http"

	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/gin-gonic/gin"
)

// DebtHandler handles HTTP requests for a group's simplified debts.
type DebtHandler struct {
	debtModel *models.DebtModel
}

func NewDebtHandler(debtModel *models.DebtModel) *DebtHandler {
	return &DebtHandler{debtModel: debtModel}
}

// GetGroupDebtsHandler godoc
// @Summary Get simplified debts for a group
// @Description Returns the stored simplified debts plus current per-member net balances
// @Tags debts
// @Produce json
// @Param groupId path string true "Group ID"
// @Success 200 {object} types.GroupDebtsResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId}/debts [get]
// @Security BearerAuth
func (h *DebtHandler) GetGroupDebtsHandler(c *gin.Context) {
	debts, err := h.debtModel.GetGroupDebts(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}

// RecalculateDebtsHandler godoc
// @Summary Recalculate simplified debts for a group
// @Description Forces a recalculation of the group's simplified debts. Subject to a per-group cooldown.
// @Tags debts
// @Produce json
// @Param groupId path string true "Group ID"
// @Success 200 {object} types.GroupDebtsResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Router /groups/{groupId}/debts/recalculate [post]
// @Security BearerAuth
func (h *DebtHandler) RecalculateDebtsHandler(c *gin.Context) {
	debts, err := h.debtModel.RecalculateDebts(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}
