package handlers

import (
	"net/http"

	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles HTTP requests for expenses within a group.
type ExpenseHandler struct {
	expenseModel *models.ExpenseModel
}

func NewExpenseHandler(expenseModel *models.ExpenseModel) *ExpenseHandler {
	return &ExpenseHandler{expenseModel: expenseModel}
}

// CreateExpenseHandler godoc
// @Summary Record an expense
// @Description Records an expense with its payments and splits and refreshes the group's simplified debts
// @Tags expenses
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param request body types.CreateExpenseRequest true "Expense details"
// @Success 201 {object} types.Expense
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse
// @Router /groups/{groupId}/expenses [post]
// @Security BearerAuth
func (h *ExpenseHandler) CreateExpenseHandler(c *gin.Context) {
	var req types.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := h.expenseModel.CreateExpense(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c), req)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// GetExpenseHandler godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param groupId path string true "Group ID"
// @Param expenseId path string true "Expense ID"
// @Success 200 {object} types.Expense
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId}/expenses/{expenseId} [get]
// @Security BearerAuth
func (h *ExpenseHandler) GetExpenseHandler(c *gin.Context) {
	expense, err := h.expenseModel.GetExpense(c.Request.Context(), c.Param("groupId"), c.Param("expenseId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// ListExpensesHandler godoc
// @Summary List group expenses
// @Description Lists expenses newest first, paginated
// @Tags expenses
// @Produce json
// @Param groupId path string true "Group ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} types.PaginatedResponse
// @Router /groups/{groupId}/expenses [get]
// @Security BearerAuth
func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	var params types.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.expenseModel.ListExpenses(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c), params)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateExpenseHandler godoc
// @Summary Update an expense
// @Description Patches the expense. Payments and splits are replaced wholesale and must be sent together.
// @Tags expenses
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param expenseId path string true "Expense ID"
// @Param request body types.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} types.Expense
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId}/expenses/{expenseId} [patch]
// @Security BearerAuth
func (h *ExpenseHandler) UpdateExpenseHandler(c *gin.Context) {
	var req types.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := h.expenseModel.UpdateExpense(c.Request.Context(), c.Param("groupId"), c.Param("expenseId"), middleware.GetUserID(c), req)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteExpenseHandler godoc
// @Summary Delete an expense
// @Description Deletes the expense and refreshes the group's simplified debts
// @Tags expenses
// @Param groupId path string true "Group ID"
// @Param expenseId path string true "Expense ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId}/expenses/{expenseId} [delete]
// @Security BearerAuth
func (h *ExpenseHandler) DeleteExpenseHandler(c *gin.Context) {
	err := h.expenseModel.DeleteExpense(c.Request.Context(), c.Param("groupId"), c.Param("expenseId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
