package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles the expense approval workflow.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

func registerExpenseRoutes(rg *gin.RouterGroup, active, admin gin.HandlerFunc, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses", active)
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.POST("/:id/submit", h.submitExpense)

		expenses.POST("/:id/approve", admin, h.approveExpense)
		expenses.POST("/:id/reject", admin, h.rejectExpense)
		expenses.POST("/:id/mark-paid", admin, h.markExpensePaid)
	}
}

// createExpense godoc
// @Summary Raise an expense
// @Description Creates a DRAFT expense requested by the caller.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create expense")
		return
	}
	respondData(c, http.StatusCreated, expense)
}

// listExpenses godoc
// @Summary List expenses
// @Description Admins see all expenses. Members see the ones they requested.
// @Tags expenses
// @Produce json
// @Param status query string false "Status filter" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED, PAID)
// @Param requestedBy query string false "Requester filter (admin only)"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Expense]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var params dto.ListExpensesParams
	if !bindQuery(c, &params) {
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), identity, domain.ExpenseFilter{
		Status:      params.Status,
		RequestedBy: params.RequestedBy,
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(expenses, params.ListParams))
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), identity, expenseID)
	if err != nil {
		respondError(c, err, "Failed to get expense")
		return
	}
	respondData(c, http.StatusOK, expense)
}

// updateExpense godoc
// @Summary Update a draft expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), identity, expenseID, req)
	if err != nil {
		respondError(c, err, "Failed to update expense")
		return
	}
	respondData(c, http.StatusOK, expense)
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Paid expenses cannot be deleted.
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), identity, expenseID); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// submitExpense godoc
// @Summary Submit an expense for approval
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse "Invalid transition"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id}/submit [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), identity, expenseID)
	if err != nil {
		respondError(c, err, "Failed to submit expense")
		return
	}
	respondData(c, http.StatusOK, expense)
}

// approveExpense godoc
// @Summary Approve an expense
// @Description Requesters cannot approve their own expense unless their position is on the self-approval list.
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id}/approve [post]
func (h *expenseHandler) approveExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), identity, expenseID)
	if err != nil {
		respondError(c, err, "Failed to approve expense")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Expense approved", slog.String("expense_id", expenseID))
	respondData(c, http.StatusOK, expense)
}

// rejectExpense godoc
// @Summary Reject an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param reason body dto.RejectExpenseRequest true "Rejection reason"
// @Success 200 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id}/reject [post]
func (h *expenseHandler) rejectExpense(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RejectExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.RejectExpense(c.Request.Context(), identity, expenseID, req)
	if err != nil {
		respondError(c, err, "Failed to reject expense")
		return
	}
	respondData(c, http.StatusOK, expense)
}

// markExpensePaid godoc
// @Summary Pay an approved expense
// @Description Debits the account and records an EXPENSE transaction in one step.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param payment body dto.MarkExpensePaidRequest true "Paying account"
// @Success 200 {object} dto.Envelope{data=domain.Expense}
// @Failure 400 {object} ErrorResponse "Insufficient funds or invalid transition"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses/{id}/mark-paid [post]
func (h *expenseHandler) markExpensePaid(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.MarkExpensePaidRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.MarkExpensePaid(c.Request.Context(), identity, expenseID, req)
	if err != nil {
		respondError(c, err, "Failed to mark expense paid")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Expense paid",
		slog.String("expense_id", expenseID),
		slog.String("account_id", req.AccountID),
		slog.String("amount", expense.Amount.String()))
	respondData(c, http.StatusOK, expense)
}
