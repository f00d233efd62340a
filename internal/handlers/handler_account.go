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

// accountHandler handles HTTP requests related to accounts and the ledger.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers the admin-only account, transaction and summary routes.
func registerAccountRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts", admin)
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/transactions", h.listAccountTransactions)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
	}

	transactions := rg.Group("/transactions", admin)
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
	}

	rg.GET("/summary", admin, h.getSummary)
}

// createAccount godoc
// @Summary Create a new account
// @Description Opens a financial account. A non-zero opening balance is posted to the ledger as income.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.Envelope{data=domain.FinancialAccount}
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Admin only"
// @Failure 500 {object} ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /finance/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("opening_balance", account.Balance.String()))
	respondData(c, http.StatusCreated, account)
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce  json
// @Param activeOnly query bool false "Only active accounts"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.FinancialAccount]}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if !bindQuery(c, &params) {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), domain.AccountFilter{
		ActiveOnly: params.ActiveOnly,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(accounts, params.ListParams))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.Envelope{data=domain.FinancialAccount}
// @Failure 400 {object} ErrorResponse "Invalid account ID format"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /finance/accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	respondData(c, http.StatusOK, account)
}

// listAccountTransactions godoc
// @Summary List an account's ledger
// @Description Returns transactions newest first using an opaque continuation token.
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.Envelope{data=domain.TransactionPage}
// @Failure 400 {object} ErrorResponse "Invalid ID or token"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /finance/accounts/{id}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	var params dto.AccountTransactionsParams
	if !bindQuery(c, &params) {
		return
	}

	page, err := h.accountService.ListAccountTransactions(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, err, "Failed to list account transactions")
		return
	}
	if page.Items == nil {
		page.Items = []domain.Transaction{}
	}
	respondData(c, http.StatusOK, page)
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates name, description or active flag. Balance only changes through the ledger.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.Envelope{data=domain.FinancialAccount}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), identity, accountID, req)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	respondData(c, http.StatusOK, account)
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Accounts with ledger history cannot be deleted. Deactivate them instead.
// @Tags accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account has transactions"
// @Security BearerAuth
// @Router /finance/accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), identity, accountID); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param accountId query string false "Account filter"
// @Param type query string false "Type filter" Enums(INCOME, EXPENSE)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Transaction]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if !bindQuery(c, &params) {
		return
	}

	txns, err := h.accountService.ListTransactions(c.Request.Context(), domain.TransactionFilter{
		AccountID:       params.AccountID,
		TransactionType: params.Type,
		Limit:           params.Limit,
		Offset:          params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(txns, params.ListParams))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.Envelope{data=domain.Transaction}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/transactions/{id} [get]
func (h *accountHandler) getTransaction(c *gin.Context) {
	transactionID, ok := pathID(c)
	if !ok {
		return
	}

	txn, err := h.accountService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err, "Failed to get transaction")
		return
	}
	respondData(c, http.StatusOK, txn)
}

// getSummary godoc
// @Summary Finance summary
// @Description Total balance across active accounts, lifetime income and expense, outstanding invoices and expenses awaiting payment.
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.Envelope{data=domain.FinanceSummary}
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/summary [get]
func (h *accountHandler) getSummary(c *gin.Context) {
	summary, err := h.accountService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute finance summary")
		return
	}
	respondData(c, http.StatusOK, summary)
}
