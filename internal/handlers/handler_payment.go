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

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

func registerPaymentRoutes(rg *gin.RouterGroup, active, admin gin.HandlerFunc, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments", active)
	{
		payments.GET("", h.listPayments)
		payments.GET("/:id", h.getPayment)

		payments.POST("", admin, h.createPayment)
		payments.PUT("/:id", admin, h.updatePayment)
		payments.DELETE("/:id", admin, h.deletePayment)
		payments.POST("/:id/mark-paid", admin, h.markPaymentPaid)
	}
}

// listPayments godoc
// @Summary List payments
// @Description Admins see all payments. Members see their own.
// @Tags payments
// @Produce json
// @Param status query string false "Status filter" Enums(UNPAID, PARTIAL, PAID)
// @Param memberId query string false "Payer filter (admin only)"
// @Param invoiceId query string false "Invoice filter"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Payment]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var params dto.ListPaymentsParams
	if !bindQuery(c, &params) {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), identity, domain.PaymentFilter{
		Status:    params.Status,
		MemberID:  params.MemberID,
		InvoiceID: params.InvoiceID,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(payments, params.ListParams))
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.Envelope{data=domain.Payment}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	paymentID, ok := pathID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), identity, paymentID)
	if err != nil {
		respondError(c, err, "Failed to get payment")
		return
	}
	respondData(c, http.StatusOK, payment)
}

// createPayment godoc
// @Summary Record a payment
// @Description Records money owed or received from exactly one of a member or an external payer, optionally against an invoice.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.Envelope{data=domain.Payment}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create payment")
		return
	}
	respondData(c, http.StatusCreated, payment)
}

// updatePayment godoc
// @Summary Update an unpaid payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param payment body dto.UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=domain.Payment}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/payments/{id} [put]
func (h *paymentHandler) updatePayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	paymentID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), identity, paymentID, req)
	if err != nil {
		respondError(c, err, "Failed to update payment")
		return
	}
	respondData(c, http.StatusOK, payment)
}

// deletePayment godoc
// @Summary Delete an unpaid payment
// @Tags payments
// @Param id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Payment already settled"
// @Security BearerAuth
// @Router /finance/payments/{id} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	paymentID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), identity, paymentID); err != nil {
		respondError(c, err, "Failed to delete payment")
		return
	}
	c.Status(http.StatusNoContent)
}

// markPaymentPaid godoc
// @Summary Settle a payment
// @Description Credits the account, records an INCOME transaction and marks any fully paid invoice PAID.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param settlement body dto.MarkPaymentPaidRequest true "Receiving account"
// @Success 200 {object} dto.Envelope{data=domain.Payment}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Payment already settled"
// @Security BearerAuth
// @Router /finance/payments/{id}/mark-paid [post]
func (h *paymentHandler) markPaymentPaid(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	paymentID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.MarkPaymentPaidRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.MarkPaymentPaid(c.Request.Context(), identity, paymentID, req)
	if err != nil {
		respondError(c, err, "Failed to mark payment paid")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment settled",
		slog.String("payment_id", paymentID),
		slog.String("account_id", req.AccountID),
		slog.String("amount", payment.Amount.String()))
	respondData(c, http.StatusOK, payment)
}
