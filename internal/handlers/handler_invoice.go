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

type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, active, admin gin.HandlerFunc, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices", active)
	{
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)

		invoices.POST("", admin, h.createInvoice)
		invoices.PUT("/:id", admin, h.updateInvoice)
		invoices.DELETE("/:id", admin, h.deleteInvoice)
		invoices.POST("/:id/cancel", admin, h.cancelInvoice)
		invoices.POST("/:id/mark-paid", admin, h.markInvoicePaid)
	}
}

// listInvoices godoc
// @Summary List invoices
// @Description Admins see all invoices. Members see invoices addressed to them.
// @Tags invoices
// @Produce json
// @Param status query string false "Status filter" Enums(PENDING, PAID, CANCELLED)
// @Param memberId query string false "Member filter (admin only)"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Invoice]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var params dto.ListInvoicesParams
	if !bindQuery(c, &params) {
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), identity, domain.InvoiceFilter{
		Status:   params.Status,
		MemberID: params.MemberID,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(invoices, params.ListParams))
}

// getInvoice godoc
// @Summary Get an invoice
// @Description Includes the amount paid so far, the remaining balance and the linked payments.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.Envelope{data=domain.InvoiceDetail}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.invoiceService.GetInvoice(c.Request.Context(), identity, invoiceID)
	if err != nil {
		respondError(c, err, "Failed to get invoice")
		return
	}
	respondData(c, http.StatusOK, detail)
}

// createInvoice godoc
// @Summary Bill a member
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.Envelope{data=domain.Invoice}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Member not found"
// @Security BearerAuth
// @Router /finance/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber))
	respondData(c, http.StatusCreated, invoice)
}

// updateInvoice godoc
// @Summary Update a pending invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=domain.Invoice}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), identity, invoiceID, req)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	respondData(c, http.StatusOK, invoice)
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Invoices with settled payments cannot be cancelled.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.Envelope{data=domain.Invoice}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/invoices/{id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), identity, invoiceID)
	if err != nil {
		respondError(c, err, "Failed to cancel invoice")
		return
	}
	respondData(c, http.StatusOK, invoice)
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Only invoices without payments can be deleted.
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), identity, invoiceID); err != nil {
		respondError(c, err, "Failed to delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}

// markInvoicePaid godoc
// @Summary Settle an invoice in full
// @Description Records and settles a payment for the remaining balance, then marks the invoice PAID.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param settlement body dto.MarkInvoicePaidRequest true "Receiving account"
// @Success 200 {object} dto.Envelope{data=domain.InvoiceDetail}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/invoices/{id}/mark-paid [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.MarkInvoicePaidRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), identity, invoiceID, req)
	if err != nil {
		respondError(c, err, "Failed to mark invoice paid")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice settled",
		slog.String("invoice_id", invoiceID),
		slog.String("account_id", req.AccountID))
	respondData(c, http.StatusOK, detail)
}
