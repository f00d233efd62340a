package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of an invoice. PAID and CANCELLED are terminal.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is an amount owed by a member.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	MemberID      string          `json:"memberID"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	DueDate       time.Time       `json:"dueDate"`
	Status        InvoiceStatus   `json:"status"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	AuditFields
}

// Remaining is what is still owed after paid payments totalling paid.
func (i Invoice) Remaining(paid decimal.Decimal) decimal.Decimal {
	remaining := i.Amount.Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// AcceptPayment checks that a payment of amount from payerMemberID may be applied,
// given the total of already paid payments.
func (i Invoice) AcceptPayment(payerMemberID string, amount, paid decimal.Decimal) error {
	if i.Status != InvoicePending {
		return apperrors.Newf(apperrors.ErrValidation, "invoice %s is %s and accepts no payments", i.InvoiceNumber, strings.ToLower(string(i.Status)))
	}
	if payerMemberID != i.MemberID {
		return apperrors.Newf(apperrors.ErrValidation, "invoice %s belongs to a different member", i.InvoiceNumber)
	}
	remaining := i.Remaining(paid)
	if amount.GreaterThan(remaining) {
		return apperrors.Newf(apperrors.ErrValidation, "payment %s exceeds invoice remaining balance %s",
			amount.StringFixed(2), remaining.StringFixed(2))
	}
	return nil
}

// Reconcile flips the invoice to PAID once paid reaches the invoice amount.
// It reports whether the status changed.
func (i *Invoice) Reconcile(paid decimal.Decimal, actorID string, now time.Time) bool {
	if i.Status != InvoicePending || paid.LessThan(i.Amount) {
		return false
	}
	paidAt := now
	i.Status = InvoicePaid
	i.PaidAt = &paidAt
	i.Touch(actorID, now)
	return true
}

// CanModify allows edits and cancellation only while PENDING with nothing paid.
func (i Invoice) CanModify(paid decimal.Decimal) error {
	if i.Status != InvoicePending {
		return apperrors.Newf(apperrors.ErrInvalidTransition, "invoice %s is %s", i.InvoiceNumber, strings.ToLower(string(i.Status)))
	}
	if paid.IsPositive() {
		return apperrors.Newf(apperrors.ErrConflict, "invoice %s already has paid payments", i.InvoiceNumber)
	}
	return nil
}

// CanDeleteInvoice allows a hard delete only for a PENDING invoice with no payments at all.
func CanDeleteInvoice(i Invoice, paymentCount int) error {
	if i.Status != InvoicePending {
		return apperrors.Newf(apperrors.ErrConflict, "invoice %s is %s and cannot be deleted", i.InvoiceNumber, strings.ToLower(string(i.Status)))
	}
	if paymentCount > 0 {
		return apperrors.Newf(apperrors.ErrConflict, "invoice %s has %d payments", i.InvoiceNumber, paymentCount)
	}
	return nil
}

// NewInvoiceNumber builds an INV-YYYYMM-XXXXXX number.
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("200601"), suffix)
}

// InvoiceDetail is an invoice with its reconciliation totals.
type InvoiceDetail struct {
	Invoice
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// NewInvoiceDetail computes the totals for inv given the sum of its paid payments.
func NewInvoiceDetail(inv Invoice, paid decimal.Decimal) InvoiceDetail {
	return InvoiceDetail{Invoice: inv, AmountPaid: paid, Remaining: inv.Remaining(paid)}
}
