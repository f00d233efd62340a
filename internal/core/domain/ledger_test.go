package domain_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFinancialAccount_CanDebit(t *testing.T) {
	acc := domain.FinancialAccount{Name: "Cash box", Balance: dec("50"), IsActive: true}

	err := acc.CanDebit(dec("200"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.NoError(t, acc.CanDebit(dec("50")))

	acc.IsActive = false
	assert.ErrorIs(t, acc.CanDebit(dec("1")), apperrors.ErrValidation)
	assert.ErrorIs(t, acc.CanCredit(), apperrors.ErrValidation)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, domain.ValidateAmount(dec("0.01")))
	assert.NoError(t, domain.ValidateAmount(dec("1000.50")))
	assert.ErrorIs(t, domain.ValidateAmount(decimal.Zero), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.ValidateAmount(dec("-5")), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.ValidateAmount(dec("1.001")), apperrors.ErrValidation)
}

func TestTransaction_SignedAmount(t *testing.T) {
	income := domain.Transaction{TransactionType: domain.TransactionIncome, Amount: dec("300")}
	expense := domain.Transaction{TransactionType: domain.TransactionExpense, Amount: dec("200")}

	assert.True(t, income.SignedAmount().Equal(dec("300")))
	assert.True(t, expense.SignedAmount().Equal(dec("-200")))
	assert.True(t, income.SignedAmount().Add(expense.SignedAmount()).Equal(dec("100")))
}

func TestInvoice_AcceptPaymentAndReconcile(t *testing.T) {
	now := time.Now()
	inv := domain.Invoice{InvoiceNumber: "INV-202403-ABC123", MemberID: "m1", Amount: dec("500"), Status: domain.InvoicePending}

	require.NoError(t, inv.AcceptPayment("m1", dec("300"), decimal.Zero))
	assert.ErrorIs(t, inv.AcceptPayment("m2", dec("100"), decimal.Zero), apperrors.ErrValidation)
	assert.ErrorIs(t, inv.AcceptPayment("m1", dec("201"), dec("300")), apperrors.ErrValidation)
	require.NoError(t, inv.AcceptPayment("m1", dec("200"), dec("300")))

	assert.False(t, inv.Reconcile(dec("300"), "admin", now))
	assert.Equal(t, domain.InvoicePending, inv.Status)
	assert.True(t, inv.Remaining(dec("300")).Equal(dec("200")))

	assert.True(t, inv.Reconcile(dec("500"), "admin", now))
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.NotNil(t, inv.PaidAt)
	assert.ErrorIs(t, inv.AcceptPayment("m1", dec("1"), dec("500")), apperrors.ErrValidation)
	assert.True(t, inv.Remaining(dec("600")).IsZero())
}

func TestInvoice_Guards(t *testing.T) {
	inv := domain.Invoice{InvoiceNumber: "INV-1", Status: domain.InvoicePending}
	assert.NoError(t, inv.CanModify(decimal.Zero))
	assert.ErrorIs(t, inv.CanModify(dec("10")), apperrors.ErrConflict)
	assert.NoError(t, domain.CanDeleteInvoice(inv, 0))
	assert.ErrorIs(t, domain.CanDeleteInvoice(inv, 1), apperrors.ErrConflict)

	inv.Status = domain.InvoiceCancelled
	assert.ErrorIs(t, inv.CanModify(decimal.Zero), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, inv.AcceptPayment("", dec("1"), decimal.Zero), apperrors.ErrValidation)
}

func TestNewInvoiceNumber(t *testing.T) {
	now := time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)
	number := domain.NewInvoiceNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^INV-202407-[0-9A-F]{6}$`), number)
	assert.NotEqual(t, number, domain.NewInvoiceNumber(now))
}

func TestPayment_Rules(t *testing.T) {
	memberID := "m1"
	p := domain.Payment{PaymentID: "p1", Amount: dec("100"), Status: domain.PaymentUnpaid, MemberID: &memberID}
	require.NoError(t, p.ValidatePayer())

	p.ExternalPayer = domain.ExternalPayer{Name: "Acme Ltd"}
	assert.ErrorIs(t, p.ValidatePayer(), apperrors.ErrValidation)
	p.MemberID = nil
	require.NoError(t, p.ValidatePayer())
	p.ExternalPayer = domain.ExternalPayer{}
	assert.ErrorIs(t, p.ValidatePayer(), apperrors.ErrValidation)

	require.NoError(t, p.CanModify())
	require.NoError(t, p.MarkPaid("acc", "txn", "admin", time.Now()))
	assert.Equal(t, domain.PaymentPaid, p.Status)
	assert.ErrorIs(t, p.CanModify(), apperrors.ErrConflict)
	assert.ErrorIs(t, p.MarkPaid("acc", "txn2", "admin", time.Now()), apperrors.ErrConflict)
}

func TestInitialPaymentStatus(t *testing.T) {
	remaining := dec("500")
	assert.Equal(t, domain.PaymentUnpaid, domain.InitialPaymentStatus(dec("100"), nil))
	assert.Equal(t, domain.PaymentPartial, domain.InitialPaymentStatus(dec("300"), &remaining))
	assert.Equal(t, domain.PaymentUnpaid, domain.InitialPaymentStatus(dec("500"), &remaining))
}

func TestCanDeleteAccount(t *testing.T) {
	assert.NoError(t, domain.CanDeleteAccount(0))
	assert.ErrorIs(t, domain.CanDeleteAccount(3), apperrors.ErrConflict)
}
