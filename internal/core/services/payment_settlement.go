package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// settlement is the outcome of marking a payment as paid.
type settlement struct {
	payment     *domain.Payment
	transaction *domain.Transaction
	invoice     *domain.Invoice
	invoicePaid decimal.Decimal
}

// paymentSettler posts a payment to the ledger and reconciles its invoice.
// Both the payment and invoice services settle through it so the ledger rules
// live in one place.
type paymentSettler struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	accountRepo portsrepo.AccountTransactionSupport
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	ledger      ledgerPoster
}

// settle must run inside WithinTransaction. Rows are locked in the order
// payment, invoice, account; MarkInvoicePaid takes the invoice lock first and
// never holds a payment lock another settlement could want.
func (p paymentSettler) settle(ctx context.Context, paymentID, accountID, actorID string, now time.Time) (*settlement, error) {
	payment, err := p.paymentRepo.FindPaymentByIDForUpdate(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	transactionID := uuid.NewString()
	if err := payment.MarkPaid(accountID, transactionID, actorID, now); err != nil {
		return nil, err
	}

	var invoice *domain.Invoice
	if payment.InvoiceID != nil {
		invoice, err = p.invoiceRepo.FindInvoiceByIDForUpdate(ctx, *payment.InvoiceID)
		if err != nil {
			return nil, err
		}
		paid, err := p.paymentRepo.SumPaidByInvoice(ctx, invoice.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum invoice payments: %w", err)
		}
		if err := invoice.AcceptPayment(domain.StringValue(payment.MemberID), payment.Amount, paid); err != nil {
			return nil, err
		}
	}

	account, err := p.accountRepo.FindAccountByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.CanCredit(); err != nil {
		return nil, err
	}

	description := string(payment.Purpose)
	if payment.Reference != "" {
		description += " " + payment.Reference
	}
	txn, err := p.ledger.post(ctx, domain.Transaction{
		TransactionID:   transactionID,
		AccountID:       account.AccountID,
		TransactionType: domain.TransactionIncome,
		Amount:          payment.Amount,
		Description:     description,
		Category:        string(payment.Purpose),
		PaymentMethod:   payment.Method,
		MemberID:        payment.MemberID,
		PaymentID:       domain.StringPtr(payment.PaymentID),
		InvoiceID:       payment.InvoiceID,
	}, actorID, now)
	if err != nil {
		return nil, err
	}

	if err := p.paymentRepo.UpdatePayment(ctx, *payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	result := &settlement{payment: payment, transaction: txn, invoice: invoice}
	if invoice == nil {
		return result, nil
	}

	total, err := p.paymentRepo.SumPaidByInvoice(ctx, invoice.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoice payments: %w", err)
	}
	result.invoicePaid = total
	if invoice.Reconcile(total, actorID, now) {
		if err := p.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
			return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
		}
	}
	return result, nil
}
