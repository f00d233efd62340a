package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/notify"
	"github.com/google/uuid"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	memberRepo  portsrepo.MemberReader
	notifier    notify.Notifier
	settler     paymentSettler
}

// NewInvoiceService creates a new invoice service. A nil notifier disables notifications.
func NewInvoiceService(
	txManager portsrepo.TransactionManager,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	accountRepo portsrepo.AccountTransactionSupport,
	transactionRepo portsrepo.TransactionWriter,
	memberRepo portsrepo.MemberReader,
	notifier notify.Notifier,
	opts ...Option,
) portssvc.InvoiceSvcFacade {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	svc := &invoiceService{
		txManager:   txManager,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		notifier:    notifier,
		settler: paymentSettler{
			paymentRepo: paymentRepo,
			accountRepo: accountRepo,
			invoiceRepo: invoiceRepo,
			ledger:      ledgerPoster{accountRepo: accountRepo, transactionRepo: transactionRepo},
		},
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) GetInvoice(ctx context.Context, actor domain.Identity, invoiceID string) (*domain.InvoiceDetail, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, invoice.MemberID); err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumPaidByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoice payments: %w", err)
	}
	detail := domain.NewInvoiceDetail(*invoice, paid)
	return &detail, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, actor domain.Identity, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	if !actor.IsAdmin() {
		filter.MemberID = actor.MemberID
	}
	return s.invoiceRepo.ListInvoices(ctx, filter)
}

func (s *invoiceService) CreateInvoice(ctx context.Context, actor domain.Identity, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindMemberByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.ErrValidation, "member %s does not exist", req.MemberID)
		}
		return nil, err
	}

	now := s.Now()
	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: domain.NewInvoiceNumber(now),
		MemberID:      member.MemberID,
		Amount:        req.Amount,
		Description:   req.Description,
		DueDate:       req.DueDate.UTC(),
		Status:        domain.InvoicePending,
		AuditFields:   domain.NewAuditFields(actor.MemberID, now),
	}
	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to save invoice", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	s.LogInfo(ctx, "Invoice issued",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("amount", invoice.Amount.StringFixed(2)))

	if err := s.notifier.InvoiceIssued(ctx, *member, invoice); err != nil {
		s.LogError(ctx, err, "Failed to queue invoice notification", slog.String("invoice_id", invoice.InvoiceID))
	}
	return &invoice, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, actor domain.Identity, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var updated *domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockModifiable(ctx, invoiceID)
		if err != nil {
			return err
		}
		if req.Amount != nil {
			if err := domain.ValidateAmount(*req.Amount); err != nil {
				return err
			}
			invoice.Amount = *req.Amount
		}
		if req.Description != nil {
			invoice.Description = *req.Description
		}
		if req.DueDate != nil {
			invoice.DueDate = req.DueDate.UTC()
		}
		invoice.Touch(actor.MemberID, s.Now())
		if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, actor domain.Identity, invoiceID string) (*domain.Invoice, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var cancelled *domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockModifiable(ctx, invoiceID)
		if err != nil {
			return err
		}
		invoice.Status = domain.InvoiceCancelled
		invoice.Touch(actor.MemberID, s.Now())
		if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
			return fmt.Errorf("failed to cancel invoice: %w", err)
		}
		cancelled = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invoice cancelled", slog.String("invoice_id", invoiceID), slog.String("cancelled_by", actor.MemberID))
	return cancelled, nil
}

// lockModifiable locks the invoice and checks it is PENDING with nothing paid.
func (s *invoiceService) lockModifiable(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumPaidByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoice payments: %w", err)
	}
	if err := invoice.CanModify(paid); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, actor domain.Identity, invoiceID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		count, err := s.paymentRepo.CountPaymentsByInvoice(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to count invoice payments: %w", err)
		}
		if err := domain.CanDeleteInvoice(*invoice, count); err != nil {
			return err
		}
		return s.invoiceRepo.DeleteInvoice(ctx, invoiceID)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID), slog.String("deleted_by", actor.MemberID))
	return nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, actor domain.Identity, invoiceID string, req dto.MarkInvoicePaidRequest) (*domain.InvoiceDetail, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	method := req.Method
	if method == "" {
		method = domain.MethodCash
	}

	var result *settlement
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		paid, err := s.paymentRepo.SumPaidByInvoice(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to sum invoice payments: %w", err)
		}
		remaining := invoice.Remaining(paid)
		if err := invoice.AcceptPayment(invoice.MemberID, remaining, paid); err != nil {
			return err
		}
		if !remaining.IsPositive() {
			return apperrors.Newf(apperrors.ErrConflict, "invoice %s has nothing left to pay", invoice.InvoiceNumber)
		}

		now := s.Now()
		payment := domain.Payment{
			PaymentID:   uuid.NewString(),
			Amount:      remaining,
			Purpose:     domain.PurposeOther,
			Method:      method,
			Status:      domain.PaymentUnpaid,
			MemberID:    domain.StringPtr(invoice.MemberID),
			InvoiceID:   domain.StringPtr(invoice.InvoiceID),
			Reference:   req.Reference,
			Notes:       "Settlement of invoice " + invoice.InvoiceNumber,
			AuditFields: domain.NewAuditFields(actor.MemberID, now),
		}
		if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to record settlement payment: %w", err)
		}

		result, err = s.settler.settle(ctx, payment.PaymentID, req.AccountID, actor.MemberID, now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to mark invoice paid",
			slog.String("invoice_id", invoiceID),
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	recordPosting(result.transaction)
	s.LogInfo(ctx, "Invoice settled",
		slog.String("invoice_id", invoiceID),
		slog.String("payment_id", result.payment.PaymentID),
		slog.String("transaction_id", result.transaction.TransactionID))
	detail := domain.NewInvoiceDetail(*result.invoice, result.invoicePaid)
	return &detail, nil
}
