package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/google/uuid"
)

// paymentService implements the PaymentSvcFacade interface
type paymentService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	memberRepo  portsrepo.MemberReader
	settler     paymentSettler
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	txManager portsrepo.TransactionManager,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	accountRepo portsrepo.AccountTransactionSupport,
	transactionRepo portsrepo.TransactionWriter,
	memberRepo portsrepo.MemberReader,
	opts ...Option,
) portssvc.PaymentSvcFacade {
	svc := &paymentService{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		memberRepo:  memberRepo,
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

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) GetPayment(ctx context.Context, actor domain.Identity, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, domain.StringValue(payment.MemberID)); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, actor domain.Identity, filter domain.PaymentFilter) ([]domain.Payment, error) {
	if !actor.IsAdmin() {
		filter.MemberID = actor.MemberID
	}
	return s.paymentRepo.ListPayments(ctx, filter)
}

func (s *paymentService) CreatePayment(ctx context.Context, actor domain.Identity, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	now := s.Now()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		Amount:      req.Amount,
		Purpose:     req.Purpose,
		Method:      req.Method,
		Status:      domain.PaymentUnpaid,
		InvoiceID:   req.InvoiceID,
		Reference:   strings.TrimSpace(req.Reference),
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}
	if req.MemberID != nil {
		payment.MemberID = domain.StringPtr(*req.MemberID)
	}
	if req.ExternalPayer != nil {
		payment.ExternalPayer = domain.ExternalPayer{
			Name:  strings.TrimSpace(req.ExternalPayer.Name),
			Email: domain.NormalizeEmail(req.ExternalPayer.Email),
			Phone: strings.TrimSpace(req.ExternalPayer.Phone),
		}
	}
	if err := payment.ValidatePayer(); err != nil {
		return nil, err
	}
	if payment.MemberID != nil {
		if err := s.ensureMemberExists(ctx, *payment.MemberID); err != nil {
			return nil, err
		}
	}
	if err := s.applyInvoice(ctx, &payment); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment")
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", payment.Amount.StringFixed(2)),
		slog.String("status", string(payment.Status)))
	return &payment, nil
}

// applyInvoice checks a linked invoice can take the payment and sets the
// initial PARTIAL or UNPAID status.
func (s *paymentService) applyInvoice(ctx context.Context, payment *domain.Payment) error {
	if payment.InvoiceID == nil {
		payment.Status = domain.InitialPaymentStatus(payment.Amount, nil)
		return nil
	}
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, *payment.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Newf(apperrors.ErrValidation, "invoice %s does not exist", *payment.InvoiceID)
		}
		return err
	}
	paid, err := s.paymentRepo.SumPaidByInvoice(ctx, invoice.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to sum invoice payments: %w", err)
	}
	if err := invoice.AcceptPayment(domain.StringValue(payment.MemberID), payment.Amount, paid); err != nil {
		return err
	}
	remaining := invoice.Remaining(paid)
	payment.Status = domain.InitialPaymentStatus(payment.Amount, &remaining)
	return nil
}

func (s *paymentService) ensureMemberExists(ctx context.Context, memberID string) error {
	if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Newf(apperrors.ErrValidation, "member %s does not exist", memberID)
		}
		return err
	}
	return nil
}

func (s *paymentService) UpdatePayment(ctx context.Context, actor domain.Identity, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if err := domain.ValidateAmount(*req.Amount); err != nil {
			return nil, err
		}
	}

	var updated *domain.Payment
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.FindPaymentByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.CanModify(); err != nil {
			return err
		}

		amountChanged := req.Amount != nil && !req.Amount.Equal(payment.Amount)
		if amountChanged {
			payment.Amount = *req.Amount
		}
		if req.Purpose != nil {
			payment.Purpose = *req.Purpose
		}
		if req.Method != nil {
			payment.Method = *req.Method
		}
		if req.Reference != nil {
			payment.Reference = strings.TrimSpace(*req.Reference)
		}
		if req.Notes != nil {
			payment.Notes = *req.Notes
		}
		if amountChanged {
			if err := s.applyInvoice(ctx, payment); err != nil {
				return err
			}
		}

		payment.Touch(actor.MemberID, s.Now())
		if err := s.paymentRepo.UpdatePayment(ctx, *payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, actor domain.Identity, paymentID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.FindPaymentByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.CanModify(); err != nil {
			return err
		}
		return s.paymentRepo.DeletePayment(ctx, paymentID)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID), slog.String("deleted_by", actor.MemberID))
	return nil
}

func (s *paymentService) MarkPaymentPaid(ctx context.Context, actor domain.Identity, paymentID string, req dto.MarkPaymentPaidRequest) (*domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var result *settlement
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.settler.settle(ctx, paymentID, req.AccountID, actor.MemberID, s.Now())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to mark payment paid",
			slog.String("payment_id", paymentID),
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	recordPosting(result.transaction)
	attrs := []any{
		slog.String("payment_id", paymentID),
		slog.String("transaction_id", result.transaction.TransactionID),
	}
	if result.invoice != nil {
		attrs = append(attrs,
			slog.String("invoice_id", result.invoice.InvoiceID),
			slog.String("invoice_status", string(result.invoice.Status)),
			slog.String("invoice_paid", result.invoicePaid.StringFixed(2)))
	}
	s.LogInfo(ctx, "Payment settled", attrs...)
	return result.payment, nil
}
