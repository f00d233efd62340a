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

const defaultExpenseCategory = "GENERAL"

// expenseService implements the ExpenseSvcFacade interface
type expenseService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	expenseRepo portsrepo.ExpenseRepositoryFacade
	accountRepo portsrepo.AccountTransactionSupport
	memberRepo  portsrepo.MemberReader
	ledger      ledgerPoster
	policy      domain.SelfApprovalPolicy
}

// NewExpenseService creates a new expense service. selfApprovalPositions lists the
// positions whose admin holders may approve their own expenses.
func NewExpenseService(
	txManager portsrepo.TransactionManager,
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	accountRepo portsrepo.AccountTransactionSupport,
	transactionRepo portsrepo.TransactionWriter,
	memberRepo portsrepo.MemberReader,
	selfApprovalPositions []string,
	opts ...Option,
) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		txManager:   txManager,
		expenseRepo: expenseRepo,
		accountRepo: accountRepo,
		memberRepo:  memberRepo,
		ledger:      ledgerPoster{accountRepo: accountRepo, transactionRepo: transactionRepo},
		policy:      domain.NewSelfApprovalPolicy(selfApprovalPositions),
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) GetExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, expense.RequestedBy); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, actor domain.Identity, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	if !actor.IsAdmin() {
		filter.RequestedBy = actor.MemberID
	}
	return s.expenseRepo.ListExpenses(ctx, filter)
}

func (s *expenseService) CreateExpense(ctx context.Context, actor domain.Identity, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if _, err := s.loadActor(ctx, actor, "requester"); err != nil {
		return nil, err
	}
	category := strings.ToUpper(strings.TrimSpace(req.Category))
	if category == "" {
		category = defaultExpenseCategory
	}
	now := s.Now()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Amount:      req.Amount,
		Category:    category,
		Status:      domain.ExpenseDraft,
		RequestedBy: actor.MemberID,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("requested_by", actor.MemberID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("amount", expense.Amount.StringFixed(2)))
	return &expense, nil
}

// loadActor returns the stored member behind actor. A missing member is a
// validation failure named after role.
func (s *expenseService) loadActor(ctx context.Context, actor domain.Identity, role string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, actor.MemberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.ErrValidation, "%s %s does not exist", role, actor.MemberID)
		}
		return nil, fmt.Errorf("failed to load %s: %w", role, err)
	}
	return member, nil
}

// mutate locks the expense, checks the actor may act on it, applies change and
// stores the result, all in one transaction.
func (s *expenseService) mutate(ctx context.Context, actor domain.Identity, expenseID, action string, change func(*domain.Expense) error) (*domain.Expense, error) {
	var changed *domain.Expense
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(actor, expense.RequestedBy); err != nil {
			return err
		}
		if err := change(expense); err != nil {
			return err
		}
		if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
			s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expense.ExpenseID))
			return fmt.Errorf("failed to update expense: %w", err)
		}
		changed = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Expense "+action,
		slog.String("expense_id", changed.ExpenseID),
		slog.String("by", actor.MemberID))
	return changed, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, actor domain.Identity, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	if req.Amount != nil {
		if err := domain.ValidateAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, actor, expenseID, "updated", func(expense *domain.Expense) error {
		if err := expense.CanEdit(); err != nil {
			return err
		}
		if req.Title != nil {
			expense.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			expense.Description = *req.Description
		}
		if req.Amount != nil {
			expense.Amount = *req.Amount
		}
		if req.Category != nil {
			if category := strings.ToUpper(strings.TrimSpace(*req.Category)); category != "" {
				expense.Category = category
			}
		}
		expense.Touch(actor.MemberID, s.Now())
		return nil
	})
}

func (s *expenseService) DeleteExpense(ctx context.Context, actor domain.Identity, expenseID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(actor, expense.RequestedBy); err != nil {
			return err
		}
		if err := domain.CanDeleteExpense(*expense); err != nil {
			return err
		}
		return s.expenseRepo.DeleteExpense(ctx, expenseID)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Expense deleted", slog.String("expense_id", expenseID), slog.String("deleted_by", actor.MemberID))
	return nil
}

func (s *expenseService) SubmitExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error) {
	return s.mutate(ctx, actor, expenseID, "submitted", func(expense *domain.Expense) error {
		return expense.Submit(actor.MemberID, s.Now())
	})
}

func (s *expenseService) ApproveExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	approver, err := s.loadActor(ctx, actor, "approver")
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, expenseID, "approved", func(expense *domain.Expense) error {
		selfApproval := expense.RequestedBy == actor.MemberID && s.policy.Allows(*approver)
		return expense.Approve(actor.MemberID, selfApproval, s.Now())
	})
}

func (s *expenseService) RejectExpense(ctx context.Context, actor domain.Identity, expenseID string, req dto.RejectExpenseRequest) (*domain.Expense, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, expenseID, "rejected", func(expense *domain.Expense) error {
		return expense.Reject(actor.MemberID, strings.TrimSpace(req.Reason), s.Now())
	})
}

func (s *expenseService) MarkExpensePaid(ctx context.Context, actor domain.Identity, expenseID string, req dto.MarkExpensePaidRequest) (*domain.Expense, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var (
		paid   *domain.Expense
		posted *domain.Transaction
	)
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		now := s.Now()
		transactionID := uuid.NewString()
		if err := expense.MarkPaid(req.AccountID, transactionID, actor.MemberID, now); err != nil {
			return err
		}

		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if err := account.CanDebit(expense.Amount); err != nil {
			return err
		}

		posted, err = s.ledger.post(ctx, domain.Transaction{
			TransactionID:   transactionID,
			AccountID:       account.AccountID,
			TransactionType: domain.TransactionExpense,
			Amount:          expense.Amount,
			Description:     expense.Title,
			Category:        expense.Category,
			PaymentMethod:   req.PaymentMethod,
			MemberID:        domain.StringPtr(expense.RequestedBy),
			ExpenseID:       domain.StringPtr(expense.ExpenseID),
		}, actor.MemberID, now)
		if err != nil {
			return err
		}

		if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		paid = expense
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to mark expense paid",
			slog.String("expense_id", expenseID),
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	recordPosting(posted)
	s.LogInfo(ctx, "Expense paid",
		slog.String("expense_id", expenseID),
		slog.String("account_id", req.AccountID),
		slog.String("transaction_id", posted.TransactionID))
	return paid, nil
}
