package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTransactionPageSize = 20

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	invoiceRepo     portsrepo.InvoiceReader
	expenseRepo     portsrepo.ExpenseReader
	ledger          ledgerPoster
}

// NewAccountService creates a new account service.
func NewAccountService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	invoiceRepo portsrepo.InvoiceReader,
	expenseRepo portsrepo.ExpenseReader,
	opts ...Option,
) portssvc.AccountSvcFacade {
	svc := &accountService{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		expenseRepo:     expenseRepo,
		ledger:          ledgerPoster{accountRepo: accountRepo, transactionRepo: transactionRepo},
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Identity, req dto.CreateAccountRequest) (*domain.FinancialAccount, error) {
	if req.OpeningBalance.IsNegative() {
		return nil, apperrors.Newf(apperrors.ErrValidation, "opening balance cannot be negative")
	}
	if !req.OpeningBalance.Equal(req.OpeningBalance.Round(2)) {
		return nil, apperrors.Newf(apperrors.ErrValidation, "opening balance cannot have more than two decimal places")
	}

	now := s.Now()
	account := domain.FinancialAccount{
		AccountID:   uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		AccountType: req.AccountType,
		Balance:     decimal.Zero,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}

	var opening *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
		if !req.OpeningBalance.IsPositive() {
			return nil
		}
		txn, err := s.ledger.post(ctx, domain.Transaction{
			AccountID:       account.AccountID,
			TransactionType: domain.TransactionIncome,
			Amount:          req.OpeningBalance,
			Description:     "Opening balance",
			Category:        domain.CategoryOpeningBalance,
			MemberID:        domain.StringPtr(actor.MemberID),
		}, actor.MemberID, now)
		if err != nil {
			return err
		}
		opening = txn
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("name", account.Name))
		return nil, err
	}

	if opening != nil {
		recordPosting(opening)
		account.Balance = opening.Amount
	}
	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("opening_balance", account.Balance.StringFixed(2)))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.FinancialAccount, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.FinancialAccount, error) {
	return s.accountRepo.ListAccounts(ctx, filter)
}

func (s *accountService) UpdateAccount(ctx context.Context, actor domain.Identity, accountID string, req dto.UpdateAccountRequest) (*domain.FinancialAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != nil && strings.TrimSpace(*req.Name) != account.Name {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Newf(apperrors.ErrValidation, "account name cannot be empty")
		}
		account.Name = name
		changed = true
	}
	if req.Description != nil && *req.Description != account.Description {
		account.Description = *req.Description
		changed = true
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		account.IsActive = *req.IsActive
		changed = true
	}
	if !changed {
		return account, nil
	}

	account.Touch(actor.MemberID, s.Now())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, actor domain.Identity, accountID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.accountRepo.FindAccountByIDForUpdate(ctx, accountID); err != nil {
			return err
		}
		count, err := s.transactionRepo.CountTransactionsByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to count transactions: %w", err)
		}
		if err := domain.CanDeleteAccount(count); err != nil {
			return err
		}
		return s.accountRepo.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("deleted_by", actor.MemberID))
	return nil
}

func (s *accountService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

func (s *accountService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return s.transactionRepo.ListTransactions(ctx, filter)
}

func (s *accountService) ListAccountTransactions(ctx context.Context, accountID string, params dto.AccountTransactionsParams) (*domain.TransactionPage, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	items, next, err := s.transactionRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Transaction{}
	}
	return &domain.TransactionPage{Items: items, NextToken: next}, nil
}

func (s *accountService) GetSummary(ctx context.Context) (*domain.FinanceSummary, error) {
	balance, activeAccounts, err := s.accountRepo.SumActiveBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum balances: %w", err)
	}
	income, expense, err := s.transactionRepo.SumTransactionsByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	outstanding, err := s.invoiceRepo.SumOutstandingInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum outstanding invoices: %w", err)
	}

	// Pending covers both stages before money leaves an account.
	pending := 0
	for _, status := range []domain.ExpenseStatus{domain.ExpenseSubmitted, domain.ExpenseApproved} {
		n, err := s.expenseRepo.CountExpensesByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s expenses: %w", strings.ToLower(string(status)), err)
		}
		pending += n
	}

	return &domain.FinanceSummary{
		TotalBalance:       balance,
		ActiveAccounts:     activeAccounts,
		TotalIncome:        income,
		TotalExpense:       expense,
		OutstandingInvoice: outstanding,
		PendingExpenses:    pending,
	}, nil
}
