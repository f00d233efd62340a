package domain

import (
	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType is the kind of store of money a financial account represents.
type AccountType string

const (
	AccountCash        AccountType = "CASH"
	AccountBank        AccountType = "BANK"
	AccountMobileMoney AccountType = "MOBILE_MONEY"
)

// FinancialAccount holds the association's money. Balance is only ever
// adjusted through ledger postings.
type FinancialAccount struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// CanCredit checks that the account may receive money.
func (a FinancialAccount) CanCredit() error {
	if !a.IsActive {
		return apperrors.Newf(apperrors.ErrValidation, "account %s is inactive", a.Name)
	}
	return nil
}

// CanDebit checks that the account is active and can cover amount.
func (a FinancialAccount) CanDebit(amount decimal.Decimal) error {
	if !a.IsActive {
		return apperrors.Newf(apperrors.ErrValidation, "account %s is inactive", a.Name)
	}
	if a.Balance.LessThan(amount) {
		return apperrors.Newf(apperrors.ErrInsufficientFunds, "account %s balance %s is below %s",
			a.Name, a.Balance.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// CanDeleteAccount allows a hard delete only when no transactions reference the account.
func CanDeleteAccount(transactionCount int) error {
	if transactionCount > 0 {
		return apperrors.Newf(apperrors.ErrConflict, "account has %d transactions; deactivate it instead", transactionCount)
	}
	return nil
}

// ValidateAmount rejects zero and negative money amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Newf(apperrors.ErrValidation, "amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperrors.Newf(apperrors.ErrValidation, "amount cannot have more than two decimal places")
	}
	return nil
}

// FinanceSummary aggregates the state of the ledger.
type FinanceSummary struct {
	TotalBalance       decimal.Decimal `json:"totalBalance"`
	ActiveAccounts     int             `json:"activeAccounts"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	OutstandingInvoice decimal.Decimal `json:"outstandingInvoices"`
	PendingExpenses    int             `json:"pendingExpenses"`
}
