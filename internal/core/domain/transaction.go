package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger entry adds to or takes from an account.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// CategoryOpeningBalance marks the transaction posted when an account is opened with money in it.
const CategoryOpeningBalance = "OPENING_BALANCE"

// Transaction is an immutable ledger entry against exactly one account.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"` // always positive
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	MemberID        *string         `json:"memberID,omitempty"`
	PaymentID       *string         `json:"paymentID,omitempty"`
	InvoiceID       *string         `json:"invoiceID,omitempty"`
	ExpenseID       *string         `json:"expenseID,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	AuditFields
}

// SignedAmount is the effect of the transaction on its account balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionPage is a cursor-paginated slice of transactions.
type TransactionPage struct {
	Items     []Transaction `json:"items"`
	NextToken *string       `json:"nextToken,omitempty"`
}
