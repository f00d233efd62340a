package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for financial account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.FinancialAccount, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.FinancialAccount, error)

	// SumActiveBalances totals the balances of active accounts.
	SumActiveBalances(ctx context.Context) (decimal.Decimal, int, error)
}

// AccountWriter defines write operations for financial account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.FinancialAccount) error

	// UpdateAccount updates name, description and active flag. Balance is untouched.
	UpdateAccount(ctx context.Context, account domain.FinancialAccount) error

	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountTransactionSupport defines operations that support ledger postings
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects the account and locks it until the transaction ends.
	FindAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.FinancialAccount, error)

	// AdjustAccountBalance adds delta (negative for debits) to the stored balance.
	AdjustAccountBalance(ctx context.Context, accountID string, delta decimal.Decimal, memberID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// TransactionReader defines read operations for the ledger
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// ListTransactionsByAccount pages through an account's ledger newest first.
	// nextToken is the opaque token returned by the previous page.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	CountTransactionsByAccount(ctx context.Context, accountID string) (int, error)

	// SumTransactionsByType returns total income and total expense across all accounts.
	SumTransactionsByType(ctx context.Context) (income decimal.Decimal, expense decimal.Decimal, err error)
}

// TransactionWriter defines write operations for the ledger. Entries are never updated.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all ledger repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error)

	// SumPaidByInvoice totals the PAID payments linked to an invoice.
	SumPaidByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	CountPaymentsByInvoice(ctx context.Context, invoiceID string) (int, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	UpdatePayment(ctx context.Context, payment domain.Payment) error
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentTransactionSupport defines operations used while settling a payment
type PaymentTransactionSupport interface {
	FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
	PaymentTransactionSupport
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error)

	// SumOutstandingInvoices totals what remains owed on PENDING invoices.
	SumOutstandingInvoices(ctx context.Context) (decimal.Decimal, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceTransactionSupport defines operations used while reconciling an invoice
type InvoiceTransactionSupport interface {
	FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	InvoiceTransactionSupport
}

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)
	CountExpensesByStatus(ctx context.Context, status domain.ExpenseStatus) (int, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}

// ExpenseTransactionSupport defines operations used while paying an expense
type ExpenseTransactionSupport interface {
	FindExpenseByIDForUpdate(ctx context.Context, expenseID string) (*domain.Expense, error)
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	ExpenseTransactionSupport
}
