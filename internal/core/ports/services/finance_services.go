package services

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/dto"
)

// AccountReaderSvc defines read operations for accounts and the ledger
type AccountReaderSvc interface {
	GetAccount(ctx context.Context, accountID string) (*domain.FinancialAccount, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.FinancialAccount, error)

	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID string, params dto.AccountTransactionsParams) (*domain.TransactionPage, error)

	// GetSummary aggregates balances, income, expense and outstanding amounts.
	GetSummary(ctx context.Context) (*domain.FinanceSummary, error)
}

// AccountWriterSvc defines write operations for accounts
type AccountWriterSvc interface {
	// CreateAccount opens an account, posting any opening balance to the ledger.
	CreateAccount(ctx context.Context, actor domain.Identity, req dto.CreateAccountRequest) (*domain.FinancialAccount, error)
	UpdateAccount(ctx context.Context, actor domain.Identity, accountID string, req dto.UpdateAccountRequest) (*domain.FinancialAccount, error)
	DeleteAccount(ctx context.Context, actor domain.Identity, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	GetExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, actor domain.Identity, filter domain.ExpenseFilter) ([]domain.Expense, error)
}

// ExpenseWriterSvc defines draft-stage write operations for expenses
type ExpenseWriterSvc interface {
	CreateExpense(ctx context.Context, actor domain.Identity, req dto.CreateExpenseRequest) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, actor domain.Identity, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, actor domain.Identity, expenseID string) error
}

// ExpenseWorkflowSvc defines the approval workflow and ledger settlement
type ExpenseWorkflowSvc interface {
	SubmitExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error)
	ApproveExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error)
	RejectExpense(ctx context.Context, actor domain.Identity, expenseID string, req dto.RejectExpenseRequest) (*domain.Expense, error)

	// MarkExpensePaid debits the account and links the ledger entry atomically.
	MarkExpensePaid(ctx context.Context, actor domain.Identity, expenseID string, req dto.MarkExpensePaidRequest) (*domain.Expense, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseWorkflowSvc
}

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	GetPayment(ctx context.Context, actor domain.Identity, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, actor domain.Identity, filter domain.PaymentFilter) ([]domain.Payment, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	CreatePayment(ctx context.Context, actor domain.Identity, req dto.CreatePaymentRequest) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, actor domain.Identity, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error)
	DeletePayment(ctx context.Context, actor domain.Identity, paymentID string) error

	// MarkPaymentPaid credits the account, links the ledger entry and reconciles any invoice atomically.
	MarkPaymentPaid(ctx context.Context, actor domain.Identity, paymentID string, req dto.MarkPaymentPaidRequest) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, actor domain.Identity, invoiceID string) (*domain.InvoiceDetail, error)
	ListInvoices(ctx context.Context, actor domain.Identity, filter domain.InvoiceFilter) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, actor domain.Identity, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, actor domain.Identity, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)
	CancelInvoice(ctx context.Context, actor domain.Identity, invoiceID string) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, actor domain.Identity, invoiceID string) error

	// MarkInvoicePaid records a payment for the remaining amount and settles it.
	MarkInvoicePaid(ctx context.Context, actor domain.Identity, invoiceID string, req dto.MarkInvoicePaidRequest) (*domain.InvoiceDetail, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
