package dto

import (
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a financial account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=CASH BANK MOBILE_MONEY"`
	OpeningBalance decimal.Decimal    `json:"openingBalance" binding:"money_or_zero"`
	Description    string             `json:"description" binding:"omitempty,max=500"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Balance only moves through ledger postings.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	ListParams
	ActiveOnly bool `form:"activeOnly"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	ListParams
	AccountID string                 `form:"accountId" binding:"omitempty,uuid"`
	Type      domain.TransactionType `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
}

// AccountTransactionsParams defines cursor pagination for an account's ledger.
type AccountTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// CreateExpenseRequest defines the data needed to raise an expense.
type CreateExpenseRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
	Amount      decimal.Decimal `json:"amount" binding:"money"`
	Category    string          `json:"category" binding:"omitempty,max=60"`
}

// UpdateExpenseRequest defines the draft expense fields that can be changed.
type UpdateExpenseRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,money"`
	Category    *string          `json:"category" binding:"omitempty,max=60"`
}

// RejectExpenseRequest carries the reviewer's reason.
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// MarkExpensePaidRequest names the account the expense is paid from.
type MarkExpensePaidRequest struct {
	AccountID     string               `json:"accountID" binding:"required,uuid"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK_TRANSFER MOBILE_MONEY CHEQUE CARD"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	ListParams
	Status      domain.ExpenseStatus `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED PAID"`
	RequestedBy string               `form:"requestedBy" binding:"omitempty,uuid"`
}

// ExternalPayerRequest identifies a non-member payer.
type ExternalPayerRequest struct {
	Name  string `json:"name" binding:"required,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
}

// CreatePaymentRequest records money received.
type CreatePaymentRequest struct {
	Amount        decimal.Decimal       `json:"amount" binding:"money"`
	Purpose       domain.PaymentPurpose `json:"purpose" binding:"required,oneof=MEMBERSHIP_FEE ANNUAL_DUES REGISTRATION_FEE DONATION EVENT_FEE CONTRIBUTION WELFARE PROJECT_LEVY FINE SPONSORSHIP PLEDGE SUBSCRIPTION MERCHANDISE LOAN_REPAYMENT OTHER"`
	Method        domain.PaymentMethod  `json:"method" binding:"required,oneof=CASH BANK_TRANSFER MOBILE_MONEY CHEQUE CARD"`
	MemberID      *string               `json:"memberID" binding:"omitempty,uuid"`
	ExternalPayer *ExternalPayerRequest `json:"externalPayer"`
	InvoiceID     *string               `json:"invoiceID" binding:"omitempty,uuid"`
	Reference     string                `json:"reference" binding:"omitempty,max=100"`
	Notes         string                `json:"notes" binding:"omitempty,max=1000"`
}

// UpdatePaymentRequest defines the unpaid payment fields that can be changed.
type UpdatePaymentRequest struct {
	Amount    *decimal.Decimal       `json:"amount" binding:"omitempty,money"`
	Purpose   *domain.PaymentPurpose `json:"purpose" binding:"omitempty,oneof=MEMBERSHIP_FEE ANNUAL_DUES REGISTRATION_FEE DONATION EVENT_FEE CONTRIBUTION WELFARE PROJECT_LEVY FINE SPONSORSHIP PLEDGE SUBSCRIPTION MERCHANDISE LOAN_REPAYMENT OTHER"`
	Method    *domain.PaymentMethod  `json:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER MOBILE_MONEY CHEQUE CARD"`
	Reference *string                `json:"reference" binding:"omitempty,max=100"`
	Notes     *string                `json:"notes" binding:"omitempty,max=1000"`
}

// MarkPaymentPaidRequest names the account receiving the money.
type MarkPaymentPaidRequest struct {
	AccountID string `json:"accountID" binding:"required,uuid"`
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	ListParams
	Status    domain.PaymentStatus `form:"status" binding:"omitempty,oneof=UNPAID PARTIAL PAID"`
	MemberID  string               `form:"memberId" binding:"omitempty,uuid"`
	InvoiceID string               `form:"invoiceId" binding:"omitempty,uuid"`
}

// CreateInvoiceRequest bills a member.
type CreateInvoiceRequest struct {
	MemberID    string          `json:"memberID" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"money"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
	DueDate     time.Time       `json:"dueDate" binding:"required"`
}

// UpdateInvoiceRequest defines the pending invoice fields that can be changed.
type UpdateInvoiceRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,money"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	DueDate     *time.Time       `json:"dueDate"`
}

// MarkInvoicePaidRequest settles the remaining invoice balance in one step.
type MarkInvoicePaidRequest struct {
	AccountID string               `json:"accountID" binding:"required,uuid"`
	Method    domain.PaymentMethod `json:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER MOBILE_MONEY CHEQUE CARD"`
	Reference string               `json:"reference" binding:"omitempty,max=100"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	ListParams
	Status   domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	MemberID string               `form:"memberId" binding:"omitempty,uuid"`
}
