package domain

import (
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentPurpose is the reason money was received.
type PaymentPurpose string

const (
	PurposeMembershipFee   PaymentPurpose = "MEMBERSHIP_FEE"
	PurposeAnnualDues      PaymentPurpose = "ANNUAL_DUES"
	PurposeRegistrationFee PaymentPurpose = "REGISTRATION_FEE"
	PurposeDonation        PaymentPurpose = "DONATION"
	PurposeEventFee        PaymentPurpose = "EVENT_FEE"
	PurposeContribution    PaymentPurpose = "CONTRIBUTION"
	PurposeWelfare         PaymentPurpose = "WELFARE"
	PurposeProjectLevy     PaymentPurpose = "PROJECT_LEVY"
	PurposeFine            PaymentPurpose = "FINE"
	PurposeSponsorship     PaymentPurpose = "SPONSORSHIP"
	PurposePledge          PaymentPurpose = "PLEDGE"
	PurposeSubscription    PaymentPurpose = "SUBSCRIPTION"
	PurposeMerchandise     PaymentPurpose = "MERCHANDISE"
	PurposeLoanRepayment   PaymentPurpose = "LOAN_REPAYMENT"
	PurposeOther           PaymentPurpose = "OTHER"
)

// PaymentMethod is how money moved.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodCard         PaymentMethod = "CARD"
)

// PaymentStatus tracks whether a payment has been settled into the ledger.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// ExternalPayer identifies a payer who is not a member.
type ExternalPayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Payment is money received by the association from a member or an external payer.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	Amount        decimal.Decimal `json:"amount"`
	Purpose       PaymentPurpose  `json:"purpose"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	MemberID      *string         `json:"memberID,omitempty"`
	ExternalPayer ExternalPayer   `json:"externalPayer"`
	InvoiceID     *string         `json:"invoiceID,omitempty"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	AccountID     *string         `json:"accountID,omitempty"`
	TransactionID *string         `json:"transactionID,omitempty"`
	AuditFields
}

// IsSettled reports whether the payment is PAID or already linked to the ledger.
func (p Payment) IsSettled() bool {
	return p.Status == PaymentPaid || p.TransactionID != nil
}

// ValidatePayer requires exactly one of a member or an external payer name.
func (p Payment) ValidatePayer() error {
	hasMember := p.MemberID != nil && *p.MemberID != ""
	hasExternal := p.ExternalPayer.Name != ""
	if hasMember == hasExternal {
		return apperrors.Newf(apperrors.ErrValidation, "payment needs either a member or an external payer name")
	}
	return nil
}

// CanModify guards edits and deletion of a payment.
func (p Payment) CanModify() error {
	if p.IsSettled() {
		return apperrors.Newf(apperrors.ErrConflict, "payment %s is settled and can no longer be changed", p.PaymentID)
	}
	return nil
}

// MarkPaid settles the payment against the given ledger transaction.
func (p *Payment) MarkPaid(accountID, transactionID, actorID string, now time.Time) error {
	if p.IsSettled() {
		return apperrors.Newf(apperrors.ErrConflict, "payment %s is already paid", p.PaymentID)
	}
	paidAt := now
	p.Status = PaymentPaid
	p.PaidAt = &paidAt
	p.AccountID = &accountID
	p.TransactionID = &transactionID
	p.Touch(actorID, now)
	return nil
}

// InitialPaymentStatus is PARTIAL when an invoice-linked payment does not cover what remains.
func InitialPaymentStatus(amount decimal.Decimal, invoiceRemaining *decimal.Decimal) PaymentStatus {
	if invoiceRemaining != nil && amount.LessThan(*invoiceRemaining) {
		return PaymentPartial
	}
	return PaymentUnpaid
}
