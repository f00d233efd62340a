package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ExpenseStatus is the approval state of an expense.
type ExpenseStatus string

const (
	ExpenseDraft     ExpenseStatus = "DRAFT"
	ExpenseSubmitted ExpenseStatus = "SUBMITTED"
	ExpenseApproved  ExpenseStatus = "APPROVED"
	ExpenseRejected  ExpenseStatus = "REJECTED"
	ExpensePaid      ExpenseStatus = "PAID"
)

var expenseTransitions = map[ExpenseStatus][]ExpenseStatus{
	ExpenseDraft:     {ExpenseSubmitted},
	ExpenseSubmitted: {ExpenseApproved, ExpenseRejected},
	ExpenseApproved:  {ExpensePaid},
}

// CanTransitionTo reports whether an expense may move from s to next.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	for _, allowed := range expenseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s ExpenseStatus) IsTerminal() bool {
	return len(expenseTransitions[s]) == 0
}

// Expense is a spend request from a member.
type Expense struct {
	ExpenseID       string          `json:"expenseID"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Status          ExpenseStatus   `json:"status"`
	RequestedBy     string          `json:"requestedBy"`
	ApprovedBy      *string         `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectedBy      *string         `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	AccountID       *string         `json:"accountID,omitempty"`
	TransactionID   *string         `json:"transactionID,omitempty"`
	AuditFields
}

func (e *Expense) transition(next ExpenseStatus) error {
	if e.Status == next {
		return apperrors.Newf(apperrors.ErrConflict, "expense is already %s", strings.ToLower(string(next)))
	}
	if !e.Status.CanTransitionTo(next) {
		return apperrors.Newf(apperrors.ErrInvalidTransition, "expense cannot move from %s to %s", e.Status, next)
	}
	e.Status = next
	return nil
}

// Submit moves a DRAFT expense to SUBMITTED.
func (e *Expense) Submit(actorID string, now time.Time) error {
	if err := e.transition(ExpenseSubmitted); err != nil {
		return err
	}
	e.Touch(actorID, now)
	return nil
}

// Approve moves a SUBMITTED expense to APPROVED. selfApprovalAllowed is the
// outcome of the self-approval policy for the approver.
func (e *Expense) Approve(approverID string, selfApprovalAllowed bool, now time.Time) error {
	if e.Status == ExpenseSubmitted && approverID == e.RequestedBy && !selfApprovalAllowed {
		return apperrors.Newf(apperrors.ErrValidation, "you cannot approve your own expense")
	}
	if err := e.transition(ExpenseApproved); err != nil {
		return err
	}
	approvedAt := now
	e.ApprovedBy = &approverID
	e.ApprovedAt = &approvedAt
	e.Touch(approverID, now)
	return nil
}

// Reject moves a SUBMITTED expense to REJECTED with a reason.
func (e *Expense) Reject(reviewerID, reason string, now time.Time) error {
	if err := e.transition(ExpenseRejected); err != nil {
		return err
	}
	rejectedAt := now
	e.RejectedBy = &reviewerID
	e.RejectedAt = &rejectedAt
	e.RejectionReason = reason
	e.Touch(reviewerID, now)
	return nil
}

// MarkPaid moves an APPROVED expense to PAID and links the ledger transaction.
func (e *Expense) MarkPaid(accountID, transactionID, actorID string, now time.Time) error {
	if e.TransactionID != nil {
		return apperrors.Newf(apperrors.ErrConflict, "expense is already linked to a transaction")
	}
	if err := e.transition(ExpensePaid); err != nil {
		return err
	}
	paidAt := now
	e.PaidAt = &paidAt
	e.AccountID = &accountID
	e.TransactionID = &transactionID
	e.Touch(actorID, now)
	return nil
}

// CanEdit allows free-form field edits only while the expense is a DRAFT.
func (e Expense) CanEdit() error {
	if e.Status != ExpenseDraft {
		return apperrors.Newf(apperrors.ErrInvalidTransition, "only draft expenses can be edited")
	}
	return nil
}

// CanDeleteExpense disallows deleting paid or ledger-linked expenses.
func CanDeleteExpense(e Expense) error {
	if e.Status == ExpensePaid || e.TransactionID != nil {
		return apperrors.Newf(apperrors.ErrConflict, "paid expenses cannot be deleted")
	}
	return nil
}

// SelfApprovalPolicy decides whether an approver may approve their own expense.
type SelfApprovalPolicy struct {
	positions map[string]struct{}
}

// NewSelfApprovalPolicy allows self-approval by admins holding one of positions.
func NewSelfApprovalPolicy(positions []string) SelfApprovalPolicy {
	set := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return SelfApprovalPolicy{positions: set}
}

// Allows reports whether approver holds the override.
func (p SelfApprovalPolicy) Allows(approver Member) bool {
	if approver.Role != RoleAdmin {
		return false
	}
	_, ok := p.positions[strings.ToLower(strings.TrimSpace(approver.Position))]
	return ok
}
