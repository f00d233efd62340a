package services

import (
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/notify"
	"github.com/SscSPs/assoc_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier notify.Notifier, opts ...Option) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Auth:         NewAuthService(cfg, repos.MemberRepo, repos.LoginLogRepo, opts...),
		Member:       NewMemberService(repos.TxManager, repos.MemberRepo, notifier, opts...),
		Event:        NewEventService(repos.TxManager, repos.EventRepo, opts...),
		Announcement: NewAnnouncementService(repos.AnnouncementRepo, opts...),
		Feedback:     NewFeedbackService(repos.FeedbackRepo, opts...),
		Account: NewAccountService(
			repos.TxManager,
			repos.AccountRepo,
			repos.TransactionRepo,
			repos.InvoiceRepo,
			repos.ExpenseRepo,
			opts...,
		),
		Expense: NewExpenseService(
			repos.TxManager,
			repos.ExpenseRepo,
			repos.AccountRepo,
			repos.TransactionRepo,
			repos.MemberRepo,
			cfg.ExpenseSelfApprovalPositions,
			opts...,
		),
		Payment: NewPaymentService(
			repos.TxManager,
			repos.PaymentRepo,
			repos.InvoiceRepo,
			repos.AccountRepo,
			repos.TransactionRepo,
			repos.MemberRepo,
			opts...,
		),
		Invoice: NewInvoiceService(
			repos.TxManager,
			repos.InvoiceRepo,
			repos.PaymentRepo,
			repos.AccountRepo,
			repos.TransactionRepo,
			repos.MemberRepo,
			notifier,
			opts...,
		),
	}
}
