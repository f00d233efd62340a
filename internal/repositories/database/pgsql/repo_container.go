package pgsql

import (
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository to the same pool. All of them
// join the transaction carried in the context by the transaction manager.
func NewRepositoryProvider(dbPool PgxPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:        newPgxTransactionManager(dbPool),
		MemberRepo:       newPgxMemberRepository(dbPool),
		LoginLogRepo:     newPgxLoginLogRepository(dbPool),
		EventRepo:        newPgxEventRepository(dbPool),
		AnnouncementRepo: newPgxAnnouncementRepository(dbPool),
		FeedbackRepo:     newPgxFeedbackRepository(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
	}
}
