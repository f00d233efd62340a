package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager        TransactionManager
	MemberRepo       MemberRepositoryFacade
	LoginLogRepo     LoginLogRepository
	EventRepo        EventRepositoryFacade
	AnnouncementRepo AnnouncementRepository
	FeedbackRepo     FeedbackRepository
	AccountRepo      AccountRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	InvoiceRepo      InvoiceRepositoryFacade
	ExpenseRepo      ExpenseRepositoryFacade
}
