package domain

// Zero values in a filter mean "no constraint".

type MemberFilter struct {
	Status MemberStatus
	Role   MemberRole
	Search string
	Limit  int
	Offset int
}

type LoginLogFilter struct {
	MemberID string
	Limit    int
	Offset   int
}

type EventFilter struct {
	UpcomingOnly bool
	Limit        int
	Offset       int
}

type AnnouncementFilter struct {
	IncludeAdminOnly bool
	Limit            int
	Offset           int
}

type FeedbackFilter struct {
	MemberID string
	Status   FeedbackStatus
	Limit    int
	Offset   int
}

type AccountFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

type TransactionFilter struct {
	AccountID       string
	TransactionType TransactionType
	Limit           int
	Offset          int
}

type PaymentFilter struct {
	Status    PaymentStatus
	MemberID  string
	InvoiceID string
	Limit     int
	Offset    int
}

type InvoiceFilter struct {
	Status   InvoiceStatus
	MemberID string
	Limit    int
	Offset   int
}

type ExpenseFilter struct {
	Status      ExpenseStatus
	RequestedBy string
	Limit       int
	Offset      int
}
