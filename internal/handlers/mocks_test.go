package handlers_test

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

func memberResult(args mock.Arguments) (*domain.Member, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// --- Auth ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Member, error) {
	return memberResult(m.Called(ctx, req))
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest, meta dto.LoginMetadata) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) ResolveIdentity(ctx context.Context, memberID string) (domain.Identity, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor domain.Identity, req dto.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

func (m *MockAuthService) ListLoginLogs(ctx context.Context, filter domain.LoginLogFilter) ([]domain.LoginLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoginLog), args.Error(1)
}

func (m *MockAuthService) PruneLoginLogs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Members ---

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

func (m *MockMemberService) ListMembers(ctx context.Context, actor domain.Identity, filter domain.MemberFilter) ([]domain.Member, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) CreateMember(ctx context.Context, actor domain.Identity, req dto.CreateMemberRequest) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, req))
}

func (m *MockMemberService) UpdateMember(ctx context.Context, actor domain.Identity, memberID string, req dto.UpdateMemberRequest) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID, req))
}

func (m *MockMemberService) DeleteMember(ctx context.Context, actor domain.Identity, memberID string) error {
	return m.Called(ctx, actor, memberID).Error(0)
}

func (m *MockMemberService) ApproveMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

func (m *MockMemberService) RejectMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

func (m *MockMemberService) SuspendMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

func (m *MockMemberService) ReactivateMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

func (m *MockMemberService) PromoteMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

func (m *MockMemberService) DemoteMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return memberResult(m.Called(ctx, actor, memberID))
}

// --- Events ---

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventService) ListAttendees(ctx context.Context, eventID string) ([]domain.EventAttendee, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventAttendee), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, actor domain.Identity, req dto.CreateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, actor domain.Identity, eventID string, req dto.UpdateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, actor, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, actor domain.Identity, eventID string) error {
	return m.Called(ctx, actor, eventID).Error(0)
}

func (m *MockEventService) ToggleRSVP(ctx context.Context, actor domain.Identity, eventID string) (*domain.RSVPResult, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RSVPResult), args.Error(1)
}

// --- Accounts ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.FinancialAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialAccount), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.FinancialAccount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialAccount), args.Error(1)
}

func (m *MockAccountService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockAccountService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockAccountService) ListAccountTransactions(ctx context.Context, accountID string, params dto.AccountTransactionsParams) (*domain.TransactionPage, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionPage), args.Error(1)
}

func (m *MockAccountService) GetSummary(ctx context.Context) (*domain.FinanceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceSummary), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, actor domain.Identity, req dto.CreateAccountRequest) (*domain.FinancialAccount, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialAccount), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, actor domain.Identity, accountID string, req dto.UpdateAccountRequest) (*domain.FinancialAccount, error) {
	args := m.Called(ctx, actor, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialAccount), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, actor domain.Identity, accountID string) error {
	return m.Called(ctx, actor, accountID).Error(0)
}

// --- Expenses ---

type MockExpenseService struct {
	mock.Mock
}

func expenseResult(args mock.Arguments) (*domain.Expense, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) GetExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, expenseID))
}

func (m *MockExpenseService) ListExpenses(ctx context.Context, actor domain.Identity, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, actor domain.Identity, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, req))
}

func (m *MockExpenseService) UpdateExpense(ctx context.Context, actor domain.Identity, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, expenseID, req))
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, actor domain.Identity, expenseID string) error {
	return m.Called(ctx, actor, expenseID).Error(0)
}

func (m *MockExpenseService) SubmitExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, expenseID))
}

func (m *MockExpenseService) ApproveExpense(ctx context.Context, actor domain.Identity, expenseID string) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, expenseID))
}

func (m *MockExpenseService) RejectExpense(ctx context.Context, actor domain.Identity, expenseID string, req dto.RejectExpenseRequest) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, expenseID, req))
}

func (m *MockExpenseService) MarkExpensePaid(ctx context.Context, actor domain.Identity, expenseID string, req dto.MarkExpensePaidRequest) (*domain.Expense, error) {
	return expenseResult(m.Called(ctx, actor, expenseID, req))
}
