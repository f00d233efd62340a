package pgsql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	provider := NewRepositoryProvider(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE financial_accounts").
		WithArgs("acc-1", pgxmock.AnyArg(), now, "member-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := provider.TxManager.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return provider.AccountRepo.AdjustAccountBalance(ctx, "acc-1", decimal.NewFromInt(50), "member-1", now)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackAndReturnsCause(t *testing.T) {
	mock := newMock(t)
	provider := NewRepositoryProvider(mock)
	cause := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := provider.TxManager.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return cause
	})
	assert.Same(t, cause, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	mock := newMock(t)
	provider := NewRepositoryProvider(mock)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := provider.TxManager.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return provider.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_FindMemberByID(t *testing.T) {
	mock := newMock(t)
	repo := newPgxMemberRepository(mock)
	now := time.Now()

	cols := []string{"member_id", "full_name", "email", "phone", "password_hash", "role", "status", "position", "joined_at",
		"created_at", "created_by", "last_updated_at", "last_updated_by"}
	mock.ExpectQuery("SELECT (.+) FROM members WHERE member_id = \\$1").
		WithArgs("m-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			"m-1", "Jane Doe", "jane@example.com", "", "hash", domain.RoleAdmin, domain.MemberActive, "Treasurer", &now,
			now, "m-1", now, "m-1"))

	m, err := repo.FindMemberByID(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", m.FullName)
	assert.Equal(t, domain.RoleAdmin, m.Role)
	assert.Equal(t, "Treasurer", m.Position)
	require.NotNil(t, m.JoinedAt)

	mock.ExpectQuery("SELECT (.+) FROM members WHERE member_id = \\$1").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(cols))
	_, err = repo.FindMemberByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_SaveDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := newPgxMemberRepository(mock)

	args := make([]any, 13)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec("INSERT INTO members").
		WithArgs(args...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_members_email"})

	err := repo.SaveMember(context.Background(), domain.Member{MemberID: "m-1", Email: "a@b.c"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_ListMembersFilters(t *testing.T) {
	mock := newMock(t)
	repo := newPgxMemberRepository(mock)

	mock.ExpectQuery("FROM members WHERE status = \\$1 AND \\(full_name ILIKE \\$2 OR email ILIKE \\$2\\) ORDER BY full_name ASC, member_id ASC LIMIT \\$3 OFFSET \\$4").
		WithArgs(domain.MemberActive, "%jan%", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"member_id"}))

	members, err := repo.ListMembers(context.Background(), domain.MemberFilter{Status: domain.MemberActive, Search: "jan", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.NotNil(t, members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_DeleteReleasesRSVPs(t *testing.T) {
	mock := newMock(t)
	repo := newPgxMemberRepository(mock)

	mock.ExpectExec("DELETE FROM event_rsvps WHERE member_id = \\$1").
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("DELETE FROM members").
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteMember(context.Background(), "m-1"))

	mock.ExpectExec("DELETE FROM event_rsvps").WithArgs("m-2").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM members").WithArgs("m-2").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.DeleteMember(context.Background(), "m-2"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_FindRSVPNotFound(t *testing.T) {
	mock := newMock(t)
	repo := newPgxEventRepository(mock)

	mock.ExpectQuery("SELECT event_id, member_id, created_at FROM event_rsvps").
		WithArgs("e-1", "m-1").
		WillReturnRows(pgxmock.NewRows([]string{"event_id", "member_id", "created_at"}))

	_, err := repo.FindRSVP(context.Background(), "e-1", "m-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_LockAndAdjustInTransaction(t *testing.T) {
	mock := newMock(t)
	provider := NewRepositoryProvider(mock)
	now := time.Now()

	cols := []string{"event_id", "title", "description", "location", "starts_at", "ends_at", "capacity", "attendee_count",
		"created_at", "created_by", "last_updated_at", "last_updated_by"}
	mock.ExpectBegin()
	mock.ExpectQuery("FROM events WHERE event_id = \\$1 FOR UPDATE").
		WithArgs("e-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("e-1", "AGM", "", "Hall", now, nil, 10, 3, now, "a", now, "a"))
	mock.ExpectExec("SET attendee_count = GREATEST\\(attendee_count \\+ \\$2, 0\\)").
		WithArgs("e-1", 1, now, "m-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := provider.TxManager.WithinTransaction(context.Background(), func(ctx context.Context) error {
		ev, err := provider.EventRepo.FindEventByIDForUpdate(ctx, "e-1")
		if err != nil {
			return err
		}
		assert.Equal(t, 3, ev.AttendeeCount)
		assert.Nil(t, ev.EndsAt)
		return provider.EventRepo.AdjustAttendeeCount(ctx, "e-1", 1, "m-1", now)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func transactionRow(id string, createdAt time.Time) []any {
	return []any{id, "acc-1", domain.TransactionIncome, decimal.NewFromInt(100), "dues", "ANNUAL_DUES", domain.MethodCash,
		nil, nil, nil, nil, createdAt, createdAt, "a", createdAt, "a"}
}

var transactionCols = []string{"transaction_id", "account_id", "transaction_type", "amount", "description", "category",
	"payment_method", "member_id", "payment_id", "invoice_id", "expense_id", "transaction_date",
	"created_at", "created_by", "last_updated_at", "last_updated_by"}

func TestTransactionRepository_ListByAccountPaging(t *testing.T) {
	mock := newMock(t)
	repo := newPgxTransactionRepository(mock)
	t1 := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(-time.Hour)
	t3 := t1.Add(-2 * time.Hour)

	mock.ExpectQuery("FROM transactions WHERE account_id = \\$1 ORDER BY created_at DESC, transaction_id DESC LIMIT \\$2").
		WithArgs("acc-1", 3).
		WillReturnRows(pgxmock.NewRows(transactionCols).
			AddRow(transactionRow("t1", t1)...).
			AddRow(transactionRow("t2", t2)...).
			AddRow(transactionRow("t3", t3)...))

	page, next, err := repo.ListTransactionsByAccount(context.Background(), "acc-1", 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)

	createdAt, id, err := pagination.DecodeToken(*next)
	require.NoError(t, err)
	assert.Equal(t, "t2", id)
	assert.True(t, createdAt.Equal(t2))

	mock.ExpectQuery("WHERE account_id = \\$1 AND \\(created_at, transaction_id\\) < \\(\\$2, \\$3\\)").
		WithArgs("acc-1", pgxmock.AnyArg(), "t2", 3).
		WillReturnRows(pgxmock.NewRows(transactionCols).AddRow(transactionRow("t3", t3)...))

	page, next, err = repo.ListTransactionsByAccount(context.Background(), "acc-1", 2, next)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Nil(t, next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_InvalidToken(t *testing.T) {
	mock := newMock(t)
	repo := newPgxTransactionRepository(mock)

	bad := "%%%"
	_, _, err := repo.ListTransactionsByAccount(context.Background(), "acc-1", 10, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAccountRepository_CheckViolationIsValidation(t *testing.T) {
	mock := newMock(t)
	repo := newPgxAccountRepository(mock)
	now := time.Now()

	mock.ExpectExec("UPDATE financial_accounts").
		WithArgs("acc-1", pgxmock.AnyArg(), now, "m-1").
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "financial_accounts_balance_check"})

	err := repo.AdjustAccountBalance(context.Background(), "acc-1", decimal.NewFromInt(-500), "m-1", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_SumPaidByInvoice(t *testing.T) {
	mock := newMock(t)
	repo := newPgxPaymentRepository(mock)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM payments WHERE invoice_id = \\$1 AND status = 'PAID'").
		WithArgs("inv-1").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.RequireFromString("300.00")))

	total, err := repo.SumPaidByInvoice(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(300)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_UpdateNotFound(t *testing.T) {
	mock := newMock(t)
	repo := newPgxExpenseRepository(mock)

	args := make([]any, 16)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec("UPDATE expenses").WithArgs(args...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateExpense(context.Background(), domain.Expense{ExpenseID: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.clause())

	w.add("status = ?", "PAID")
	w.addRaw("is_active")
	w.add("(a = ? OR b = ?)", "x")
	assert.Equal(t, " WHERE status = $1 AND is_active AND (a = $2 OR b = $2)", w.clause())
	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(0, -5))
	assert.Equal(t, []any{"PAID", "x", 20, 0}, w.args)
}
