package pgsql

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
)

const expenseColumns = `expense_id, title, description, amount, category, status, requested_by,
	approved_by, approved_at, rejected_by, rejected_at, rejection_reason, paid_at, account_id, transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool PgxPool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ExpenseID,
		&e.Title,
		&e.Description,
		&e.Amount,
		&e.Category,
		&e.Status,
		&e.RequestedBy,
		&e.ApprovedBy,
		&e.ApprovedAt,
		&e.RejectedBy,
		&e.RejectedAt,
		&e.RejectionReason,
		&e.PaidAt,
		&e.AccountID,
		&e.TransactionID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, e domain.Expense) error {
	query := `
        INSERT INTO expenses (expense_id, title, description, amount, category, status, requested_by,
            approved_by, approved_at, rejected_by, rejected_at, rejection_reason, paid_at, account_id, transaction_id,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		e.ExpenseID,
		e.Title,
		e.Description,
		e.Amount,
		e.Category,
		e.Status,
		e.RequestedBy,
		e.ApprovedBy,
		e.ApprovedAt,
		e.RejectedBy,
		e.RejectedAt,
		e.RejectionReason,
		e.PaidAt,
		e.AccountID,
		e.TransactionID,
		e.CreatedAt,
		e.CreatedBy,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save", "expense")
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	e, err := scanExpense(r.conn(ctx).QueryRow(ctx, query, expenseID))
	if err != nil {
		return nil, mapPgError(err, "find", "expense")
	}
	return e, nil
}

func (r *PgxExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1 FOR UPDATE;`
	e, err := scanExpense(r.conn(ctx).QueryRow(ctx, query, expenseID))
	if err != nil {
		return nil, mapPgError(err, "lock", "expense")
	}
	return e, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.RequestedBy != "" {
		w.add("requested_by = ?", filter.RequestedBy)
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses` + w.clause() +
		` ORDER BY created_at DESC, expense_id ASC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "expenses")
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "expense")
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "expenses")
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) CountExpensesByStatus(ctx context.Context, status domain.ExpenseStatus) (int, error) {
	var count int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM expenses WHERE status = $1;`, status).Scan(&count); err != nil {
		return 0, mapPgError(err, "count", "expenses")
	}
	return count, nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, e domain.Expense) error {
	query := `
        UPDATE expenses
        SET title = $1, description = $2, amount = $3, category = $4, status = $5,
            approved_by = $6, approved_at = $7, rejected_by = $8, rejected_at = $9, rejection_reason = $10,
            paid_at = $11, account_id = $12, transaction_id = $13, last_updated_at = $14, last_updated_by = $15
        WHERE expense_id = $16;
    `
	tag, err := r.conn(ctx).Exec(ctx, query,
		e.Title,
		e.Description,
		e.Amount,
		e.Category,
		e.Status,
		e.ApprovedBy,
		e.ApprovedAt,
		e.RejectedBy,
		e.RejectedAt,
		e.RejectionReason,
		e.PaidAt,
		e.AccountID,
		e.TransactionID,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
		e.ExpenseID,
	)
	if err != nil {
		return mapPgError(err, "update", "expense")
	}
	return expectOneRow(tag, "expense")
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return mapPgError(err, "delete", "expense")
	}
	return expectOneRow(tag, "expense")
}
