package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/SscSPs/assoc_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, account_id, transaction_type, amount, description, category, payment_method,
	member_id, payment_id, invoice_id, expense_id, transaction_date,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool PgxPool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.AccountID,
		&t.TransactionType,
		&t.Amount,
		&t.Description,
		&t.Category,
		&t.PaymentMethod,
		&t.MemberID,
		&t.PaymentID,
		&t.InvoiceID,
		&t.ExpenseID,
		&t.TransactionDate,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, t domain.Transaction) error {
	query := `
        INSERT INTO transactions (transaction_id, account_id, transaction_type, amount, description, category,
            payment_method, member_id, payment_id, invoice_id, expense_id, transaction_date,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		t.TransactionID,
		t.AccountID,
		t.TransactionType,
		t.Amount,
		t.Description,
		t.Category,
		t.PaymentMethod,
		t.MemberID,
		t.PaymentID,
		t.InvoiceID,
		t.ExpenseID,
		t.TransactionDate,
		t.CreatedAt,
		t.CreatedBy,
		t.LastUpdatedAt,
		t.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save", "transaction")
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	t, err := scanTransaction(r.conn(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapPgError(err, "find", "transaction")
	}
	return t, nil
}

func (r *PgxTransactionRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "query", "transactions")
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "transaction")
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "transactions")
	}
	return txns, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var w whereBuilder
	if filter.AccountID != "" {
		w.add("account_id = ?", filter.AccountID)
	}
	if filter.TransactionType != "" {
		w.add("transaction_type = ?", filter.TransactionType)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.clause() +
		` ORDER BY created_at DESC, transaction_id DESC` + w.page(filter.Limit, filter.Offset)
	return r.collect(ctx, query, w.args...)
}

// ListTransactionsByAccount fetches limit+1 rows to learn whether another page exists.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var w whereBuilder
	w.add("account_id = ?", accountID)
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		w.args = append(w.args, createdAt, id)
		w.addRaw(fmt.Sprintf("(created_at, transaction_id) < ($%d, $%d)", len(w.args)-1, len(w.args)))
	}
	w.args = append(w.args, limit+1)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.clause() +
		fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT $%d`, len(w.args))

	txns, err := r.collect(ctx, query, w.args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err, "count", "transactions")
	}
	return count, nil
}

func (r *PgxTransactionRepository) SumTransactionsByType(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
        SELECT
            COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'INCOME'), 0),
            COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'EXPENSE'), 0)
        FROM transactions;
    `
	var income, expense decimal.Decimal
	if err := r.conn(ctx).QueryRow(ctx, query).Scan(&income, &expense); err != nil {
		return decimal.Zero, decimal.Zero, mapPgError(err, "sum", "transactions")
	}
	return income, expense, nil
}
