package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, name, account_type, balance, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool PgxPool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row rowScanner) (*domain.FinancialAccount, error) {
	var a domain.FinancialAccount
	err := row.Scan(
		&a.AccountID,
		&a.Name,
		&a.AccountType,
		&a.Balance,
		&a.Description,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.FinancialAccount) error {
	query := `
        INSERT INTO financial_accounts (account_id, name, account_type, balance, description, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.AccountType,
		account.Balance,
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save", "account")
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.FinancialAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM financial_accounts WHERE account_id = $1;`
	a, err := scanAccount(r.conn(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, "find", "account")
	}
	return a, nil
}

// FindAccountByIDForUpdate locks the account row so concurrent postings serialize.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.FinancialAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM financial_accounts WHERE account_id = $1 FOR UPDATE;`
	a, err := scanAccount(r.conn(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, "lock", "account")
	}
	return a, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.FinancialAccount, error) {
	var w whereBuilder
	if filter.ActiveOnly {
		w.addRaw("is_active")
	}
	query := `SELECT ` + accountColumns + ` FROM financial_accounts` + w.clause() +
		` ORDER BY name ASC, account_id ASC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "accounts")
	}
	defer rows.Close()

	accounts := []domain.FinancialAccount{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "account")
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "accounts")
	}
	return accounts, nil
}

func (r *PgxAccountRepository) SumActiveBalances(ctx context.Context) (decimal.Decimal, int, error) {
	query := `SELECT COALESCE(SUM(balance), 0), COUNT(*) FROM financial_accounts WHERE is_active;`
	var total decimal.Decimal
	var count int
	if err := r.conn(ctx).QueryRow(ctx, query).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, mapPgError(err, "sum", "account balances")
	}
	return total, count, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.FinancialAccount) error {
	query := `
        UPDATE financial_accounts
        SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
        WHERE account_id = $6;
    `
	tag, err := r.conn(ctx).Exec(ctx, query,
		account.Name,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
		account.AccountID,
	)
	if err != nil {
		return mapPgError(err, "update", "account")
	}
	return expectOneRow(tag, "account")
}

// AdjustAccountBalance applies delta atomically; the balance >= 0 check constraint backs the service-level check.
func (r *PgxAccountRepository) AdjustAccountBalance(ctx context.Context, accountID string, delta decimal.Decimal, memberID string, now time.Time) error {
	query := `
        UPDATE financial_accounts
        SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
        WHERE account_id = $1;
    `
	tag, err := r.conn(ctx).Exec(ctx, query, accountID, delta, now, memberID)
	if err != nil {
		return mapPgError(err, "adjust balance of", "account")
	}
	return expectOneRow(tag, "account")
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM financial_accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return mapPgError(err, "delete", "account")
	}
	return expectOneRow(tag, "account")
}
