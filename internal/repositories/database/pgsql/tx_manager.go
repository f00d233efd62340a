package pgsql

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/SscSPs/assoc_backend/internal/middleware"
)

// PgxTransactionManager runs units of work on a single pgx transaction.
type PgxTransactionManager struct {
	BaseRepository
}

func newPgxTransactionManager(pool PgxPool) *PgxTransactionManager {
	return &PgxTransactionManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithinTransaction implements portsrepo.TransactionManager.
func (m *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := m.Rollback(ctx, tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to roll back transaction",
				slog.String("error", rbErr.Error()),
				slog.String("cause", err.Error()))
		}
		return err
	}

	return m.Commit(ctx, tx)
}
