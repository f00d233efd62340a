package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/SscSPs/assoc_backend/internal/metrics"
	"github.com/google/uuid"
)

// ledgerPoster writes one ledger entry and moves its account balance by the
// signed amount. It must run inside a unit of work with the account row locked.
type ledgerPoster struct {
	accountRepo     portsrepo.AccountTransactionSupport
	transactionRepo portsrepo.TransactionWriter
}

func (l ledgerPoster) post(ctx context.Context, txn domain.Transaction, actorID string, now time.Time) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(txn.Amount); err != nil {
		return nil, err
	}
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = now
	}
	txn.AuditFields = domain.NewAuditFields(actorID, now)

	if err := l.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	if err := l.accountRepo.AdjustAccountBalance(ctx, txn.AccountID, txn.SignedAmount(), actorID, now); err != nil {
		return nil, fmt.Errorf("failed to adjust balance of account %s: %w", txn.AccountID, err)
	}
	return &txn, nil
}

// recordPosting counts a committed ledger entry.
func recordPosting(txn *domain.Transaction) {
	if txn != nil {
		metrics.RecordLedgerPosting(string(txn.TransactionType), txn.Category, txn.Amount)
	}
}
