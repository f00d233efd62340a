package pgsql

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const paymentColumns = `payment_id, amount, purpose, method, status, member_id, payer_name, payer_email, payer_phone,
	invoice_id, reference, notes, paid_at, account_id, transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool PgxPool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.Amount,
		&p.Purpose,
		&p.Method,
		&p.Status,
		&p.MemberID,
		&p.ExternalPayer.Name,
		&p.ExternalPayer.Email,
		&p.ExternalPayer.Phone,
		&p.InvoiceID,
		&p.Reference,
		&p.Notes,
		&p.PaidAt,
		&p.AccountID,
		&p.TransactionID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	query := `
        INSERT INTO payments (payment_id, amount, purpose, method, status, member_id, payer_name, payer_email, payer_phone,
            invoice_id, reference, notes, paid_at, account_id, transaction_id,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		p.PaymentID,
		p.Amount,
		p.Purpose,
		p.Method,
		p.Status,
		p.MemberID,
		p.ExternalPayer.Name,
		p.ExternalPayer.Email,
		p.ExternalPayer.Phone,
		p.InvoiceID,
		p.Reference,
		p.Notes,
		p.PaidAt,
		p.AccountID,
		p.TransactionID,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save", "payment")
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, mapPgError(err, "find", "payment")
	}
	return p, nil
}

func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, mapPgError(err, "lock", "payment")
	}
	return p, nil
}

func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.MemberID != "" {
		w.add("member_id = ?", filter.MemberID)
	}
	if filter.InvoiceID != "" {
		w.add("invoice_id = ?", filter.InvoiceID)
	}
	query := `SELECT ` + paymentColumns + ` FROM payments` + w.clause() +
		` ORDER BY created_at DESC, payment_id ASC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "payments")
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "payment")
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "payments")
	}
	return payments, nil
}

func (r *PgxPaymentRepository) SumPaidByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1 AND status = 'PAID';`
	var total decimal.Decimal
	if err := r.conn(ctx).QueryRow(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, mapPgError(err, "sum", "invoice payments")
	}
	return total, nil
}

func (r *PgxPaymentRepository) CountPaymentsByInvoice(ctx context.Context, invoiceID string) (int, error) {
	var count int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE invoice_id = $1;`, invoiceID).Scan(&count); err != nil {
		return 0, mapPgError(err, "count", "invoice payments")
	}
	return count, nil
}

func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, p domain.Payment) error {
	query := `
        UPDATE payments
        SET amount = $1, purpose = $2, method = $3, status = $4, member_id = $5, payer_name = $6, payer_email = $7,
            payer_phone = $8, invoice_id = $9, reference = $10, notes = $11, paid_at = $12, account_id = $13,
            transaction_id = $14, last_updated_at = $15, last_updated_by = $16
        WHERE payment_id = $17;
    `
	tag, err := r.conn(ctx).Exec(ctx, query,
		p.Amount,
		p.Purpose,
		p.Method,
		p.Status,
		p.MemberID,
		p.ExternalPayer.Name,
		p.ExternalPayer.Email,
		p.ExternalPayer.Phone,
		p.InvoiceID,
		p.Reference,
		p.Notes,
		p.PaidAt,
		p.AccountID,
		p.TransactionID,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
		p.PaymentID,
	)
	if err != nil {
		return mapPgError(err, "update", "payment")
	}
	return expectOneRow(tag, "payment")
}

func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return mapPgError(err, "delete", "payment")
	}
	return expectOneRow(tag, "payment")
}
