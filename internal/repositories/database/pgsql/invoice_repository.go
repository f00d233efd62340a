package pgsql

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `invoice_id, invoice_number, member_id, amount, description, due_date, status, paid_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool PgxPool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var i domain.Invoice
	err := row.Scan(&i.InvoiceID, &i.InvoiceNumber, &i.MemberID, &i.Amount, &i.Description, &i.DueDate, &i.Status, &i.PaidAt,
		&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, i domain.Invoice) error {
	query := `
        INSERT INTO invoices (invoice_id, invoice_number, member_id, amount, description, due_date, status, paid_at,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.conn(ctx).Exec(ctx, query, i.InvoiceID, i.InvoiceNumber, i.MemberID, i.Amount, i.Description, i.DueDate,
		i.Status, i.PaidAt, i.CreatedAt, i.CreatedBy, i.LastUpdatedAt, i.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "save", "invoice")
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	i, err := scanInvoice(r.conn(ctx).QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, mapPgError(err, "find", "invoice")
	}
	return i, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	i, err := scanInvoice(r.conn(ctx).QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, mapPgError(err, "lock", "invoice")
	}
	return i, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.MemberID != "" {
		w.add("member_id = ?", filter.MemberID)
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + w.clause() +
		` ORDER BY due_date DESC, invoice_number DESC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "invoices")
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "invoice")
		}
		invoices = append(invoices, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "invoices")
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) SumOutstandingInvoices(ctx context.Context) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(GREATEST(i.amount - COALESCE(p.paid, 0), 0)), 0)
        FROM invoices i
        LEFT JOIN (
            SELECT invoice_id, SUM(amount) AS paid
            FROM payments
            WHERE status = 'PAID' AND invoice_id IS NOT NULL
            GROUP BY invoice_id
        ) p ON p.invoice_id = i.invoice_id
        WHERE i.status = 'PENDING';
    `
	var total decimal.Decimal
	if err := r.conn(ctx).QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, mapPgError(err, "sum", "outstanding invoices")
	}
	return total, nil
}

func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, i domain.Invoice) error {
	query := `
        UPDATE invoices
        SET amount = $1, description = $2, due_date = $3, status = $4, paid_at = $5,
            last_updated_at = $6, last_updated_by = $7
        WHERE invoice_id = $8;
    `
	tag, err := r.conn(ctx).Exec(ctx, query, i.Amount, i.Description, i.DueDate, i.Status, i.PaidAt,
		i.LastUpdatedAt, i.LastUpdatedBy, i.InvoiceID)
	if err != nil {
		return mapPgError(err, "update", "invoice")
	}
	return expectOneRow(tag, "invoice")
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return mapPgError(err, "delete", "invoice")
	}
	return expectOneRow(tag, "invoice")
}
