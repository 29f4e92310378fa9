package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, owner_id, sale_id, COALESCE(customer_id, ''), invoice_number, amount_due, due_date,
	status, is_paid, paid_amount, paid_at, created_at`

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura. Un consecutivo repetido para el propietario devuelve ErrConflict.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, owner_id, sale_id, customer_id, invoice_number, amount_due, due_date,
		                      status, is_paid, paid_amount, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.OwnerID, inv.SaleID, nullIfEmpty(inv.CustomerID), inv.InvoiceNumber, inv.AmountDue, inv.DueDate,
		inv.Status, inv.IsPaid, inv.PaidAmount, inv.PaidAt, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CountForDay toma un advisory lock de transacción por (propietario, día) y cuenta las facturas
// creadas ese día UTC. Dos ventas a crédito simultáneas del mismo propietario obtienen
// consecutivos distintos; el lock se libera con el commit o rollback.
func (r *InvoiceRepo) CountForDay(ctx context.Context, ownerID string, day time.Time) (int, error) {
	start := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	key := fmt.Sprintf("invoice:%s:%s", ownerID, start.Format("20060102"))
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return 0, fmt.Errorf("lock invoice counter: %w", err)
	}

	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE owner_id = $1 AND created_at >= $2 AND created_at < $3`,
		ownerID, start, start.AddDate(0, 0, 1),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// GetBySaleID obtiene la factura de una venta.
func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE sale_id = $1`, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.SaleID, &inv.CustomerID, &inv.InvoiceNumber, &inv.AmountDue, &inv.DueDate,
		&inv.Status, &inv.IsPaid, &inv.PaidAmount, &inv.PaidAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
