package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para analítica y estados financieros.
// Cada filtro presente se traduce a un predicado; owner_id siempre se aplica.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// saleWhere traduce un SaleFilter sobre el alias s (sales).
func saleWhere(f repository.SaleFilter) *where {
	w := &where{}
	w.add("s.owner_id = ?", f.OwnerID)
	if f.From != nil {
		w.add("s.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("s.created_at < ?", *f.To)
	}
	if f.CustomerID != nil {
		w.add("s.customer_id = ?", *f.CustomerID)
	}
	if f.PaymentMethod != nil {
		w.add("s.payment_method = ?", *f.PaymentMethod)
	}
	if f.Channel != nil {
		w.add("s.channel = ?", *f.Channel)
	}
	if f.Status != nil {
		w.add("s.status = ?", *f.Status)
	}
	return w
}

// ListSales devuelve las ventas filtradas en orden cronológico.
func (r *AnalyticsRepo) ListSales(ctx context.Context, f repository.SaleFilter) ([]repository.SaleFact, error) {
	w := saleWhere(f)
	if f.ProductID != nil {
		w.add("EXISTS (SELECT 1 FROM sale_items si WHERE si.sale_id = s.id AND si.product_id = ?)", *f.ProductID)
	}
	query := `
	SELECT s.id, COALESCE(s.customer_id, ''), COALESCE(c.name, ''), s.payment_method, s.status, s.channel,
	       s.total_amount, s.tax_amount, s.discount, s.created_at
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id
	` + w.String() + `
	ORDER BY s.created_at, s.id`

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.SaleFact, error) {
		var s repository.SaleFact
		err := row.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.PaymentMethod, &s.Status, &s.Channel,
			&s.TotalAmount, &s.TaxAmount, &s.Discount, &s.CreatedAt)
		return s, err
	})
}

// ListSaleLines devuelve las líneas de las ventas filtradas con producto y categoría.
// Con ProductID solo se devuelven las líneas de ese producto.
func (r *AnalyticsRepo) ListSaleLines(ctx context.Context, f repository.SaleFilter) ([]repository.SaleLineFact, error) {
	w := saleWhere(f)
	if f.ProductID != nil {
		w.add("si.product_id = ?", *f.ProductID)
	}
	query := `
	SELECT s.id, si.product_id, p.name, COALESCE(p.category_id, ''), COALESCE(cat.name, ''),
	       si.quantity, si.price, si.discount, si.tax, si.cost, p.cost, s.created_at
	FROM sale_items si
	JOIN sales s       ON s.id = si.sale_id
	JOIN products p    ON p.id = si.product_id
	LEFT JOIN categories cat ON cat.id = p.category_id
	` + w.String() + `
	ORDER BY s.created_at, s.id, si.created_at, si.id`

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.SaleLineFact, error) {
		var l repository.SaleLineFact
		err := row.Scan(&l.SaleID, &l.ProductID, &l.ProductName, &l.CategoryID, &l.CategoryName,
			&l.Quantity, &l.Price, &l.Discount, &l.Tax, &l.Cost, &l.ProductCost, &l.CreatedAt)
		return l, err
	})
}

// ListExpenses devuelve los gastos filtrados en orden de fecha.
func (r *AnalyticsRepo) ListExpenses(ctx context.Context, f repository.ExpenseFilter) ([]repository.ExpenseFact, error) {
	w := &where{}
	w.add("e.owner_id = ?", f.OwnerID)
	if f.From != nil {
		w.add("e.date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("e.date < ?", *f.To)
	}
	if f.Status != nil {
		w.add("e.status = ?", *f.Status)
	}
	if f.CategoryID != nil {
		w.add("e.category_id = ?", *f.CategoryID)
	}
	query := `
	SELECT e.id, COALESCE(e.category_id, ''), COALESCE(cat.name, ''), e.amount, e.date, e.status
	FROM expenses e
	LEFT JOIN categories cat ON cat.id = e.category_id
	` + w.String() + `
	ORDER BY e.date, e.id`

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ExpenseFact, error) {
		var e repository.ExpenseFact
		err := row.Scan(&e.ID, &e.CategoryID, &e.CategoryName, &e.Amount, &e.Date, &e.Status)
		return e, err
	})
}

// ListInvoices devuelve las facturas filtradas.
func (r *AnalyticsRepo) ListInvoices(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	w := &where{}
	w.add("owner_id = ?", f.OwnerID)
	if f.CreatedBefore != nil {
		w.add("created_at < ?", *f.CreatedBefore)
	}
	if f.PaidFrom != nil {
		w.add("paid_at >= ?", *f.PaidFrom)
	}
	if f.PaidTo != nil {
		w.add("paid_at < ?", *f.PaidTo)
	}
	if f.IsPaid != nil {
		w.add("is_paid = ?", *f.IsPaid)
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + w.String() + ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Invoice, error) {
		return scanInvoice(row)
	})
}

// ListProducts devuelve los productos filtrados ordenados por nombre.
func (r *AnalyticsRepo) ListProducts(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	w := &where{}
	w.add("owner_id = ?", f.OwnerID)
	if f.MaxStock != nil {
		w.add("stock <= ?", *f.MaxStock)
	}
	if f.CategoryID != nil {
		w.add("category_id = ?", *f.CategoryID)
	}
	query := `SELECT ` + productColumns + ` FROM products ` + w.String() + ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Product, error) {
		return scanProduct(row)
	})
}
