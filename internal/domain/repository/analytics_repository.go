package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleFact es la proyección de una venta para analítica.
type SaleFact struct {
	ID            string
	CustomerID    string
	CustomerName  string
	PaymentMethod string
	Status        string
	Channel       string
	TotalAmount   decimal.Decimal
	TaxAmount     decimal.Decimal
	Discount      decimal.Decimal
	CreatedAt     time.Time
}

// SaleLineFact es la proyección de una línea de venta con su producto y categoría.
type SaleLineFact struct {
	SaleID       string
	ProductID    string
	ProductName  string
	CategoryID   string
	CategoryName string
	Quantity     int
	Price        decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Cost         *decimal.Decimal // costo congelado en la línea
	ProductCost  *decimal.Decimal // costo vigente del producto
	CreatedAt    time.Time
}

// Revenue devuelve el ingreso neto de la línea: precio × cantidad − descuento.
func (l SaleLineFact) Revenue() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.Discount)
}

// COGS devuelve (costo de línea ?? costo de producto ?? 0) × cantidad.
func (l SaleLineFact) COGS() decimal.Decimal {
	unit := decimal.Zero
	switch {
	case l.Cost != nil:
		unit = *l.Cost
	case l.ProductCost != nil:
		unit = *l.ProductCost
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ExpenseFact es la proyección de un gasto con el nombre de su categoría.
type ExpenseFact struct {
	ID           string
	CategoryID   string
	CategoryName string
	Amount       decimal.Decimal
	Date         time.Time
	Status       string
}

// AnalyticsRepository define las consultas de lectura para analítica y estados financieros.
// Las implementaciones son read-only y siempre filtran por OwnerID.
type AnalyticsRepository interface {
	ListSales(ctx context.Context, f SaleFilter) ([]SaleFact, error)
	ListSaleLines(ctx context.Context, f SaleFilter) ([]SaleLineFact, error)
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]ExpenseFact, error)
	ListInvoices(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
}
