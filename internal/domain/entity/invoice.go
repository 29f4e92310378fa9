package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de venta a crédito.
const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"
)

// InvoiceNumberPrefix antecede a todos los consecutivos (INV-YYYYMMDD-NNN).
const InvoiceNumberPrefix = "INV"

// Invoice representa la cuenta por cobrar de una venta a crédito (1:1 con Sale).
type Invoice struct {
	ID            string
	OwnerID       string
	SaleID        string
	CustomerID    string
	InvoiceNumber string
	AmountDue     decimal.Decimal
	DueDate       time.Time
	Status        string
	IsPaid        bool
	PaidAmount    decimal.Decimal
	PaidAt        *time.Time
	CreatedAt     time.Time
}

// Outstanding devuelve el saldo pendiente de la factura (nunca negativo).
func (i *Invoice) Outstanding() decimal.Decimal {
	if i.IsPaid {
		return decimal.Zero
	}
	rest := i.AmountDue.Sub(i.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
