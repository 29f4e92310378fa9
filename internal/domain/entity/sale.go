package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash        = "CASH"
	PaymentCreditCard  = "CREDIT_CARD"
	PaymentCredit      = "CREDIT" // pago diferido: genera factura
	PaymentMobileMoney = "MOBILE_MONEY"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusRefunded  = "refunded"
)

// IsValidPaymentMethod indica si m es uno de los métodos de pago aceptados.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentCredit, PaymentMobileMoney:
		return true
	}
	return false
}

// Sale es la cabecera de una venta. Se crea junto con sus SaleItem en una sola transacción
// y no se modifica después.
type Sale struct {
	ID             string
	OwnerID        string
	CustomerID     string // vacío si la venta no tiene cliente
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	Discount       decimal.Decimal
	PaymentMethod  string
	Status         string
	Channel        string // in-store, online, phone
	Notes          string
	CurrencyCode   string
	CurrencySymbol string
	CreatedAt      time.Time
}

// SaleItem es una línea de venta; precio, descuento, impuesto y costo quedan congelados al crearla.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Discount  decimal.Decimal
	Tax       decimal.Decimal
	Cost      *decimal.Decimal
	CreatedAt time.Time
}
