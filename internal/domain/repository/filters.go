package repository

import "time"

// ── Filtros opcionales ───────────────────────────────────────────────────────
// Cada campo puntero nil se omite; solo los presentes se traducen a un predicado.
// OwnerID es obligatorio en todos los filtros.

// SaleFilter filtra ventas y líneas de venta. El rango es semiabierto [From, To).
type SaleFilter struct {
	OwnerID       string
	From          *time.Time
	To            *time.Time
	ProductID     *string
	CustomerID    *string
	PaymentMethod *string
	Channel       *string
	Status        *string
}

// ExpenseFilter filtra gastos por fecha [From, To), estado y categoría.
type ExpenseFilter struct {
	OwnerID    string
	From       *time.Time
	To         *time.Time
	Status     *string
	CategoryID *string
}

// InvoiceFilter filtra facturas por creación, fecha de pago y estado de pago.
type InvoiceFilter struct {
	OwnerID       string
	CreatedBefore *time.Time // created_at < CreatedBefore
	PaidFrom      *time.Time // paid_at >= PaidFrom
	PaidTo        *time.Time // paid_at < PaidTo
	IsPaid        *bool
}

// ProductFilter filtra productos del propietario.
type ProductFilter struct {
	OwnerID    string
	MaxStock   *int // stock <= MaxStock
	CategoryID *string
}

// WithinRange indica si t cae en [from, to); un extremo nil no restringe.
func WithinRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

// Ptr devuelve un puntero a v; útil al construir filtros.
func Ptr[T any](v T) *T { return &v }
