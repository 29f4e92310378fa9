package entity

import "time"

// Tipos de categoría.
const (
	CategoryKindProduct = "product"
	CategoryKindExpense = "expense"
)

// Category agrupa productos o gastos para los desgloses de los estados financieros.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Kind      string // product, expense
	CreatedAt time.Time
}
