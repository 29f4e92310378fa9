package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible de un propietario (tenant).
// Stock nunca es negativo; solo lo decrementa una venta confirmada.
type Product struct {
	ID         string
	OwnerID    string
	Name       string
	Price      decimal.Decimal  // precio de venta vigente
	Cost       *decimal.Decimal // costo unitario (base del COGS); nil si no se conoce
	Stock      int
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CostOrZero devuelve el costo del producto o cero si no está definido.
func (p *Product) CostOrZero() decimal.Decimal {
	if p.Cost == nil {
		return decimal.Zero
	}
	return *p.Cost
}
