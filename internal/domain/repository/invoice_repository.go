package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas de ventas a crédito.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// CountForDay cuenta las facturas del propietario creadas en el día calendario (UTC) de day.
	// Dentro de una transacción serializa a otros contadores del mismo (propietario, día).
	CountForDay(ctx context.Context, ownerID string, day time.Time) (int, error)
	// GetBySaleID devuelve (nil, nil) si la venta no tiene factura.
	GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error)
}
