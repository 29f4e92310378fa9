package sales

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una única transacción con repositorios atados a ella.
// Si fn devuelve error no queda ningún cambio persistido.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}
