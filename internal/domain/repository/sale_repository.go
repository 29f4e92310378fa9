package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID devuelve (nil, nil) si la venta no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
}
