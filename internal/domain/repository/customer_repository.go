package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura de clientes. GetByID devuelve (nil, nil) si no existe.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
