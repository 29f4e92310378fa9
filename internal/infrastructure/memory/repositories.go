package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepo)(nil)
)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ base }

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el mutex del almacén.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// UpdateStock fija el stock de un producto.
func (r *ProductRepo) UpdateStock(_ context.Context, id string, stock int) error {
	var err error
	r.read(func(st *state) {
		p, ok := st.products[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		p.Stock = stock
		p.UpdatedAt = time.Now()
		st.products[id] = p
	})
	return err
}

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct{ base }

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.read(func(st *state) {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct{ base }

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	var err error
	r.read(func(st *state) {
		for _, s := range st.sales {
			if s.ID == sale.ID {
				err = domain.ErrConflict
				return
			}
		}
		st.sales = append(st.sales, *sale)
	})
	return err
}

// CreateItem persiste una línea; la venta debe existir.
func (r *SaleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	var err error
	r.read(func(st *state) {
		for _, s := range st.sales {
			if s.ID == item.SaleID {
				st.items = append(st.items, *item)
				return
			}
		}
		err = domain.ErrNotFound
	})
	return err
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.read(func(st *state) {
		for _, s := range st.sales {
			if s.ID == id {
				s := s
				out = &s
				return
			}
		}
	})
	return out, nil
}

// ListItems devuelve las líneas de una venta en orden de creación.
func (r *SaleRepo) ListItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	out := make([]*entity.SaleItem, 0)
	r.read(func(st *state) {
		for _, it := range st.items {
			if it.SaleID == saleID {
				it := it
				out = append(out, &it)
			}
		}
	})
	return out, nil
}

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct{ base }

// Create persiste una factura; el consecutivo es único por propietario.
func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	var err error
	r.read(func(st *state) {
		for _, existing := range st.invoices {
			if existing.OwnerID == inv.OwnerID && existing.InvoiceNumber == inv.InvoiceNumber {
				err = domain.ErrConflict
				return
			}
		}
		st.invoices = append(st.invoices, *inv)
	})
	return err
}

// CountForDay cuenta las facturas del propietario creadas en el día UTC de day.
func (r *InvoiceRepo) CountForDay(_ context.Context, ownerID string, day time.Time) (int, error) {
	start := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	n := 0
	r.read(func(st *state) {
		for _, inv := range st.invoices {
			if inv.OwnerID == ownerID && repository.WithinRange(inv.CreatedAt, &start, &end) {
				n++
			}
		}
	})
	return n, nil
}

// GetBySaleID obtiene la factura de una venta.
func (r *InvoiceRepo) GetBySaleID(_ context.Context, saleID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.read(func(st *state) {
		for _, inv := range st.invoices {
			if inv.SaleID == saleID {
				inv := inv
				out = &inv
				return
			}
		}
	})
	return out, nil
}
