package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo implementación en memoria de AnalyticsRepository.
type AnalyticsRepo struct{ base }

func matchSale(st *state, f repository.SaleFilter, s entity.Sale) bool {
	if s.OwnerID != f.OwnerID || !repository.WithinRange(s.CreatedAt, f.From, f.To) {
		return false
	}
	if f.CustomerID != nil && s.CustomerID != *f.CustomerID {
		return false
	}
	if f.PaymentMethod != nil && s.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.Channel != nil && s.Channel != *f.Channel {
		return false
	}
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.ProductID != nil {
		for _, it := range st.items {
			if it.SaleID == s.ID && it.ProductID == *f.ProductID {
				return true
			}
		}
		return false
	}
	return true
}

// ListSales devuelve las ventas filtradas en orden cronológico.
func (r *AnalyticsRepo) ListSales(_ context.Context, f repository.SaleFilter) ([]repository.SaleFact, error) {
	out := make([]repository.SaleFact, 0)
	r.read(func(st *state) {
		for _, s := range sortedSales(st.sales) {
			if !matchSale(st, f, s) {
				continue
			}
			out = append(out, repository.SaleFact{
				ID:            s.ID,
				CustomerID:    s.CustomerID,
				CustomerName:  st.customers[s.CustomerID].Name,
				PaymentMethod: s.PaymentMethod,
				Status:        s.Status,
				Channel:       s.Channel,
				TotalAmount:   s.TotalAmount,
				TaxAmount:     s.TaxAmount,
				Discount:      s.Discount,
				CreatedAt:     s.CreatedAt,
			})
		}
	})
	return out, nil
}

// ListSaleLines devuelve las líneas de las ventas filtradas con producto y categoría.
// Con ProductID solo se devuelven las líneas de ese producto.
func (r *AnalyticsRepo) ListSaleLines(_ context.Context, f repository.SaleFilter) ([]repository.SaleLineFact, error) {
	out := make([]repository.SaleLineFact, 0)
	r.read(func(st *state) {
		for _, s := range sortedSales(st.sales) {
			if !matchSale(st, f, s) {
				continue
			}
			for _, it := range st.items {
				if it.SaleID != s.ID || (f.ProductID != nil && it.ProductID != *f.ProductID) {
					continue
				}
				p := st.products[it.ProductID]
				out = append(out, repository.SaleLineFact{
					SaleID:       s.ID,
					ProductID:    it.ProductID,
					ProductName:  p.Name,
					CategoryID:   p.CategoryID,
					CategoryName: st.categories[p.CategoryID].Name,
					Quantity:     it.Quantity,
					Price:        it.Price,
					Discount:     it.Discount,
					Tax:          it.Tax,
					Cost:         it.Cost,
					ProductCost:  p.Cost,
					CreatedAt:    s.CreatedAt,
				})
			}
		}
	})
	return out, nil
}

// ListExpenses devuelve los gastos filtrados en orden de fecha.
func (r *AnalyticsRepo) ListExpenses(_ context.Context, f repository.ExpenseFilter) ([]repository.ExpenseFact, error) {
	out := make([]repository.ExpenseFact, 0)
	r.read(func(st *state) {
		for _, e := range st.expenses {
			if e.OwnerID != f.OwnerID || !repository.WithinRange(e.Date, f.From, f.To) {
				continue
			}
			if f.Status != nil && e.Status != *f.Status {
				continue
			}
			if f.CategoryID != nil && e.CategoryID != *f.CategoryID {
				continue
			}
			out = append(out, repository.ExpenseFact{
				ID:           e.ID,
				CategoryID:   e.CategoryID,
				CategoryName: st.categories[e.CategoryID].Name,
				Amount:       e.Amount,
				Date:         e.Date,
				Status:       e.Status,
			})
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListInvoices devuelve las facturas filtradas.
func (r *AnalyticsRepo) ListInvoices(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	out := make([]*entity.Invoice, 0)
	r.read(func(st *state) {
		for _, inv := range st.invoices {
			if inv.OwnerID != f.OwnerID {
				continue
			}
			if f.CreatedBefore != nil && !inv.CreatedAt.Before(*f.CreatedBefore) {
				continue
			}
			if f.PaidFrom != nil || f.PaidTo != nil {
				if inv.PaidAt == nil || !repository.WithinRange(*inv.PaidAt, f.PaidFrom, f.PaidTo) {
					continue
				}
			}
			if f.IsPaid != nil && inv.IsPaid != *f.IsPaid {
				continue
			}
			inv := inv
			out = append(out, &inv)
		}
	})
	return out, nil
}

// ListProducts devuelve los productos filtrados ordenados por nombre.
func (r *AnalyticsRepo) ListProducts(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0)
	r.read(func(st *state) {
		for _, p := range st.products {
			if p.OwnerID != f.OwnerID {
				continue
			}
			if f.MaxStock != nil && p.Stock > *f.MaxStock {
				continue
			}
			if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
				continue
			}
			p := p
			out = append(out, &p)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
