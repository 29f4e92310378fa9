// Package memory implementa los puertos de persistencia en memoria, con transacciones
// por snapshot. Se usa en pruebas y en el modo demo de la CLI.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

type state struct {
	products   map[string]entity.Product
	customers  map[string]entity.Customer
	categories map[string]entity.Category
	sales      []entity.Sale
	items      []entity.SaleItem
	invoices   []entity.Invoice
	expenses   []entity.Expense
}

func newState() *state {
	return &state{
		products:   make(map[string]entity.Product),
		customers:  make(map[string]entity.Customer),
		categories: make(map[string]entity.Category),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	c.sales = append([]entity.Sale(nil), s.sales...)
	c.items = append([]entity.SaleItem(nil), s.items...)
	c.invoices = append([]entity.Invoice(nil), s.invoices...)
	c.expenses = append([]entity.Expense(nil), s.expenses...)
	return c
}

// Store guarda todo el estado detrás de un mutex. Una transacción toma el mutex durante
// toda su ejecución, lo que equivale a bloquear todas las filas que toca.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// base resuelve el estado sobre el que opera un repositorio: el de la tx en curso o el
// compartido bajo el mutex.
type base struct {
	store *Store
	tx    *state
}

func (b base) read(fn func(st *state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	fn(b.store.st)
}

// ── Transacciones ────────────────────────────────────────────────────────────

// RunSale ejecuta fn sobre una copia del estado y la confirma solo si fn no falla.
func (s *Store) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	b := base{store: s, tx: tx}
	if err := fn(&ProductRepo{b}, &SaleRepo{b}, &InvoiceRepo{b}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// ── Repositorios fuera de transacción ────────────────────────────────────────

// Products devuelve el repositorio de productos sobre el estado confirmado.
func (s *Store) Products() *ProductRepo { return &ProductRepo{base{store: s}} }

// Customers devuelve el repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{base{store: s}} }

// Sales devuelve el repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{base{store: s}} }

// Invoices devuelve el repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{base{store: s}} }

// Analytics devuelve las consultas de solo lectura para reportes.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{base{store: s}} }

// ── Carga de datos ───────────────────────────────────────────────────────────

// AddProduct registra o reemplaza un producto.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// AddCustomer registra o reemplaza un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// AddCategory registra o reemplaza una categoría.
func (s *Store) AddCategory(c entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.categories[c.ID] = c
}

// AddSale registra una venta histórica con sus líneas, sin tocar el stock.
func (s *Store) AddSale(sale entity.Sale, items ...entity.SaleItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sales = append(s.st.sales, sale)
	for _, it := range items {
		it.SaleID = sale.ID
		s.st.items = append(s.st.items, it)
	}
}

// AddInvoice registra una factura.
func (s *Store) AddInvoice(inv entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.invoices = append(s.st.invoices, inv)
}

// AddExpense registra un gasto.
func (s *Store) AddExpense(e entity.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.expenses = append(s.st.expenses, e)
}

// Stock devuelve el stock actual de un producto (0 si no existe).
func (s *Store) Stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[productID].Stock
}

// Counts devuelve el número de ventas, líneas y facturas persistidas.
func (s *Store) Counts() (sales, items, invoices int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.sales), len(s.st.items), len(s.st.invoices)
}

// InvoiceNumbers devuelve los consecutivos de factura en orden de creación.
func (s *Store) InvoiceNumbers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.st.invoices))
	for _, inv := range s.st.invoices {
		out = append(out, inv.InvoiceNumber)
	}
	return out
}

func sortedSales(sales []entity.Sale) []entity.Sale {
	out := append([]entity.Sale(nil), sales...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
