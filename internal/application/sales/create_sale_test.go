package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	ownerA = "owner-a"
	ownerB = "owner-b"
)

var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) FetchJSON(ctx context.Context, _, _ string, _ any, loader func(context.Context) (any, error)) error {
	_, err := loader(ctx)
	return err
}

func (c *fakeCache) Invalidate(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ownerID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ports.SaleCreatedEvent
	err    error
}

func (p *fakePublisher) PublishSaleCreated(_ context.Context, ev ports.SaleCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	store  *memory.Store
	uc     *sales.SaleUseCase
	cache  *fakeCache
	events *fakePublisher
	clock  *time.Time
}

// newFixture prepara dos productos y un cliente del propietario A, y un producto del propietario B.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cost := dec("6")
	store.AddProduct(entity.Product{ID: "p-1", OwnerID: ownerA, Name: "Café", Price: dec("10"), Cost: &cost, Stock: 5})
	store.AddProduct(entity.Product{ID: "p-2", OwnerID: ownerA, Name: "Té", Price: dec("4.50"), Stock: 2})
	store.AddProduct(entity.Product{ID: "p-b", OwnerID: ownerB, Name: "Ajeno", Price: dec("1"), Stock: 100})
	store.AddCustomer(entity.Customer{ID: "c-1", OwnerID: ownerA, Name: "Ana"})
	store.AddCustomer(entity.Customer{ID: "c-b", OwnerID: ownerB, Name: "Beto"})

	clock := fixedNow
	f := &fixture{store: store, cache: &fakeCache{}, events: &fakePublisher{}, clock: &clock}
	f.uc = sales.NewSaleUseCase(sales.Deps{
		TxRunner:     store,
		CustomerRepo: store.Customers(),
		SaleRepo:     store.Sales(),
		InvoiceRepo:  store.Invoices(),
		Cache:        f.cache,
		Events:       f.events,
		Logger:       zerolog.Nop(),
		Now:          func() time.Time { return *f.clock },
	})
	return f
}

func item(productID string, qty int) dto.CreateSaleItemRequest {
	return dto.CreateSaleItemRequest{ProductID: productID, Quantity: qty}
}

func creditSale(items ...dto.CreateSaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{CustomerID: "c-1", PaymentMethod: entity.PaymentCredit, Items: items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_Contado_DescuentaStockUnaSolaVez(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateSale(context.Background(), ownerA, dto.CreateSaleRequest{
		Items:   []dto.CreateSaleItemRequest{item("p-1", 2), item("p-2", 1)},
		TaxRate: dec("10"),
		Channel: "in-store",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.Equal(t, entity.PaymentCash, resp.PaymentMethod)
	assert.Nil(t, resp.Invoice)
	assert.Equal(t, 3, f.store.Stock("p-1"))
	assert.Equal(t, 1, f.store.Stock("p-2"))

	// subtotales 20 y 4.50; impuesto 10% = 2.00 + 0.45
	assert.True(t, dec("2.45").Equal(resp.TaxAmount), "taxAmount es la suma de impuestos: %s", resp.TaxAmount)
	assert.True(t, dec("26.95").Equal(resp.TotalAmount), "totalAmount: %s", resp.TotalAmount)
	require.Len(t, resp.Items, 2)
	assert.True(t, dec("10").Equal(resp.Items[0].Price))
	require.NotNil(t, resp.Items[0].Cost)
	assert.True(t, dec("6").Equal(*resp.Items[0].Cost))
	assert.Nil(t, resp.Items[1].Cost)
}

func TestCreateSale_ImpuestoYDescuentoExplicitos(t *testing.T) {
	f := newFixture(t)
	tax := dec("1.25")

	resp, err := f.uc.CreateSale(context.Background(), ownerA, dto.CreateSaleRequest{
		Items:   []dto.CreateSaleItemRequest{{ProductID: "p-1", Quantity: 1, Discount: dec("2"), Tax: &tax}},
		TaxRate: dec("19"),
	})
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(resp.Discount))
	assert.True(t, dec("1.25").Equal(resp.TaxAmount))
	assert.True(t, dec("9.25").Equal(resp.TotalAmount))
}

func TestCreateSale_Credito_GeneraFacturaPendiente(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateSale(context.Background(), ownerA, creditSale(item("p-1", 1)))
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusPending, resp.Status)
	require.NotNil(t, resp.Invoice)
	assert.Equal(t, "INV-20261014-001", resp.Invoice.InvoiceNumber)
	assert.True(t, resp.TotalAmount.Equal(resp.Invoice.AmountDue))
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), resp.Invoice.DueDate)
	assert.Equal(t, entity.InvoiceStatusUnpaid, resp.Invoice.Status)
	assert.False(t, resp.Invoice.IsPaid)
}

func TestCreateSale_Credito_RespetaDueDate(t *testing.T) {
	f := newFixture(t)
	in := creditSale(item("p-1", 1))
	in.DueDate = "2026-11-30"

	resp, err := f.uc.CreateSale(context.Background(), ownerA, in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC), resp.Invoice.DueDate)
}

func TestCreateSale_ConsecutivoDeFacturasPorDiaYPropietario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		resp, err := f.uc.CreateSale(ctx, ownerA, creditSale(item("p-1", 1)))
		require.NoError(t, err)
		numbers = append(numbers, resp.Invoice.InvoiceNumber)
	}
	// Las ventas de contado no consumen consecutivo.
	_, err := f.uc.CreateSale(ctx, ownerA, dto.CreateSaleRequest{Items: []dto.CreateSaleItemRequest{item("p-2", 1)}})
	require.NoError(t, err)
	resp, err := f.uc.CreateSale(ctx, ownerA, creditSale(item("p-1", 1)))
	require.NoError(t, err)
	numbers = append(numbers, resp.Invoice.InvoiceNumber)

	assert.Equal(t, []string{"INV-20261014-001", "INV-20261014-002", "INV-20261014-003", "INV-20261014-004"}, numbers)

	// Otro propietario empieza su propio consecutivo.
	other, err := f.uc.CreateSale(ctx, ownerB, dto.CreateSaleRequest{
		CustomerID: "c-b", PaymentMethod: entity.PaymentCredit, Items: []dto.CreateSaleItemRequest{item("p-b", 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20261014-001", other.Invoice.InvoiceNumber)

	// Al día siguiente se reinicia.
	*f.clock = fixedNow.AddDate(0, 0, 1)
	next, err := f.uc.CreateSale(ctx, ownerA, creditSale(item("p-2", 1)))
	require.NoError(t, err)
	assert.Equal(t, "INV-20261015-001", next.Invoice.InvoiceNumber)
}

func TestCreateSale_StockInsuficiente_NoAplicaNada(t *testing.T) {
	f := newFixture(t)

	// La primera línea es válida; la segunda supera el stock de p-2.
	_, err := f.uc.CreateSale(context.Background(), ownerA, creditSale(item("p-1", 2), item("p-2", 3)))
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p-2", stockErr.ProductID)
	assert.Equal(t, "Té", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 5, f.store.Stock("p-1"), "el stock de la línea válida no debe cambiar")
	assert.Equal(t, 2, f.store.Stock("p-2"))
	salesN, itemsN, invoicesN := f.store.Counts()
	assert.Zero(t, salesN)
	assert.Zero(t, itemsN)
	assert.Zero(t, invoicesN)
	assert.Empty(t, f.cache.invalidated)
	assert.Empty(t, f.events.events)
}

func TestCreateSale_LineasRepetidasSeValidanSumadas(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateSale(context.Background(), ownerA, dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{item("p-2", 1), item("p-2", 2)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.store.Stock("p-2"))

	resp, err := f.uc.CreateSale(context.Background(), ownerA, dto.CreateSaleRequest{
		Items: []dto.CreateSaleItemRequest{item("p-2", 1), item("p-2", 1)},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 0, f.store.Stock("p-2"))
}

func TestCreateSale_ProductoInexistenteOAjeno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateSale(ctx, ownerA, dto.CreateSaleRequest{Items: []dto.CreateSaleItemRequest{item("p-1", 1), item("nope", 1)}})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)

	_, err = f.uc.CreateSale(ctx, ownerA, dto.CreateSaleRequest{Items: []dto.CreateSaleItemRequest{item("p-b", 1)}})
	var ua *domain.UnauthorizedError
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, 100, f.store.Stock("p-b"))
	assert.Equal(t, 5, f.store.Stock("p-1"))
}

func TestCreateSale_ClienteInexistenteOAjeno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := creditSale(item("p-1", 1))
	in.CustomerID = "c-x"
	_, err := f.uc.CreateSale(ctx, ownerA, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in.CustomerID = "c-b"
	_, err = f.uc.CreateSale(ctx, ownerA, in)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	neg := dec("-1")

	cases := map[string]dto.CreateSaleRequest{
		"sin líneas":          {},
		"método desconocido":  {PaymentMethod: "BARTER", Items: []dto.CreateSaleItemRequest{item("p-1", 1)}},
		"crédito sin cliente": {PaymentMethod: entity.PaymentCredit, Items: []dto.CreateSaleItemRequest{item("p-1", 1)}},
		"cantidad cero":       {Items: []dto.CreateSaleItemRequest{item("p-1", 0)}},
		"sin producto":        {Items: []dto.CreateSaleItemRequest{item("", 1)}},
		"descuento negativo":  {Items: []dto.CreateSaleItemRequest{{ProductID: "p-1", Quantity: 1, Discount: neg}}},
		"impuesto negativo":   {Items: []dto.CreateSaleItemRequest{{ProductID: "p-1", Quantity: 1, Tax: &neg}}},
		"descuento excesivo":  {Items: []dto.CreateSaleItemRequest{{ProductID: "p-1", Quantity: 1, Discount: dec("11")}}},
		"tasa fuera de rango": {TaxRate: dec("150"), Items: []dto.CreateSaleItemRequest{item("p-1", 1)}},
		"dueDate inválido":    {CustomerID: "c-1", PaymentMethod: entity.PaymentCredit, DueDate: "mañana", Items: []dto.CreateSaleItemRequest{item("p-1", 1)}},
	}
	for name, in := range cases {
		_, err := f.uc.CreateSale(ctx, ownerA, in)
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr, name)
	}
	assert.Equal(t, 5, f.store.Stock("p-1"))

	_, err := f.uc.CreateSale(ctx, "", dto.CreateSaleRequest{Items: []dto.CreateSaleItemRequest{item("p-1", 1)}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateSale_Concurrente_NuncaSobregiraStock(t *testing.T) {
	f := newFixture(t)
	const buyers = 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateSale(context.Background(), ownerA, creditSale(item("p-1", 1)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, buyers-5, rejected)
	assert.Equal(t, 0, f.store.Stock("p-1"))

	numbers := f.store.InvoiceNumbers()
	require.Len(t, numbers, 5)
	seen := make(map[string]bool)
	for _, n := range numbers {
		assert.False(t, seen[n], "consecutivo duplicado %s", n)
		seen[n] = true
	}
	for _, want := range []string{"INV-20261014-001", "INV-20261014-005"} {
		assert.True(t, seen[want], want)
	}
}

func TestCreateSale_EfectosPosterioresAlCommit(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker caído")

	resp, err := f.uc.CreateSale(context.Background(), ownerA, creditSale(item("p-1", 1)))
	require.NoError(t, err, "un fallo al publicar no debe revertir la venta")

	assert.Equal(t, []string{ownerA}, f.cache.invalidated)
	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, resp.ID, ev.SaleID)
	assert.Equal(t, "INV-20261014-001", ev.InvoiceNumber)
	assert.Equal(t, []ports.SaleCreatedItem{{ProductID: "p-1", Quantity: 1}}, ev.Items)
}

func TestGetSale_PrecioCongeladoYAislamiento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.CreateSale(ctx, ownerA, creditSale(item("p-1", 1)))
	require.NoError(t, err)

	// Cambiar el precio vigente no altera la línea ya vendida.
	cost := dec("6")
	f.store.AddProduct(entity.Product{ID: "p-1", OwnerID: ownerA, Name: "Café", Price: dec("99"), Cost: &cost, Stock: 4})

	got, err := f.uc.GetSale(ctx, ownerA, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, dec("10").Equal(got.Items[0].Price))
	require.NotNil(t, got.Invoice)
	assert.Equal(t, created.Invoice.InvoiceNumber, got.Invoice.InvoiceNumber)

	_, err = f.uc.GetSale(ctx, ownerB, created.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.GetSale(ctx, ownerA, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-20240301-007", sales.FormatInvoiceNumber(time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), 7))
	assert.Equal(t, "INV-20240301-1000", sales.FormatInvoiceNumber(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1000))
}
