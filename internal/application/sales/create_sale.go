// Package sales implementa la transacción de venta: validación y descuento atómico de stock,
// persistencia de la venta con sus líneas y factura para las ventas a crédito.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

const defaultDueDays = 30

var hundred = decimal.NewFromInt(100)

var tracer = otel.Tracer("ventas-api/sales")

// Deps colaboradores de SaleUseCase. Cache y Events son opcionales (nil los desactiva).
type Deps struct {
	TxRunner       TxRunner
	CustomerRepo   repository.CustomerRepository
	SaleRepo       repository.SaleRepository
	InvoiceRepo    repository.InvoiceRepository
	Cache          ports.AnalyticsCache
	Events         ports.SaleEventPublisher
	Metrics        ports.MetricsRecorder
	Logger         zerolog.Logger
	DefaultDueDays int              // días de plazo de la factura si no llega dueDate
	Now            func() time.Time // reloj inyectable; por defecto time.Now
}

// SaleUseCase crea y consulta ventas.
type SaleUseCase struct {
	txRunner       TxRunner
	customerRepo   repository.CustomerRepository
	saleRepo       repository.SaleRepository
	invoiceRepo    repository.InvoiceRepository
	cache          ports.AnalyticsCache
	events         ports.SaleEventPublisher
	metrics        ports.MetricsRecorder
	log            zerolog.Logger
	defaultDueDays int
	now            func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(d Deps) *SaleUseCase {
	uc := &SaleUseCase{
		txRunner:       d.TxRunner,
		customerRepo:   d.CustomerRepo,
		saleRepo:       d.SaleRepo,
		invoiceRepo:    d.InvoiceRepo,
		cache:          d.Cache,
		events:         d.Events,
		metrics:        d.Metrics,
		log:            d.Logger,
		defaultDueDays: d.DefaultDueDays,
		now:            d.Now,
	}
	if uc.metrics == nil {
		uc.metrics = ports.NopMetrics{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.defaultDueDays <= 0 {
		uc.defaultDueDays = defaultDueDays
	}
	return uc
}

// saleInput es la solicitud ya validada y normalizada.
type saleInput struct {
	method     string
	taxRate    decimal.Decimal
	dueDate    *time.Time
	lines      []dto.CreateSaleItemRequest
	quantities map[string]int // cantidad total pedida por producto
	productIDs []string       // orden ascendente: orden de bloqueo
}

// CreateSale valida el stock, lo descuenta y persiste la venta (y su factura si es a crédito)
// en una sola transacción. Cualquier fallo deja la base sin cambios.
func (uc *SaleUseCase) CreateSale(ctx context.Context, ownerID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	ctx, span := tracer.Start(ctx, "sales.create", trace.WithAttributes(
		attribute.String("owner.id", ownerID),
		attribute.Int("sale.items", len(in.Items)),
	))
	defer span.End()

	resp, err := uc.createSale(ctx, ownerID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.SaleRejected(rejectReason(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("sale.id", resp.ID), attribute.String("sale.status", resp.Status))
	return resp, nil
}

func (uc *SaleUseCase) createSale(ctx context.Context, ownerID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	req, err := validate(ownerID, in)
	if err != nil {
		return nil, err
	}

	// Validar cliente y que sea del propietario (fuera de la tx, solo lectura)
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("get customer: %w", err)
		}
		if customer == nil {
			return nil, &domain.NotFoundError{Entity: "cliente", ID: in.CustomerID}
		}
		if customer.OwnerID != ownerID {
			return nil, &domain.UnauthorizedError{Entity: "cliente", ID: in.CustomerID}
		}
	}

	now := uc.now()
	status := entity.SaleStatusCompleted
	if req.method == entity.PaymentCredit {
		status = entity.SaleStatusPending
	}
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		CustomerID:     in.CustomerID,
		PaymentMethod:  req.method,
		Status:         status,
		Channel:        in.Channel,
		Notes:          in.Notes,
		CurrencyCode:   in.CurrencyCode,
		CurrencySymbol: in.CurrencySymbol,
		CreatedAt:      now,
	}
	var items []*entity.SaleItem
	var invoice *entity.Invoice

	err = uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		// 1) Bloquear cada producto y validar stock antes de modificar nada.
		locked := make(map[string]*entity.Product, len(req.productIDs))
		for _, id := range req.productIDs {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("lock product: %w", err)
			}
			if p == nil {
				return &domain.NotFoundError{Entity: "producto", ID: id}
			}
			if p.OwnerID != ownerID {
				return &domain.UnauthorizedError{Entity: "producto", ID: id}
			}
			if need := req.quantities[id]; p.Stock < need {
				return &domain.InsufficientStockError{ProductID: id, ProductName: p.Name, Requested: need, Available: p.Stock}
			}
			locked[id] = p
		}

		// 2) Líneas con precio y costo congelados; totales de la cabecera.
		var err error
		items, err = buildItems(sale, req, locked, now)
		if err != nil {
			return err
		}

		// 3) Un único descuento de stock por producto.
		for _, id := range req.productIDs {
			if err := productRepo.UpdateStock(ctx, id, locked[id].Stock-req.quantities[id]); err != nil {
				return fmt.Errorf("update stock: %w", err)
			}
		}

		// 4) Cabecera y líneas.
		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create sale item: %w", err)
			}
		}

		// 5) Factura para ventas a crédito, consecutivo por (propietario, día).
		if sale.Status != entity.SaleStatusPending {
			return nil
		}
		count, err := invoiceRepo.CountForDay(ctx, ownerID, now)
		if err != nil {
			return fmt.Errorf("count invoices: %w", err)
		}
		due := now.AddDate(0, 0, uc.defaultDueDays)
		if req.dueDate != nil {
			due = *req.dueDate
		}
		invoice = &entity.Invoice{
			ID:            uuid.New().String(),
			OwnerID:       ownerID,
			SaleID:        sale.ID,
			CustomerID:    sale.CustomerID,
			InvoiceNumber: FormatInvoiceNumber(now, count+1),
			AmountDue:     sale.TotalAmount,
			DueDate:       due,
			Status:        entity.InvoiceStatusUnpaid,
			PaidAmount:    decimal.Zero,
			CreatedAt:     now,
		}
		if err := invoiceRepo.Create(ctx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, sale, items, invoice)
	return toSaleResponse(sale, items, invoice), nil
}

// GetSale devuelve una venta del propietario con sus líneas y factura.
func (uc *SaleUseCase) GetSale(ctx context.Context, ownerID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if sale == nil {
		return nil, &domain.NotFoundError{Entity: "venta", ID: saleID}
	}
	if sale.OwnerID != ownerID {
		return nil, &domain.UnauthorizedError{Entity: "venta", ID: saleID}
	}
	items, err := uc.saleRepo.ListItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	invoice, err := uc.invoiceRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return toSaleResponse(sale, items, invoice), nil
}

// afterCommit ejecuta efectos posteriores al commit. Sus fallos se registran y no afectan la venta.
func (uc *SaleUseCase) afterCommit(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem, invoice *entity.Invoice) {
	uc.metrics.SaleCreated(sale.PaymentMethod)

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, sale.OwnerID); err != nil {
			uc.log.Warn().Err(err).Str("owner_id", sale.OwnerID).Msg("no se pudo invalidar la caché de analítica")
		}
	}
	if uc.events != nil {
		if err := uc.events.PublishSaleCreated(ctx, toEvent(sale, items, invoice)); err != nil {
			uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo publicar el evento sale.created")
		}
	}
}

func validate(ownerID string, in dto.CreateSaleRequest) (*saleInput, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta requiere al menos una línea")
	}
	method := strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = entity.PaymentCash
	}
	if !entity.IsValidPaymentMethod(method) {
		return nil, domain.NewValidationError("paymentMethod", "método de pago desconocido %q", in.PaymentMethod)
	}
	if method == entity.PaymentCredit && in.CustomerID == "" {
		return nil, domain.NewValidationError("customerId", "una venta a crédito requiere cliente")
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return nil, domain.NewValidationError("taxRate", "debe estar entre 0 y 100")
	}

	req := &saleInput{
		method:     method,
		taxRate:    in.TaxRate,
		lines:      in.Items,
		quantities: make(map[string]int, len(in.Items)),
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case it.ProductID == "":
			return nil, domain.NewValidationError(field+".productId", "requerido")
		case it.Quantity <= 0:
			return nil, domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
		case it.Discount.IsNegative():
			return nil, domain.NewValidationError(field+".discount", "no puede ser negativo")
		case it.Tax != nil && it.Tax.IsNegative():
			return nil, domain.NewValidationError(field+".tax", "no puede ser negativo")
		}
		if _, seen := req.quantities[it.ProductID]; !seen {
			req.productIDs = append(req.productIDs, it.ProductID)
		}
		req.quantities[it.ProductID] += it.Quantity
	}
	sort.Strings(req.productIDs)

	if strings.TrimSpace(in.DueDate) != "" {
		t, _, err := period.ParseDate(in.DueDate, time.UTC)
		if err != nil {
			return nil, domain.NewValidationError("dueDate", "fecha inválida %q", in.DueDate)
		}
		req.dueDate = &t
	}
	return req, nil
}

// buildItems congela precio, descuento, impuesto y costo de cada línea y acumula los totales en sale.
// Impuesto de línea: el explícito, o (subtotal - descuento) × taxRate / 100.
func buildItems(sale *entity.Sale, req *saleInput, products map[string]*entity.Product, now time.Time) ([]*entity.SaleItem, error) {
	total, taxTotal, discountTotal := decimal.Zero, decimal.Zero, decimal.Zero
	items := make([]*entity.SaleItem, 0, len(req.lines))
	for i, l := range req.lines {
		p := products[l.ProductID]
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		discount := l.Discount.Round(2)
		if discount.GreaterThan(subtotal) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].discount", i), "supera el subtotal de la línea")
		}
		tax := subtotal.Sub(discount).Mul(req.taxRate).Div(hundred).Round(2)
		if l.Tax != nil {
			tax = l.Tax.Round(2)
		}
		var cost *decimal.Decimal
		if p.Cost != nil {
			c := *p.Cost
			cost = &c
		}
		items = append(items, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: p.ID,
			Quantity:  l.Quantity,
			Price:     p.Price,
			Discount:  discount,
			Tax:       tax,
			Cost:      cost,
			CreatedAt: now,
		})
		discountTotal = discountTotal.Add(discount)
		taxTotal = taxTotal.Add(tax)
		total = total.Add(subtotal.Sub(discount).Add(tax))
	}
	sale.TotalAmount = total.Round(2)
	sale.TaxAmount = taxTotal
	sale.Discount = discountTotal
	return items, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}
