// Package statements construye los estados financieros (resultados, flujo de caja y
// balance general) a partir de ventas, facturas, gastos y productos.
//
// No existe un libro contable: el flujo de caja y el balance usan estimaciones fijas
// (pago a proveedores = 80% del COGS, caja inicial = 0, sin activos fijos ni deuda).
package statements

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/domain/timeseries"
)

const uncategorized = "Sin categoría"

var (
	hundred       = decimal.NewFromInt(100)
	supplierShare = decimal.NewFromFloat(0.8) // fracción del COGS pagada a proveedores

	tracer = otel.Tracer("ventas-api/statements")
)

// StatementsUseCase genera los estados financieros de un propietario.
type StatementsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	metrics       ports.MetricsRecorder
	log           zerolog.Logger
	now           func() time.Time
}

// NewStatementsUseCase construye el caso de uso. metrics puede ser nil.
func NewStatementsUseCase(analyticsRepo repository.AnalyticsRepository, metrics ports.MetricsRecorder, log zerolog.Logger) *StatementsUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StatementsUseCase{analyticsRepo: analyticsRepo, metrics: metrics, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *StatementsUseCase) WithClock(now func() time.Time) *StatementsUseCase {
	uc.now = now
	return uc
}

func (uc *StatementsUseCase) financialPeriod(q dto.StatementQuery) (period.FinancialPeriod, error) {
	return period.NewFinancial(uc.now(), period.FinancialRequest{
		Type:      q.PeriodType,
		Year:      q.Year,
		Month:     q.Month,
		Quarter:   q.Quarter,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
}

func (uc *StatementsUseCase) observe(report string, start time.Time) {
	d := time.Since(start)
	uc.metrics.ObserveReport(report, d)
	uc.log.Debug().Str("report", report).Dur("elapsed", d).Msg("estado financiero generado")
}

// ── Carga de hechos ──────────────────────────────────────────────────────────

// facts son los hechos de un rango [from, to). from nil significa desde el inicio.
type facts struct {
	sales    []repository.SaleFact
	lines    []repository.SaleLineFact
	expenses []repository.ExpenseFact // solo APPROVED
	payments []*entity.Invoice        // facturas con pago recibido en el rango
}

// loadFacts consulta en paralelo ventas, líneas, gastos aprobados y, si withPayments,
// las facturas pagadas en el rango.
func (uc *StatementsUseCase) loadFacts(ctx context.Context, ownerID string, from, to *time.Time, withPayments bool) (*facts, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	out := &facts{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListSales(gctx, repository.SaleFilter{OwnerID: ownerID, From: from, To: to})
		if err != nil {
			return fmt.Errorf("statements: ventas: %w", err)
		}
		out.sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListSaleLines(gctx, repository.SaleFilter{OwnerID: ownerID, From: from, To: to})
		if err != nil {
			return fmt.Errorf("statements: líneas de venta: %w", err)
		}
		out.lines = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListExpenses(gctx, repository.ExpenseFilter{
			OwnerID: ownerID, From: from, To: to, Status: repository.Ptr(entity.ExpenseStatusApproved),
		})
		if err != nil {
			return fmt.Errorf("statements: gastos: %w", err)
		}
		out.expenses = approvedOnly(rows)
		return nil
	})
	if withPayments {
		g.Go(func() error {
			rows, err := uc.analyticsRepo.ListInvoices(gctx, repository.InvoiceFilter{OwnerID: ownerID, PaidFrom: from, PaidTo: to})
			if err != nil {
				return fmt.Errorf("statements: facturas: %w", err)
			}
			out.payments = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// approvedOnly descarta cualquier gasto que no esté APPROVED, aunque el repositorio ya filtre.
func approvedOnly(rows []repository.ExpenseFact) []repository.ExpenseFact {
	out := make([]repository.ExpenseFact, 0, len(rows))
	for _, e := range rows {
		if e.Status == entity.ExpenseStatusApproved {
			out = append(out, e)
		}
	}
	return out
}

// ── Cálculos comunes ─────────────────────────────────────────────────────────

func (f *facts) totalCOGS() decimal.Decimal {
	total := decimal.Zero
	for _, l := range f.lines {
		total = total.Add(l.COGS())
	}
	return total
}

func (f *facts) totalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range f.expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// cashFromSales suma las ventas cobradas al momento (todo excepto CREDIT).
func (f *facts) cashFromSales() decimal.Decimal {
	total := decimal.Zero
	for _, s := range f.sales {
		if s.PaymentMethod != entity.PaymentCredit {
			total = total.Add(s.TotalAmount)
		}
	}
	return total
}

func (f *facts) collectedFromCredit() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range f.payments {
		total = total.Add(inv.PaidAmount)
	}
	return total
}

// operatingCash estima el flujo operativo: cobros − 80% del COGS − gastos aprobados.
func (f *facts) operatingCash() dto.OperatingCashDTO {
	fromSales := f.cashFromSales()
	collected := f.collectedFromCredit()
	suppliers := f.totalCOGS().Mul(supplierShare)
	expenses := f.totalExpenses()
	return dto.OperatingCashDTO{
		CashFromSales:       fromSales.Round(2),
		CollectedFromCredit: collected.Round(2),
		CashToSuppliers:     suppliers.Round(2),
		CashForExpenses:     expenses.Round(2),
		NetOperating:        fromSales.Add(collected).Sub(suppliers).Sub(expenses).Round(2),
	}
}

// byCategory agrupa montos por categoría en orden descendente, con su porcentaje sobre base.
func byCategory(keyed []timeseries.KeyedFact, base decimal.Decimal) []dto.CategoryAmountDTO {
	groups := timeseries.TopN(timeseries.GroupBy(keyed), timeseries.BySum, 0)
	out := make([]dto.CategoryAmountDTO, 0, len(groups))
	for _, g := range groups {
		name := g.Label
		if name == "" {
			name = uncategorized
		}
		out = append(out, dto.CategoryAmountDTO{
			CategoryID:   g.Key,
			CategoryName: name,
			Amount:       g.Sum.Round(2),
			Percentage:   pct(g.Sum, base),
		})
	}
	return out
}

// pct devuelve part/base×100 redondeado a 2 decimales; 0 si base es 0.
func pct(part, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return part.Div(base).Mul(hundred).Round(2)
}

// growth devuelve la variación porcentual de prev a cur; 0 si prev es 0.
func growth(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(2)
}

// ratio devuelve a/b redondeado a 2 decimales; 0 si b es 0.
func ratio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b).Round(2)
}

func toPeriodDTO(p period.FinancialPeriod) dto.FinancialPeriodDTO {
	return dto.FinancialPeriodDTO{
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		PeriodName: p.PeriodName,
		PeriodType: string(p.PeriodType),
	}
}
