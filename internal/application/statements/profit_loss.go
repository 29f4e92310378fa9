package statements

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/timeseries"
)

// ProfitLoss genera el estado de resultados del período y lo compara con el período
// anterior de igual duración. La comparación se omite si el período anterior no tiene
// ventas ni gastos aprobados.
func (uc *StatementsUseCase) ProfitLoss(ctx context.Context, ownerID string, q dto.StatementQuery) (*dto.ProfitLossDTO, error) {
	ctx, span := tracer.Start(ctx, "statements.ProfitLoss")
	defer span.End()
	defer uc.observe("profit_loss", time.Now())

	fp, err := uc.financialPeriod(q)
	if err != nil {
		return nil, err
	}
	prevPeriod := fp.Previous()
	span.SetAttributes(attribute.String("period", fp.PeriodName))

	var cur, prev *facts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cur, err = uc.loadFacts(gctx, ownerID, &fp.StartDate, &fp.EndDate, false)
		return err
	})
	g.Go(func() (err error) {
		prev, err = uc.loadFacts(gctx, ownerID, &prevPeriod.StartDate, &prevPeriod.EndDate, false)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := buildProfitLoss(fp, cur)
	if len(prev.sales) > 0 || len(prev.expenses) > 0 {
		before := buildProfitLoss(prevPeriod, prev)
		out.Comparison = &dto.ComparisonDTO{
			PreviousPeriod:    before.Period,
			PreviousRevenue:   before.Revenue.NetRevenue,
			PreviousNetIncome: before.NetIncome,
			RevenueGrowth:     growth(out.Revenue.NetRevenue, before.Revenue.NetRevenue),
			GrossProfitGrowth: growth(out.GrossProfit, before.GrossProfit),
			NetIncomeGrowth:   growth(out.NetIncome, before.NetIncome),
		}
	}
	return out, nil
}

// buildProfitLoss compone el estado de resultados a partir de los hechos del período.
func buildProfitLoss(fp period.FinancialPeriod, f *facts) *dto.ProfitLossDTO {
	// ── Ingresos ───────────────────────────────────────────────────────────────
	totalSales, salesTax, discounts := decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range f.sales {
		totalSales = totalSales.Add(s.TotalAmount)
		salesTax = salesTax.Add(s.TaxAmount)
		discounts = discounts.Add(s.Discount)
	}
	netRevenue := totalSales.Sub(discounts)

	revenueByCat := make([]timeseries.KeyedFact, 0, len(f.lines))
	cogsByCat := make([]timeseries.KeyedFact, 0, len(f.lines))
	for _, l := range f.lines {
		revenueByCat = append(revenueByCat, timeseries.KeyedFact{Key: l.CategoryID, Label: l.CategoryName, Value: l.Revenue()})
		cogsByCat = append(cogsByCat, timeseries.KeyedFact{Key: l.CategoryID, Label: l.CategoryName, Value: l.COGS()})
	}

	// ── Costos y gastos ────────────────────────────────────────────────────────
	cogs := f.totalCOGS()
	grossProfit := netRevenue.Sub(cogs)

	expensesByCat := make([]timeseries.KeyedFact, 0, len(f.expenses))
	for _, e := range f.expenses {
		expensesByCat = append(expensesByCat, timeseries.KeyedFact{Key: e.CategoryID, Label: e.CategoryName, Value: e.Amount})
	}
	expenses := f.totalExpenses()

	operatingIncome := grossProfit.Sub(expenses)
	netIncome := operatingIncome // sin otros ingresos ni gastos modelados

	return &dto.ProfitLossDTO{
		Period: toPeriodDTO(fp),
		Revenue: dto.RevenueSectionDTO{
			TotalSales: totalSales.Round(2),
			SalesTax:   salesTax.Round(2),
			Discounts:  discounts.Round(2),
			NetRevenue: netRevenue.Round(2),
			SalesCount: len(f.sales),
			ByCategory: byCategory(revenueByCat, netRevenue),
		},
		CostOfGoodsSold:   dto.AmountSectionDTO{Total: cogs.Round(2), ByCategory: byCategory(cogsByCat, cogs)},
		GrossProfit:       grossProfit.Round(2),
		OperatingExpenses: dto.AmountSectionDTO{Total: expenses.Round(2), ByCategory: byCategory(expensesByCat, expenses)},
		OperatingIncome:   operatingIncome.Round(2),
		OtherIncome:       decimal.Zero,
		OtherExpenses:     decimal.Zero,
		NetIncome:         netIncome.Round(2),
		Ratios: dto.MarginRatiosDTO{
			GrossMargin:     pct(grossProfit, netRevenue),
			OperatingMargin: pct(operatingIncome, netRevenue),
			NetMargin:       pct(netIncome, netRevenue),
		},
	}
}
