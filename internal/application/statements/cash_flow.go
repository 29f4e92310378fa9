package statements

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/timeseries"
)

// CashFlow genera el flujo de caja estimado del período con su tendencia mensual.
// Inversión y financiación son 0 y la caja inicial es 0.
func (uc *StatementsUseCase) CashFlow(ctx context.Context, ownerID string, q dto.StatementQuery) (*dto.CashFlowDTO, error) {
	ctx, span := tracer.Start(ctx, "statements.CashFlow")
	defer span.End()
	defer uc.observe("cash_flow", time.Now())

	fp, err := uc.financialPeriod(q)
	if err != nil {
		return nil, err
	}
	f, err := uc.loadFacts(ctx, ownerID, &fp.StartDate, &fp.EndDate, true)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	operating := f.operatingCash()
	beginning := decimal.Zero
	netChange := operating.NetOperating
	return &dto.CashFlowDTO{
		Period:        toPeriodDTO(fp),
		Operating:     operating,
		NetInvesting:  decimal.Zero,
		NetFinancing:  decimal.Zero,
		NetChange:     netChange,
		BeginningCash: beginning,
		EndingCash:    beginning.Add(netChange),
		MonthlyTrend:  monthlyTrend(fp, f),
	}, nil
}

// monthlyTrend reparte entradas y salidas por mes; incluye todos los meses del período.
func monthlyTrend(fp period.FinancialPeriod, f *facts) []dto.CashTrendDTO {
	inflows := make([]timeseries.Fact, 0, len(f.sales)+len(f.payments))
	for _, s := range f.sales {
		if s.PaymentMethod != entity.PaymentCredit {
			inflows = append(inflows, timeseries.Fact{Timestamp: s.CreatedAt, Value: s.TotalAmount})
		}
	}
	for _, inv := range f.payments {
		if inv.PaidAt != nil {
			inflows = append(inflows, timeseries.Fact{Timestamp: *inv.PaidAt, Value: inv.PaidAmount})
		}
	}
	outflows := make([]timeseries.Fact, 0, len(f.lines)+len(f.expenses))
	for _, l := range f.lines {
		outflows = append(outflows, timeseries.Fact{Timestamp: l.CreatedAt, Value: l.COGS().Mul(supplierShare)})
	}
	for _, e := range f.expenses {
		outflows = append(outflows, timeseries.Fact{Timestamp: e.Date, Value: e.Amount})
	}

	in := totalsByKey(timeseries.Aggregate(inflows, timeseries.Monthly))
	out := totalsByKey(timeseries.Aggregate(outflows, timeseries.Monthly))

	trend := make([]dto.CashTrendDTO, 0)
	for m := timeseries.Monthly.Floor(fp.StartDate); m.Before(fp.EndDate); m = timeseries.Monthly.Advance(m, 1) {
		key := timeseries.Monthly.Key(m)
		inflow, outflow := in[key], out[key]
		trend = append(trend, dto.CashTrendDTO{
			Period:  key,
			Inflow:  inflow.Round(2),
			Outflow: outflow.Round(2),
			Net:     inflow.Sub(outflow).Round(2),
		})
	}
	return trend
}

func totalsByKey(s timeseries.Series) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s))
	for _, b := range s {
		out[b.Key] = b.Total
	}
	return out
}
