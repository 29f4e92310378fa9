package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO del propietario.
//
// Tres consultas en paralelo:
//  1. ListSales(hoy)        → TodaySales + TodayCount
//  2. ListSales(mes)        → MonthlySales + MonthlyCount
//  3. ListSaleLines(mes)    → MonthlyMargin + TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context, ownerID string) (*dto.DashboardSummaryDTO, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: [00:00, mañana 00:00). Mes en curso: [día 1 00:00, mañana 00:00).
	todayStart := period.StartOfDay(now)
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las 3 consultas ────────────────────────────
	type salesResult struct {
		total decimal.Decimal
		count int
		err   error
	}
	type linesResult struct {
		lines []repository.SaleLineFact
		err   error
	}

	todayCh := make(chan salesResult, 1)
	monthCh := make(chan salesResult, 1)
	linesCh := make(chan linesResult, 1)

	go func() {
		total, count, err := uc.salesTotal(ctx, ownerID, todayStart, todayEnd)
		todayCh <- salesResult{total, count, err}
	}()
	go func() {
		total, count, err := uc.salesTotal(ctx, ownerID, monthStart, todayEnd)
		monthCh <- salesResult{total, count, err}
	}()
	go func() {
		lines, err := uc.analyticsRepo.ListSaleLines(ctx, repository.SaleFilter{OwnerID: ownerID, From: &monthStart, To: &todayEnd})
		linesCh <- linesResult{lines, err}
	}()

	today := <-todayCh
	month := <-monthCh
	lines := <-linesCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if lines.err != nil {
		return nil, fmt.Errorf("dashboard: líneas del mes: %w", lines.err)
	}

	// ── Margen del mes ─────────────────────────────────────────────────────────
	revenue, cogs := decimal.Zero, decimal.Zero
	for _, l := range lines.lines {
		revenue = revenue.Add(l.Revenue())
		cogs = cogs.Add(l.COGS())
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:    today.total.Round(2),
		TodayCount:    today.count,
		MonthlySales:  month.total.Round(2),
		MonthlyCount:  month.count,
		MonthlyMargin: revenue.Sub(cogs).Round(2),
		TopProducts:   topProducts(lines.lines, dashboardTopProducts),
		DateLabel:     period.MonthLabel(now),
	}, nil
}

func (uc *DashboardUseCase) salesTotal(ctx context.Context, ownerID string, from, to time.Time) (decimal.Decimal, int, error) {
	rows, err := uc.analyticsRepo.ListSales(ctx, repository.SaleFilter{OwnerID: ownerID, From: &from, To: &to})
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, s := range rows {
		total = total.Add(s.TotalAmount)
	}
	return total, len(rows), nil
}
