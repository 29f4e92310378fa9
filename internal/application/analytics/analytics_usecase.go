// Package analytics contiene los casos de uso de reportes de ventas: series temporales,
// rankings, desgloses, pronósticos, estacionalidad y el dashboard.
package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/forecast"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/domain/timeseries"
)

const (
	defaultLimit   = 10
	maxLimit       = 100
	defaultHorizon = 3
	maxHorizon     = 36
	noChannelKey   = "sin-canal"
)

var hundred = decimal.NewFromInt(100)

// Config valores por defecto de los parámetros de analítica.
type Config struct {
	DefaultLimit   int
	MaxLimit       int
	DefaultHorizon int
}

// AnalyticsUseCase orquesta las consultas de analítica. Todas filtran por ownerID.
// Si hay caché configurada, los resultados se guardan por propietario y parámetros.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         ports.AnalyticsCache
	metrics       ports.MetricsRecorder
	log           zerolog.Logger
	cfg           Config
	now           func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso. cache y metrics pueden ser nil.
func NewAnalyticsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	cache ports.AnalyticsCache,
	metrics ports.MetricsRecorder,
	log zerolog.Logger,
	cfg Config,
) *AnalyticsUseCase {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = maxLimit
	}
	if cfg.DefaultHorizon <= 0 {
		cfg.DefaultHorizon = defaultHorizon
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AnalyticsUseCase{
		analyticsRepo: analyticsRepo,
		cache:         cache,
		metrics:       metrics,
		log:           log,
		cfg:           cfg,
		now:           time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *AnalyticsUseCase) WithClock(now func() time.Time) *AnalyticsUseCase {
	uc.now = now
	return uc
}

// ── Series temporales ─────────────────────────────────────────────────────────

// SalesOverTime suma el total vendido por período dentro del rango, en orden cronológico.
func (uc *AnalyticsUseCase) SalesOverTime(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.SalesOverTimeDTO, error) {
	var out []dto.SalesOverTimeDTO
	err := uc.cached(ctx, ownerID, "sales_over_time", q, &out, func(ctx context.Context) (any, error) {
		r, g, err := uc.rangeAndGranularity(q, "")
		if err != nil {
			return nil, err
		}
		rows, err := uc.analyticsRepo.ListSales(ctx, saleFilter(ownerID, r))
		if err != nil {
			return nil, fmt.Errorf("analytics: ventas: %w", err)
		}
		return toSeriesDTO(timeseries.Aggregate(saleFacts(rows), g).Sorted()), nil
	})
	return out, err
}

// ExpensesOverTime suma los gastos aprobados por período dentro del rango.
func (uc *AnalyticsUseCase) ExpensesOverTime(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.SalesOverTimeDTO, error) {
	var out []dto.SalesOverTimeDTO
	err := uc.cached(ctx, ownerID, "expenses_over_time", q, &out, func(ctx context.Context) (any, error) {
		r, g, err := uc.rangeAndGranularity(q, "")
		if err != nil {
			return nil, err
		}
		rows, err := uc.analyticsRepo.ListExpenses(ctx, repository.ExpenseFilter{
			OwnerID: ownerID,
			From:    &r.Start,
			To:      &r.End,
			Status:  repository.Ptr(entity.ExpenseStatusApproved),
		})
		if err != nil {
			return nil, fmt.Errorf("analytics: gastos: %w", err)
		}
		facts := make([]timeseries.Fact, 0, len(rows))
		for _, e := range rows {
			if e.Status == entity.ExpenseStatusApproved {
				facts = append(facts, timeseries.Fact{Timestamp: e.Date, Value: e.Amount})
			}
		}
		return toSeriesDTO(timeseries.Aggregate(facts, g).Sorted()), nil
	})
	return out, err
}

// ── Rankings y desgloses ──────────────────────────────────────────────────────

// TopProducts devuelve los productos más vendidos por unidades; los empates conservan
// el orden de primera venta.
func (uc *AnalyticsUseCase) TopProducts(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.TopProductDTO, error) {
	var out []dto.TopProductDTO
	err := uc.cached(ctx, ownerID, "top_products", q, &out, func(ctx context.Context) (any, error) {
		r, err := uc.resolve(q)
		if err != nil {
			return nil, err
		}
		lines, err := uc.analyticsRepo.ListSaleLines(ctx, saleFilter(ownerID, r))
		if err != nil {
			return nil, fmt.Errorf("analytics: líneas de venta: %w", err)
		}
		return topProducts(lines, uc.limit(q.Limit)), nil
	})
	return out, err
}

// SalesByChannel agrupa el total vendido por canal, de mayor a menor.
func (uc *AnalyticsUseCase) SalesByChannel(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.BreakdownDTO, error) {
	return uc.breakdown(ctx, ownerID, "by_channel", q, func(s repository.SaleFact) string {
		if strings.TrimSpace(s.Channel) == "" {
			return noChannelKey
		}
		return s.Channel
	})
}

// SalesByPaymentMethod agrupa el total vendido por método de pago, de mayor a menor.
func (uc *AnalyticsUseCase) SalesByPaymentMethod(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.BreakdownDTO, error) {
	return uc.breakdown(ctx, ownerID, "by_payment_method", q, func(s repository.SaleFact) string {
		return s.PaymentMethod
	})
}

func (uc *AnalyticsUseCase) breakdown(ctx context.Context, ownerID, report string, q dto.AnalyticsQuery, keyFn func(repository.SaleFact) string) ([]dto.BreakdownDTO, error) {
	var out []dto.BreakdownDTO
	err := uc.cached(ctx, ownerID, report, q, &out, func(ctx context.Context) (any, error) {
		r, err := uc.resolve(q)
		if err != nil {
			return nil, err
		}
		rows, err := uc.analyticsRepo.ListSales(ctx, saleFilter(ownerID, r))
		if err != nil {
			return nil, fmt.Errorf("analytics: ventas: %w", err)
		}
		facts := make([]timeseries.KeyedFact, 0, len(rows))
		for _, s := range rows {
			facts = append(facts, timeseries.KeyedFact{Key: keyFn(s), Value: s.TotalAmount})
		}
		groups := timeseries.TopN(timeseries.GroupBy(facts), timeseries.BySum, 0)
		res := make([]dto.BreakdownDTO, 0, len(groups))
		for _, g := range groups {
			res = append(res, dto.BreakdownDTO{Key: g.Key, TotalAmount: g.Sum.Round(2), Count: g.Count})
		}
		return res, nil
	})
	return out, err
}

// TopCustomers devuelve los clientes con mayor gasto en el rango. Las ventas sin cliente se omiten.
func (uc *AnalyticsUseCase) TopCustomers(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.TopCustomerDTO, error) {
	var out []dto.TopCustomerDTO
	err := uc.cached(ctx, ownerID, "top_customers", q, &out, func(ctx context.Context) (any, error) {
		r, err := uc.resolve(q)
		if err != nil {
			return nil, err
		}
		rows, err := uc.analyticsRepo.ListSales(ctx, saleFilter(ownerID, r))
		if err != nil {
			return nil, fmt.Errorf("analytics: ventas: %w", err)
		}
		facts := make([]timeseries.KeyedFact, 0, len(rows))
		for _, s := range rows {
			if s.CustomerID == "" {
				continue
			}
			facts = append(facts, timeseries.KeyedFact{Key: s.CustomerID, Label: s.CustomerName, Value: s.TotalAmount})
		}
		groups := timeseries.TopN(timeseries.GroupBy(facts), timeseries.BySum, uc.limit(q.Limit))
		res := make([]dto.TopCustomerDTO, 0, len(groups))
		for _, g := range groups {
			res = append(res, dto.TopCustomerDTO{CustomerID: g.Key, Name: g.Label, TotalSpent: g.Sum.Round(2), PurchaseCount: g.Count})
		}
		return res, nil
	})
	return out, err
}

// ── Pronósticos ───────────────────────────────────────────────────────────────

// RevenueForecast proyecta los ingresos de los próximos períodos (mensuales por defecto)
// a partir del historial del rango (último año por defecto).
func (uc *AnalyticsUseCase) RevenueForecast(ctx context.Context, ownerID string, q dto.AnalyticsQuery) (*dto.RevenueForecastDTO, error) {
	var out dto.RevenueForecastDTO
	err := uc.cached(ctx, ownerID, "revenue_forecast", q, &out, func(ctx context.Context) (any, error) {
		method, horizon, err := uc.forecastParams(q)
		if err != nil {
			return nil, err
		}
		r, g, err := uc.rangeAndGranularity(withDefaultPeriod(q, string(period.Year)), timeseries.Monthly)
		if err != nil {
			return nil, err
		}
		rows, err := uc.analyticsRepo.ListSales(ctx, saleFilter(ownerID, r))
		if err != nil {
			return nil, fmt.Errorf("analytics: ventas: %w", err)
		}
		history := uc.historyIn(timeseries.Aggregate(saleFacts(rows), g), g, r)
		values := history.Values()
		return &dto.RevenueForecastDTO{
			Method:   string(forecast.Resolve(values, method)),
			History:  toSeriesDTO(history),
			Forecast: projectSeries(history, values, g, uc.now(), horizon, method),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductDemandForecast proyecta las unidades mensuales demandadas de un producto.
func (uc *AnalyticsUseCase) ProductDemandForecast(ctx context.Context, ownerID string, q dto.AnalyticsQuery) (*dto.ProductForecastDTO, error) {
	if strings.TrimSpace(q.ProductID) == "" {
		return nil, domain.NewValidationError("productId", "requerido")
	}
	var out dto.ProductForecastDTO
	err := uc.cached(ctx, ownerID, "product_forecast", q, &out, func(ctx context.Context) (any, error) {
		method, horizon, err := uc.forecastParams(q)
		if err != nil {
			return nil, err
		}
		r, g, err := uc.rangeAndGranularity(withDefaultPeriod(q, string(period.Year)), timeseries.Monthly)
		if err != nil {
			return nil, err
		}
		history, err := uc.demandHistory(ctx, ownerID, q.ProductID, r, g)
		if err != nil {
			return nil, err
		}
		values := history.Values()
		return &dto.ProductForecastDTO{
			ProductID: q.ProductID,
			Method:    string(forecast.Resolve(values, method)),
			Forecast:  projectSeries(history, values, g, uc.now(), horizon, method),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForecastDemand devuelve las unidades totales esperadas de un producto en los próximos
// horizon meses según el último año de ventas.
func (uc *AnalyticsUseCase) ForecastDemand(ctx context.Context, ownerID, productID string, horizon int) (float64, error) {
	r, err := period.Resolve(uc.now(), string(period.Year), "", "")
	if err != nil {
		return 0, err
	}
	history, err := uc.demandHistory(ctx, ownerID, productID, r, timeseries.Monthly)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, v := range forecast.Forecast(history.Values(), horizon, forecast.Auto) {
		total += math.Max(v, 0)
	}
	return total, nil
}

func (uc *AnalyticsUseCase) demandHistory(ctx context.Context, ownerID, productID string, r period.Range, g timeseries.Granularity) (timeseries.Series, error) {
	f := saleFilter(ownerID, r)
	f.ProductID = &productID
	lines, err := uc.analyticsRepo.ListSaleLines(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("analytics: demanda: %w", err)
	}
	facts := make([]timeseries.Fact, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == productID {
			facts = append(facts, timeseries.Fact{Timestamp: l.CreatedAt, Value: decimal.NewFromInt(int64(l.Quantity))})
		}
	}
	return uc.historyIn(timeseries.Aggregate(facts, g), g, r), nil
}

// historyIn completa la serie con ceros en todo el rango, sin pasar de ahora.
func (uc *AnalyticsUseCase) historyIn(s timeseries.Series, g timeseries.Granularity, r period.Range) timeseries.Series {
	end := r.End
	if now := uc.now(); now.Before(end) {
		end = now
	}
	return s.FilledRange(g, r.Start, end)
}

// ── Estacionalidad ────────────────────────────────────────────────────────────

// Seasonality calcula, para cada mes calendario, el promedio de ventas mensuales dentro del
// rango (último año por defecto) y su índice estacional contra el promedio mensual global.
// Los meses del rango sin ventas cuentan como cero.
func (uc *AnalyticsUseCase) Seasonality(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.SeasonalityDTO, error) {
	var out []dto.SeasonalityDTO
	err := uc.cached(ctx, ownerID, "seasonality", q, &out, func(ctx context.Context) (any, error) {
		r, err := uc.resolve(withDefaultPeriod(q, string(period.Year)))
		if err != nil {
			return nil, err
		}
		rows, err := uc.analyticsRepo.ListSales(ctx, saleFilter(ownerID, r))
		if err != nil {
			return nil, fmt.Errorf("analytics: ventas: %w", err)
		}
		return seasonality(rows, r), nil
	})
	return out, err
}

func seasonality(rows []repository.SaleFact, r period.Range) []dto.SeasonalityDTO {
	byKey := make(map[string]decimal.Decimal)
	for _, b := range timeseries.Aggregate(saleFacts(rows), timeseries.Monthly) {
		byKey[b.Key] = b.Total
	}

	var sums [12]decimal.Decimal
	var counts [12]int
	total, months := decimal.Zero, 0
	for m := timeseries.Monthly.Floor(r.Start); m.Before(r.End); m = m.AddDate(0, 1, 0) {
		v := byKey[timeseries.Monthly.Key(m)]
		i := int(m.Month()) - 1
		sums[i] = sums[i].Add(v)
		counts[i]++
		total = total.Add(v)
		months++
	}
	overall := decimal.Zero
	if months > 0 {
		overall = total.Div(decimal.NewFromInt(int64(months)))
	}

	out := make([]dto.SeasonalityDTO, 0, 12)
	for i := 0; i < 12; i++ {
		avg := decimal.Zero
		if counts[i] > 0 {
			avg = sums[i].Div(decimal.NewFromInt(int64(counts[i])))
		}
		index := decimal.Zero
		if overall.IsPositive() {
			index = avg.Div(overall).Round(4)
		}
		out = append(out, dto.SeasonalityDTO{
			Month:         i + 1,
			MonthName:     period.MonthName(time.Month(i + 1)),
			AverageSales:  avg.Round(2),
			SeasonalIndex: index,
		})
	}
	return out
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (uc *AnalyticsUseCase) resolve(q dto.AnalyticsQuery) (period.Range, error) {
	r, err := period.Resolve(uc.now(), q.Period, q.StartDate, q.EndDate)
	if err != nil {
		return period.Range{}, err
	}
	if r.Fallback {
		uc.log.Debug().Str("period", q.Period).Msg("período desconocido; se usa month")
	}
	return r, nil
}

// rangeAndGranularity resuelve el rango y la granularidad pedida; sin granularidad usa
// fallback o, si fallback es vacío, la predeterminada del rango.
func (uc *AnalyticsUseCase) rangeAndGranularity(q dto.AnalyticsQuery, fallback timeseries.Granularity) (period.Range, timeseries.Granularity, error) {
	r, err := uc.resolve(q)
	if err != nil {
		return period.Range{}, "", err
	}
	g, err := timeseries.ParseGranularity(q.Granularity)
	if err != nil {
		return period.Range{}, "", err
	}
	if g == "" {
		g = fallback
	}
	if g == "" {
		g = timeseries.DefaultGranularity(r)
	}
	return r, g, nil
}

func (uc *AnalyticsUseCase) forecastParams(q dto.AnalyticsQuery) (forecast.Method, int, error) {
	method, err := forecast.ParseMethod(q.Method)
	if err != nil {
		return "", 0, err
	}
	horizon := q.Horizon
	if horizon <= 0 {
		horizon = uc.cfg.DefaultHorizon
	}
	if horizon > maxHorizon {
		return "", 0, domain.NewValidationError("horizon", "no puede superar %d", maxHorizon)
	}
	return method, horizon, nil
}

func (uc *AnalyticsUseCase) limit(l int) int {
	if l <= 0 {
		return uc.cfg.DefaultLimit
	}
	if l > uc.cfg.MaxLimit {
		return uc.cfg.MaxLimit
	}
	return l
}

// cached resuelve el reporte desde la caché del propietario o lo calcula con loader.
func (uc *AnalyticsUseCase) cached(ctx context.Context, ownerID, report string, q dto.AnalyticsQuery, dest any, loader func(context.Context) (any, error)) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	start := time.Now()
	defer func() { uc.metrics.ObserveReport(report, time.Since(start)) }()

	if uc.cache == nil {
		return assign(ctx, dest, loader)
	}
	return uc.cache.FetchJSON(ctx, ownerID, uc.cacheKey(report, q), dest, loader)
}

// cacheKey identifica un reporte por sus parámetros. Los tokens relativos a ahora llevan
// además el día actual, así una entrada no sobrevive al cambio de día.
func (uc *AnalyticsUseCase) cacheKey(report string, q dto.AnalyticsQuery) string {
	threshold := ""
	if q.Threshold != nil {
		threshold = fmt.Sprint(*q.Threshold)
	}
	token := strings.ToLower(strings.TrimSpace(q.Period))
	anchor := ""
	if token != string(period.Custom) {
		anchor = uc.now().Format("2006-01-02")
	}
	return strings.Join([]string{
		report, token, anchor, q.StartDate, q.EndDate, strings.ToLower(q.Granularity),
		fmt.Sprint(q.Limit), fmt.Sprint(q.Horizon), strings.ToLower(q.Method), q.ProductID, threshold,
	}, ":")
}

func withDefaultPeriod(q dto.AnalyticsQuery, token string) dto.AnalyticsQuery {
	if strings.TrimSpace(q.Period) == "" {
		q.Period = token
	}
	return q
}

func saleFilter(ownerID string, r period.Range) repository.SaleFilter {
	start, end := r.Start, r.End
	return repository.SaleFilter{OwnerID: ownerID, From: &start, To: &end}
}

func saleFacts(rows []repository.SaleFact) []timeseries.Fact {
	facts := make([]timeseries.Fact, 0, len(rows))
	for _, s := range rows {
		facts = append(facts, timeseries.Fact{Timestamp: s.CreatedAt, Value: s.TotalAmount})
	}
	return facts
}

func toSeriesDTO(s timeseries.Series) []dto.SalesOverTimeDTO {
	out := make([]dto.SalesOverTimeDTO, 0, len(s))
	for _, b := range s {
		out = append(out, dto.SalesOverTimeDTO{Period: b.Key, TotalAmount: b.Total.Round(2)})
	}
	return out
}

func topProducts(lines []repository.SaleLineFact, limit int) []dto.TopProductDTO {
	facts := make([]timeseries.KeyedFact, 0, len(lines))
	for _, l := range lines {
		facts = append(facts, timeseries.KeyedFact{
			Key:      l.ProductID,
			Label:    l.ProductName,
			Value:    l.Revenue(),
			Quantity: int64(l.Quantity),
		})
	}
	groups := timeseries.TopN(timeseries.GroupBy(facts), timeseries.ByQuantity, limit)
	out := make([]dto.TopProductDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.TopProductDTO{
			ProductID:    g.Key,
			Name:         g.Label,
			TotalSold:    g.Quantity,
			TotalRevenue: g.Sum.Round(2),
			TimesSold:    g.Count,
		})
	}
	return out
}

// projectSeries pronostica horizon períodos después del último bucket del historial
// (o del período actual si no hay historial). Las proyecciones negativas se reportan en cero.
func projectSeries(history timeseries.Series, values []float64, g timeseries.Granularity, now time.Time, horizon int, method forecast.Method) []dto.ForecastPointDTO {
	last := g.Floor(now)
	if len(history) > 0 {
		last = history[len(history)-1].Start
	}
	points := forecast.Forecast(values, horizon, method)
	out := make([]dto.ForecastPointDTO, 0, len(points))
	for i, v := range points {
		out = append(out, dto.ForecastPointDTO{
			Period:   g.Key(g.Advance(last, i+1)),
			Forecast: math.Round(math.Max(v, 0)*100) / 100,
		})
	}
	return out
}
