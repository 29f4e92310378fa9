package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// AnalyticsQuery parámetros comunes de GET /api/analytics/*.
// Los ceros se reemplazan por los valores por defecto de configuración.
type AnalyticsQuery struct {
	Period      string `query:"period"`      // day|week|month|year|custom
	StartDate   string `query:"startDate"`   // requerido con period=custom
	EndDate     string `query:"endDate"`     // requerido con period=custom
	Granularity string `query:"granularity"` // day|week|month|year; vacío elige según el período
	Limit       int    `query:"limit"`
	Horizon     int    `query:"horizon"`
	Method      string `query:"method"` // moving-average|linear|auto
	ProductID   string `query:"productId"`
	Threshold   *int   `query:"threshold"`
}

// ── Series temporales ─────────────────────────────────────────────────────────

// SalesOverTimeDTO total vendido en un período.
type SalesOverTimeDTO struct {
	Period      string          `json:"period"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ForecastPointDTO valor proyectado para un período futuro.
type ForecastPointDTO struct {
	Period   string  `json:"period"`
	Forecast float64 `json:"forecast"`
}

// RevenueForecastDTO pronóstico de ingresos mensuales.
type RevenueForecastDTO struct {
	Method   string             `json:"method"` // método efectivamente aplicado
	History  []SalesOverTimeDTO `json:"history"`
	Forecast []ForecastPointDTO `json:"forecast"`
}

// ProductForecastDTO pronóstico de demanda (unidades por mes) de un producto.
type ProductForecastDTO struct {
	ProductID string             `json:"productId"`
	Method    string             `json:"method"`
	Forecast  []ForecastPointDTO `json:"forecast"`
}

// SeasonalityDTO promedio de ventas de un mes calendario e índice estacional.
type SeasonalityDTO struct {
	Month         int             `json:"month"`
	MonthName     string          `json:"monthName"`
	AverageSales  decimal.Decimal `json:"averageSales"`
	SeasonalIndex decimal.Decimal `json:"seasonalIndex"` // promedio del mes / promedio mensual global
}

// ── Rankings y desgloses ──────────────────────────────────────────────────────

// TopProductDTO producto más vendido.
type TopProductDTO struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TimesSold    int             `json:"timesSold"`
}

// BreakdownDTO ventas agrupadas por una dimensión (canal o método de pago).
type BreakdownDTO struct {
	Key         string          `json:"key"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int             `json:"count"`
}

// TopCustomerDTO cliente con mayor gasto.
type TopCustomerDTO struct {
	CustomerID    string          `json:"customerId"`
	Name          string          `json:"name"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	PurchaseCount int             `json:"purchaseCount"`
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// DashboardSummaryDTO KPIs del día y del mes en curso más el top-5 de productos del mes.
type DashboardSummaryDTO struct {
	TodaySales    decimal.Decimal `json:"todaySales"`
	TodayCount    int             `json:"todayCount"`
	MonthlySales  decimal.Decimal `json:"monthlySales"`
	MonthlyCount  int             `json:"monthlyCount"`
	MonthlyMargin decimal.Decimal `json:"monthlyMargin"` // ingresos de líneas - COGS
	TopProducts   []TopProductDTO `json:"topProducts"`
	DateLabel     string          `json:"dateLabel"` // ej: "Octubre 2026"
}

// ── Inventario ────────────────────────────────────────────────────────────────

// LowStockDTO producto con stock bajo y sugerencia de reposición.
type LowStockDTO struct {
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	Stock          int     `json:"stock"`
	ForecastDemand float64 `json:"forecastDemand"` // unidades esperadas en el horizonte
	SuggestedOrder int     `json:"suggestedOrder"`
	Priority       string  `json:"priority"` // CRITICAL|HIGH|MEDIUM
}
