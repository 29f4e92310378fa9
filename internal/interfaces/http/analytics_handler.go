package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
)

// AnalyticsService reportes analíticos por propietario.
type AnalyticsService interface {
	SalesOverTime(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.SalesOverTimeDTO, error)
	ExpensesOverTime(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.SalesOverTimeDTO, error)
	TopProducts(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.TopProductDTO, error)
	SalesByChannel(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.BreakdownDTO, error)
	SalesByPaymentMethod(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.BreakdownDTO, error)
	TopCustomers(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.TopCustomerDTO, error)
	RevenueForecast(ctx context.Context, ownerID string, q dto.AnalyticsQuery) (*dto.RevenueForecastDTO, error)
	ProductDemandForecast(ctx context.Context, ownerID string, q dto.AnalyticsQuery) (*dto.ProductForecastDTO, error)
	Seasonality(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.SeasonalityDTO, error)
}

// DashboardService resumen del día y del mes.
type DashboardService interface {
	GetSummary(ctx context.Context, ownerID string) (*dto.DashboardSummaryDTO, error)
}

// LowStockService alertas de reposición.
type LowStockService interface {
	LowStock(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.LowStockDTO, error)
}

// AnalyticsHandler maneja /api/analytics/*, el dashboard y las alertas de stock.
type AnalyticsHandler struct {
	uc        AnalyticsService
	dashboard DashboardService
	lowStock  LowStockService
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc AnalyticsService, dashboard DashboardService, lowStock LowStockService) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, dashboard: dashboard, lowStock: lowStock}
}

// analyticsReport adapta una operación analítica a un handler Fiber:
// valida el token, parsea la query y serializa el resultado.
func analyticsReport[T any](fn func(context.Context, string, dto.AnalyticsQuery) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := GetOwnerID(c)
		if ownerID == "" {
			return unauthorized(c, "owner_id no encontrado en el token")
		}
		var q dto.AnalyticsQuery
		if err := c.QueryParser(&q); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
		}
		out, err := fn(c.UserContext(), ownerID, q)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// SalesOverTime GET /api/analytics/sales-over-time?period=month&granularity=day
func (h *AnalyticsHandler) SalesOverTime() fiber.Handler { return analyticsReport(h.uc.SalesOverTime) }

// ExpensesOverTime GET /api/analytics/expenses-over-time
func (h *AnalyticsHandler) ExpensesOverTime() fiber.Handler {
	return analyticsReport(h.uc.ExpensesOverTime)
}

// TopProducts GET /api/analytics/top-products?limit=10
func (h *AnalyticsHandler) TopProducts() fiber.Handler {
	return analyticsReport(h.uc.TopProducts)
}

// SalesByChannel GET /api/analytics/sales-by-channel
func (h *AnalyticsHandler) SalesByChannel() fiber.Handler {
	return analyticsReport(h.uc.SalesByChannel)
}

// SalesByPaymentMethod GET /api/analytics/sales-by-payment-method
func (h *AnalyticsHandler) SalesByPaymentMethod() fiber.Handler {
	return analyticsReport(h.uc.SalesByPaymentMethod)
}

// TopCustomers GET /api/analytics/top-customers
func (h *AnalyticsHandler) TopCustomers() fiber.Handler { return analyticsReport(h.uc.TopCustomers) }

// RevenueForecast GET /api/analytics/forecast/revenue?horizon=3&method=auto
func (h *AnalyticsHandler) RevenueForecast() fiber.Handler {
	return analyticsReport(h.uc.RevenueForecast)
}

// ProductDemandForecast GET /api/analytics/forecast/products?productId=...
func (h *AnalyticsHandler) ProductDemandForecast() fiber.Handler {
	return analyticsReport(h.uc.ProductDemandForecast)
}

// Seasonality GET /api/analytics/seasonality
func (h *AnalyticsHandler) Seasonality() fiber.Handler { return analyticsReport(h.uc.Seasonality) }

// LowStock GET /api/inventory/low-stock?threshold=10&horizon=3
func (h *AnalyticsHandler) LowStock() fiber.Handler { return analyticsReport(h.lowStock.LowStock) }

// GetSummary GET /api/dashboard/summary
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	ownerID := GetOwnerID(c)
	if ownerID == "" {
		return unauthorized(c, "owner_id no encontrado en el token")
	}
	summary, err := h.dashboard.GetSummary(c.UserContext(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
