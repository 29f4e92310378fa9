package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales      SaleService
	Analytics  AnalyticsService
	Dashboard  DashboardService
	LowStock   LowStockService
	Statements StatementsService
	Metrics    http.Handler // opcional; se monta en /metrics
	JWTSecret  string
}

// StatementRoles roles con acceso a los estados financieros.
var StatementRoles = []string{"admin", "contador"}

// NewApp crea la aplicación Fiber con recover, trazas, logging y el ErrorHandler de dominio.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(TracingMiddleware(name))
	app.Use(LoggingMiddleware(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.Sales)
	sales.Post("/", salesHandler.Create)
	sales.Get("/:id", salesHandler.GetByID)

	ah := NewAnalyticsHandler(deps.Analytics, deps.Dashboard, deps.LowStock)
	analytics := api.Group("/analytics")
	analytics.Get("/sales-over-time", ah.SalesOverTime())
	analytics.Get("/expenses-over-time", ah.ExpensesOverTime())
	analytics.Get("/top-products", ah.TopProducts())
	analytics.Get("/sales-by-channel", ah.SalesByChannel())
	analytics.Get("/sales-by-payment-method", ah.SalesByPaymentMethod())
	analytics.Get("/top-customers", ah.TopCustomers())
	analytics.Get("/forecast/revenue", ah.RevenueForecast())
	analytics.Get("/forecast/products", ah.ProductDemandForecast())
	analytics.Get("/seasonality", ah.Seasonality())

	api.Get("/dashboard/summary", ah.GetSummary)
	api.Get("/inventory/low-stock", ah.LowStock())

	// Estados financieros (solo admin y contador)
	sh := NewStatementsHandler(deps.Statements)
	statements := api.Group("/statements", RequireRole(StatementRoles...))
	statements.Get("/profit-loss", sh.ProfitLoss())
	statements.Get("/cash-flow", sh.CashFlow())
	statements.Get("/balance-sheet", sh.BalanceSheet())
}
