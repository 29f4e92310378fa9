package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/statements"
	"github.com/jhoicas/ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/ventas-api/internal/infrastructure/events"
	"github.com/jhoicas/ventas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
	"github.com/jhoicas/ventas-api/pkg/tracing"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	tp, err := tracing.Init(ctx, cfg.App.Name, version, cfg.Tracing.JaegerEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar tracing")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	recorder := metrics.NewRecorder()

	// Caché y eventos son opcionales: sin configuración quedan como interfaces nil.
	var analyticsCache ports.AnalyticsCache
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde; la caché degradará al cálculo directo")
		}
		analyticsCache = cache.NewRedisCache(client, cfg.Redis.TTL, log.Component("cache"))
	}

	var saleEvents ports.SaleEventPublisher
	if cfg.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.SalesTopic, log.Component("events"))
		if err != nil {
			log.Fatal().Err(err).Msg("publicador Kafka")
		}
		defer publisher.Close()
		saleEvents = publisher
	}

	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	saleUC := sales.NewSaleUseCase(sales.Deps{
		TxRunner:       postgres.NewTxRunner(pool),
		CustomerRepo:   postgres.NewCustomerRepository(pool),
		SaleRepo:       postgres.NewSaleRepository(pool),
		InvoiceRepo:    postgres.NewInvoiceRepository(pool),
		Cache:          analyticsCache,
		Events:         saleEvents,
		Metrics:        recorder,
		Logger:         log.Component("sales"),
		DefaultDueDays: cfg.Sales.DefaultDueDays,
	})
	analyticsUC := analytics.NewAnalyticsUseCase(analyticsRepo, analyticsCache, recorder, log.Component("analytics"), analytics.Config{
		DefaultLimit:   cfg.Analytics.DefaultLimit,
		MaxLimit:       cfg.Analytics.MaxLimit,
		DefaultHorizon: cfg.Analytics.DefaultHorizon,
	})
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(analyticsRepo, analyticsUC,
		cfg.Analytics.LowStockThreshold, cfg.Analytics.DefaultHorizon)
	statementsUC := statements.NewStatementsUseCase(analyticsRepo, recorder, log.Component("statements"))

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))
	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:      saleUC,
		Analytics:  analyticsUC,
		Dashboard:  dashboardUC,
		LowStock:   replenishmentUC,
		Statements: statementsUC,
		Metrics:    recorder.Handler(),
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		log.Error().Err(err).Msg("apagado del tracer")
	}

	log.Info().Msg("aplicación detenida")
}
