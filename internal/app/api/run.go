package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	marketserver "github.com/Iron-Mark/MSiazon-MarketWebsite/go"
	catalogobs "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/application"
	orderevents "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/events"
	ordersobs "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	ordersports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/middleware"
	platformobservability "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/observability"
)

const serviceName = "macaroon-market-api"

// Run boots the market HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
		LogFile:     cfg.LogFile,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores := OpenStores(ctx, cfg, logger, instruments.Meter("internal.platform.failover"))
	defer stores.Close()

	catalogService := catalogobs.New(
		catalogapp.NewService(stores.Catalog, cfg.Images()),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	if inserted, err := catalogService.SeedDefaultProducts(ctx); err != nil {
		logger.Error("failed to seed catalog", slog.Int("inserted", inserted), slog.String("error", err.Error()))
	}

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()
	orderService := ordersobs.New(
		ordersapp.NewService(stores.Orders,
			ordersapp.WithEventPublisher(publisher),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	inline := ordersworkflows.NewInlineOrderWorkflows(orderService)
	var orderWorkflows ordersports.WorkflowOrchestrator = inline
	if !stores.Durable() {
		logger.Info("in-memory mode, placing orders inline")
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient, ordersworkflows.WithUnavailableFallback(inline))
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := marketserver.ApiHandleFunctions{
		HealthAPI:  marketserver.NewHealthAPI(stores.Orders.Router(), stores.Catalog.Router()),
		OrderAPI:   marketserver.NewOrderAPI(orderService, orderWorkflows),
		ProductAPI: marketserver.NewProductAPI(catalogService),
	}
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := marketserver.NewRouter(handlers, marketserver.RouterOptions{
		ServiceName: serviceName,
		Logger:      logger,
		Metrics:     middleware.NewMetrics(),
		CORSOrigins: cfg.CORSOrigins,
		Development: cfg.Development(),
	})

	server := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Macaroon Market API listening",
			slog.String("addr", server.Addr),
			slog.String("orders", string(stores.Orders.Router().Mode())),
			slog.String("catalog", string(stores.Catalog.Router().Mode())))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Macaroon Market API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}

func buildPublisher(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return orderevents.NoopPublisher{}, func() {}
	}
	publisher := orderevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaTopic))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}

// DialTemporal connects a Temporal client with tracing and structured logging.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	return DialTemporal(cfg, instruments, "temporal-client")
}
