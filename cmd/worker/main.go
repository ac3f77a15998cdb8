package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/app/api"
	orderevents "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/events"
	ordersobs "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	orderactivities "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "macaroon-market-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
		LogFile:     cfg.LogFile,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// Orders persisted by the worker must be visible to every API process, so there is no
	// in-memory mirror here: a failed insert fails the activity.
	orders, err := api.OpenDurableOrders(ctx, cfg, logger)
	if err != nil {
		logger.Error("worker requires a reachable database, refusing to start", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer orders.Close()

	var publisher ordersapp.Option
	if len(cfg.KafkaBrokers) > 0 {
		kafka := orderevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kafka.Close()
		publisher = ordersapp.WithEventPublisher(kafka)
	}
	orderService := ordersobs.New(
		ordersapp.NewService(orders, publisher, ordersapp.WithLogger(logger)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
