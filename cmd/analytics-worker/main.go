package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/totofurniture/furnistore-backend/internal/analytics/router"
	"github.com/totofurniture/furnistore-backend/internal/analytics/types"
	"github.com/totofurniture/furnistore-backend/internal/analytics/worker"
	"github.com/totofurniture/furnistore-backend/internal/analytics/writer"
	"github.com/totofurniture/furnistore-backend/pkg/bigquery"
	"github.com/totofurniture/furnistore-backend/pkg/config"
	"github.com/totofurniture/furnistore-backend/pkg/instance"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/metrics"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/idempotency"
	"github.com/totofurniture/furnistore-backend/pkg/pubsub"
	"github.com/totofurniture/furnistore-backend/pkg/redis"
)

func main() {
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for /metrics, e.g. :9104")
	flag.Parse()

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "analytics-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "analytics-worker"

	logg = logger.New(logger.Options{
		ServiceName: "analytics-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.Redis.Enabled() {
		requireResource(ctx, logg, "redis", errors.New("redis is required for event idempotency"))
	}
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewSubscriberClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	bqClient, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery client", err)
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(ctx, "failed to close bigquery client", err)
		}
	}()

	salesTable := bigquery.TableSpec{
		Name:           cfg.BigQuery.SalesEventsTable,
		Schema:         types.SalesEventSchema(),
		PartitionField: types.SalesEventPartitionField,
	}
	requireResource(ctx, logg, "sales events table", bqClient.EnsureTable(ctx, salesTable, cfg.BigQuery.CreateTables))

	manager, err := idempotency.NewManager(redisClient, cfg.Analytics.ProcessedTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	salesWriter, err := writer.New(bqClient, writer.Config{
		SalesTable: cfg.BigQuery.SalesEventsTable,
		BatchSize:  cfg.Analytics.BatchSize,
	})
	requireResource(ctx, logg, "sales event writer", err)
	defer func() {
		if err := salesWriter.Flush(context.Background()); err != nil {
			logg.Error(ctx, "failed to flush buffered sales events", err)
		}
	}()

	salesRouter, err := router.NewRouter(salesWriter, logg, nil)
	requireResource(ctx, logg, "analytics router", err)

	promRegistry := prometheus.NewRegistry()
	service, err := worker.NewService(pubsubClient.AnalyticsSubscription(), salesRouter, manager, metrics.NewEventMetrics(promRegistry), logg)
	requireResource(ctx, logg, "analytics worker service", err)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":          cfg.App.Env,
		"serviceKind":  cfg.Service.Kind,
		"subscription": cfg.PubSub.AnalyticsSubscription,
		"instance":     instance.ID(),
	})

	logg.Info(runCtx, "analytics worker ready")

	if err := metrics.RunWithServer(runCtx, *metricsAddr, promRegistry, service.Run); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "analytics worker failed", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "analytics worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
