package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/totofurniture/furnistore-backend/internal/cron"
	"github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/pkg/config"
	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/instance"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/metrics"
	"github.com/totofurniture/furnistore-backend/pkg/migrate"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
	"github.com/totofurniture/furnistore-backend/pkg/redis"
)

const lockName = "cron-worker"

func main() {
	runOnce := flag.String("run", "", "comma separated job names to run once and exit")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for /metrics, e.g. :9102")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var lock cron.Lock = &cron.LocalLock{}
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockName+":"+envOrLocal(cfg.App.Env)), 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis disabled; using in-process cron lock")
	}

	events := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:             customers.NewRepository(dbClient.DB()),
		DB:               dbClient,
		Events:           events,
		Logger:           logg,
		VIPMinOrders:     cfg.Store.VIPMinOrders,
		InactivityWindow: cfg.Store.InactivityWindow,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	inactivityJob, err := cron.NewCustomerInactivityJob(logg, customerService)
	if err != nil {
		logg.Error(context.Background(), "failed to create inactivity job", err)
		os.Exit(1)
	}
	vipJob, err := cron.NewVIPUpgradeJob(logg, customerService)
	if err != nil {
		logg.Error(context.Background(), "failed to create vip upgrade job", err)
		os.Exit(1)
	}
	retentionJob, err := cron.NewOutboxRetentionJob(logg, outbox.NewRepository(dbClient.DB()), cfg.Outbox.Retention)
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}
	registry.Register(inactivityJob)
	registry.Register(vipJob)
	registry.Register(retentionJob)

	promRegistry := prometheus.NewRegistry()
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(promRegistry),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.ID(),
		"interval":    cfg.Cron.Interval.String(),
	})

	if *runOnce != "" {
		names := strings.Split(*runOnce, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		if err := service.RunOnce(ctx, names...); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")

	if err := metrics.RunWithServer(ctx, *metricsAddr, promRegistry, service.Run); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func envOrLocal(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
