package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/totofurniture/furnistore-backend/api/routes"
	"github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/internal/dashboard"
	"github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/internal/ledger"
	"github.com/totofurniture/furnistore-backend/internal/orders"
	"github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/config"
	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/metrics"
	"github.com/totofurniture/furnistore-backend/pkg/migrate"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
	"github.com/totofurniture/furnistore-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	var (
		redisPinger      redis.Pinger
		idempotencyStore redis.IdempotencyStore
	)
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
		redisPinger = redisClient
		idempotencyStore = redisClient
	} else {
		logg.Warn(context.Background(), "redis disabled; idempotency keys are not enforced")
	}

	conn := dbClient.DB()
	furnitureRepo := furniture.NewRepository(conn)
	supplierRepo := suppliers.NewRepository(conn)
	customerRepo := customers.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)

	furnitureService, err := furniture.NewService(furnitureRepo, dbClient, supplierRepo)
	requireService(logg, "furniture", err)
	supplierService, err := suppliers.NewService(supplierRepo, furnitureRepo, dbClient)
	requireService(logg, "suppliers", err)
	events := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	requireService(logg, "ledger", err)
	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:             customerRepo,
		DB:               dbClient,
		Events:           events,
		Logger:           logg,
		VIPMinOrders:     cfg.Store.VIPMinOrders,
		InactivityWindow: cfg.Store.InactivityWindow,
	})
	requireService(logg, "customers", err)
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orderRepo,
		Tx:        dbClient,
		Customers: customerRepo,
		Furniture: furnitureRepo,
		Events:    events,
		Ledger:    ledgerService,
		Logger:    logg,
	})
	requireService(logg, "orders", err)
	dashboardService, err := dashboard.NewService(furnitureRepo, customerRepo, orderRepo, supplierRepo)
	requireService(logg, "dashboard", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"dialect": dbClient.Dialect(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			idempotencyStore,
			registry,
			metrics.NewHTTPMetrics(registry),
			furnitureService,
			supplierService,
			customerService,
			orderService,
			ledgerService,
			dashboardService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server stopped")
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(context.Background(), "service", name), "failed to create service", err)
	os.Exit(1)
}
