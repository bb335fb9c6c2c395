package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/newsroute/newsroute-backend/api/routes"
	"github.com/newsroute/newsroute-backend/internal/billing"
	"github.com/newsroute/newsroute-backend/internal/changerequests"
	"github.com/newsroute/newsroute-backend/internal/commissions"
	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/internal/payments"
	"github.com/newsroute/newsroute-backend/internal/reminders"
	"github.com/newsroute/newsroute-backend/internal/schedules"
	"github.com/newsroute/newsroute-backend/pkg/config"
	"github.com/newsroute/newsroute-backend/pkg/db"
	"github.com/newsroute/newsroute-backend/pkg/logger"
	"github.com/newsroute/newsroute-backend/pkg/metrics"
	"github.com/newsroute/newsroute-backend/pkg/migrate"
	"github.com/newsroute/newsroute-backend/pkg/outbox"
	"github.com/newsroute/newsroute-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	runMetrics := metrics.NewRunMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	guard, err := identity.NewService(identity.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create identity guard", err)
		os.Exit(1)
	}

	changeRequestService, err := changerequests.NewService(
		changerequests.NewRepository(dbClient.DB()),
		dbClient,
		guard,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create change request service", err)
		os.Exit(1)
	}

	billingLocks, err := billing.NewRunLockFactory(redisClient, cfg.Billing.RunLockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create billing run locks", err)
		os.Exit(1)
	}
	billingService, err := billing.NewService(
		billing.NewRepository(dbClient.DB()),
		dbClient,
		guard,
		outboxService,
		billingLocks,
		runMetrics,
		cfg.Billing.DueDay,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(
		payments.NewRepository(dbClient.DB()),
		dbClient,
		guard,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	schedulesService, err := schedules.NewService(
		schedules.NewRepository(dbClient.DB()),
		dbClient,
		guard,
		outboxService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create schedules service", err)
		os.Exit(1)
	}

	commissionsService, err := commissions.NewService(
		commissions.NewRepository(dbClient.DB()),
		dbClient,
		guard,
		outboxService,
		runMetrics,
		cfg.Billing.DefaultCommissionRate,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create commissions service", err)
		os.Exit(1)
	}

	remindersService, err := reminders.NewService(
		reminders.NewRepository(dbClient.DB()),
		dbClient,
		guard,
		outboxService,
		runMetrics,
		cfg.Billing.ReminderCooldown,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reminders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			guard,
			changeRequestService,
			billingService,
			paymentsService,
			schedulesService,
			commissionsService,
			remindersService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
