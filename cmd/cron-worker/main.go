package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/newsroute/newsroute-backend/internal/billing"
	"github.com/newsroute/newsroute-backend/internal/commissions"
	"github.com/newsroute/newsroute-backend/internal/cron"
	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/internal/reminders"
	"github.com/newsroute/newsroute-backend/pkg/config"
	"github.com/newsroute/newsroute-backend/pkg/db"
	"github.com/newsroute/newsroute-backend/pkg/logger"
	"github.com/newsroute/newsroute-backend/pkg/metrics"
	"github.com/newsroute/newsroute-backend/pkg/migrate"
	"github.com/newsroute/newsroute-backend/pkg/outbox"
	"github.com/newsroute/newsroute-backend/pkg/redis"
)

const lockKeyFormat = "nr:cron-worker:lock:%s"

func main() {
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

	runMetrics := metrics.NewRunMetrics(prometheus.DefaultRegisterer)
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	identityRepo := identity.NewRepository(dbClient.DB())
	guard, err := identity.NewService(identityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity guard", err)
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

	billingJob, err := cron.NewBillingRunJob(cron.BillingRunJobParams{
		Logger:  logg,
		Areas:   identityRepo,
		Billing: billingService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing run job", err)
		os.Exit(1)
	}
	commissionJob, err := cron.NewCommissionRunJob(cron.CommissionRunJobParams{
		Logger:      logg,
		Areas:       identityRepo,
		Commissions: commissionsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create commission run job", err)
		os.Exit(1)
	}
	reminderJob, err := cron.NewReminderSweepJob(cron.ReminderSweepJobParams{
		Logger:    logg,
		Areas:     identityRepo,
		Reminders: remindersService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder sweep job", err)
		os.Exit(1)
	}
	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(billingJob, commissionJob, reminderJob, retentionJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  runMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
