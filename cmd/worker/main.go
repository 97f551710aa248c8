package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/Ramani888/abwa-sub000/internal/app"
	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/ledger"
	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/platform/cache"
	"github.com/Ramani888/abwa-sub000/internal/platform/db"
	"github.com/Ramani888/abwa-sub000/internal/procurement"
	"github.com/Ramani888/abwa-sub000/internal/sales"
	"github.com/Ramani888/abwa-sub000/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis connect", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	catalogService := catalog.NewService(catalog.NewRepository(dbpool))
	paymentService := payment.NewService(payment.NewRepository(dbpool), nil, logger)
	salesService := sales.NewService(sales.NewRepository(dbpool), catalogService, paymentService, nil, logger)
	procurementService := procurement.NewService(procurement.NewRepository(dbpool), catalogService, paymentService, nil, logger)

	balanceCache := ledger.NewCache(redisClient, cfg.BalanceCacheTTL)
	ledgerService := ledger.NewService(salesService, procurementService, paymentService, balanceCache, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBalanceRefresh, Handler: jobs.NewBalanceRefreshHandler(ledgerService, logger)},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
