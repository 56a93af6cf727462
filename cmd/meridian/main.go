package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-wms/meridian/internal/app"
	"github.com/meridian-wms/meridian/internal/export"
	"github.com/meridian-wms/meridian/internal/masterdata"
	"github.com/meridian-wms/meridian/internal/notify"
	"github.com/meridian-wms/meridian/internal/platform/cache"
	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/receiving"
)

const supplierSnapshotKey = "meridian:suppliers:snapshot"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	notifier := notify.NewLogNotifier(logger)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" && !app.InTestMode() {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, snapshot cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}
	snapshot := cache.NewSnapshot(redisClient, supplierSnapshotKey, cfg.SnapshotTTL)

	purchaseService := purchase.NewService(notifier)
	receivingService := receiving.NewService(purchaseService, notifier)
	masterService := masterdata.NewService(notifier)

	var feed *masterdata.Feed
	if cfg.SupplierFeedURL != "" {
		feed = masterdata.NewFeed(cfg.SupplierFeedURL, cfg.SupplierFeedTimeout, masterService.Suppliers(), snapshot, notifier, logger)
		if err := feed.Warm(ctx); err != nil {
			logger.Warn("warm supplier store", slog.Any("error", err))
		}
	}

	purchaseHandler := purchase.NewHandler(logger, purchaseService, cfg.PageSize)
	receivingHandler := receiving.NewHandler(logger, receivingService, cfg.PageSize)
	masterHandler := masterdata.NewHandler(logger, masterService, feed, cfg.PageSize)
	exportHandler := export.NewHandler(logger, purchaseService, receivingService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		PurchaseHandler:   purchaseHandler,
		ReceivingHandler:  receivingHandler,
		MasterDataHandler: masterHandler,
		ExportHandler:     exportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
