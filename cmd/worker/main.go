package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/PaulBabatuyi/FileVault-API/internal/config"
	"github.com/PaulBabatuyi/FileVault-API/internal/database"
	"github.com/PaulBabatuyi/FileVault-API/internal/observability"
	"github.com/PaulBabatuyi/FileVault-API/internal/queue"
	"github.com/PaulBabatuyi/FileVault-API/internal/storage"
	"github.com/PaulBabatuyi/FileVault-API/internal/worker"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLogger(cfg.Dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.InitTracerProvider(ctx, logger)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	db, err := database.NewMongoDB(ctx, cfg.MongoURI(), cfg.DBName)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}

	jobs, err := queue.NewRedisQueue(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal("failed to connect to job queue", zap.Error(err))
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal("failed to init metrics", zap.Error(err))
	}

	w := worker.NewProcessingWorker(&worker.WorkerConfig{
		DB:             db,
		Blobs:          storage.NewFilesystemStorage(cfg.FolderPath),
		Queue:          jobs,
		Logger:         logger,
		Metrics:        metrics,
		DequeueTimeout: cfg.DequeueTimeout,
	})

	w.Start(ctx)
	<-ctx.Done()
	w.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	observability.ShutdownTracerProvider(shutdownCtx, tp, logger)
	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("mongo close failed", zap.Error(err))
	}
	if err := jobs.Close(); err != nil {
		logger.Error("queue close failed", zap.Error(err))
	}
}
