package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PaulBabatuyi/FileVault-API/internal/api"
	"github.com/PaulBabatuyi/FileVault-API/internal/cache"
	"github.com/PaulBabatuyi/FileVault-API/internal/config"
	"github.com/PaulBabatuyi/FileVault-API/internal/database"
	"github.com/PaulBabatuyi/FileVault-API/internal/observability"
	"github.com/PaulBabatuyi/FileVault-API/internal/queue"
	"github.com/PaulBabatuyi/FileVault-API/internal/service"
	"github.com/PaulBabatuyi/FileVault-API/internal/storage"
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
	if err := db.EnsureIndexes(ctx); err != nil {
		// Registration degrades to best-effort uniqueness without it.
		logger.Warn("failed to ensure indexes", zap.Error(err))
	}

	sessions, err := cache.NewCache(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	jobs, err := queue.NewRedisQueue(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal("failed to connect to job queue", zap.Error(err))
	}

	blobs := storage.NewFilesystemStorage(cfg.FolderPath)

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal("failed to init metrics", zap.Error(err))
	}

	authSvc := service.NewAuthService(db, sessions, cfg.SessionTTL)
	userSvc := service.NewUserService(db, jobs, logger)
	fileSvc := service.NewFileService(db, blobs, jobs, logger)

	server := api.NewServer(authSvc, userSvc, fileSvc, db, sessions, metrics, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting API server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", zap.Error(err))
		}
		observability.ShutdownTracerProvider(shutdownCtx, tp, logger)
		if err := db.Close(shutdownCtx); err != nil {
			logger.Error("mongo close failed", zap.Error(err))
		}
		if err := sessions.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
		}
		if err := jobs.Close(); err != nil {
			logger.Error("queue close failed", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server stopped")
}
