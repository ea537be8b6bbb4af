package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/api/handler"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/api/router"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/repository"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/database"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
	applogger "github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/logger"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database, only for the postgres storage driver
	var db *gorm.DB
	if cfg.Storage.Driver == config.StoragePostgres {
		db, err = database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("get sql.DB failed", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	// 4. redis; optional unless it is the storage driver
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			if cfg.Storage.Driver == config.StorageRedis {
				logger.Fatal("redis connection failed", zap.Error(err))
			}
			logger.Warn("redis unavailable, logout blacklist and rate limiting disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 5. identity store
	repo, err := repository.NewRepository(&cfg.Storage, db, rdb)
	if err != nil {
		logger.Fatal("init repository failed", zap.Error(err))
	}
	st, err := store.Open(context.Background(), repo.KV, store.NewKeys(cfg.Storage.KeyPrefix), logger)
	if err != nil {
		logger.Fatal("open store failed", zap.Error(err))
	}

	// 6. collaborators and in-app notifications
	collab := collaborator.NewClient(
		collaborator.NewSimulated(cfg.Collaborator.Delay, cfg.Collaborator.BlockedTerms),
		cfg.Collaborator.Timeout, logger,
	)
	hub := notify.NewHub(cfg.Notify.TTL)

	// 7. services and handlers
	jwtMgr := jwt.NewManager(&cfg.Auth)
	var revoker service.TokenRevoker
	if rdb != nil {
		revoker = rdb
	}
	svc := service.NewService(cfg, st, collab, hub, jwtMgr, revoker, logger)
	h := handler.NewHandler(svc)

	// 8. router
	engine := router.Setup(cfg, h, svc.Auth, jwtMgr, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// pending payment confirmations still write to the store
	svc.Billing.Drain()

	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
