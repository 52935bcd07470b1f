package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinealabs/winery-system/internal/api"
	"github.com/vinealabs/winery-system/internal/core/service"
	mongorepo "github.com/vinealabs/winery-system/internal/infrastructure/db/mongo"
	redisrepo "github.com/vinealabs/winery-system/internal/infrastructure/db/redis"
	"github.com/vinealabs/winery-system/internal/infrastructure/queue"
	"github.com/vinealabs/winery-system/internal/pkg/config"
	"github.com/vinealabs/winery-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongorepo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisrepo.Connect(ctx, redisrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// Sensor readings flow through a sharded worker pool so measurements for
	// the same batch never race each other.
	dedup := redisrepo.NewDedupChecker(rdb)
	processor := service.NewReadingService(mongorepo.NewFermentationRepository(db), dedup, log)
	dispatcher := queue.NewDispatcher(cfg.ReadingWorkers, processor, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.RouterDeps{
		DB:          db,
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		JWTTTLHours: cfg.JWTTTLHours,
		Queue:       dispatcher,
		Logger:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
