package main

import (
	"context"
	"database/sql"
	"groupchat/internal/app/broadcast"
	"groupchat/internal/app/server"
	"groupchat/internal/app/worker"
	"groupchat/internal/config"
	"groupchat/internal/core/services"
	"groupchat/internal/platform/logger"
	"groupchat/internal/platform/telemetry"
	"groupchat/internal/plugins/postgres"
	redisPlugin "groupchat/internal/plugins/redis"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "DSN", cfg.Postgres.DSN)
		return
	}
	log.Info("postgres connected")
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	log.Info("redis connected")

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	msgRepo := postgres.NewMessageRepo(pdb)
	publisher := redisPlugin.NewStreamPublisher(rdb, cfg.Chat.StreamTopic)
	roster := redisPlugin.NewRoomRoster(rdb)

	// Core services
	broadcaster := broadcast.NewBroadcaster(log)
	sinkPool := worker.NewSinkPool(log, cfg.Sink.Workers, cfg.Sink.QueueSize)
	sinkPool.Start(ctx)

	tokenSvc := services.NewTokenService(cfg.JWTSecret)
	authSvc := services.NewAuthService(log, tokenSvc, userRepo)
	userSvc := services.NewUserService(log, userRepo, tokenSvc)
	chatSvc := services.NewChatService(log, broadcaster, msgRepo, publisher, userRepo, roster, sinkPool)

	// Server
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, cfg.Chat.Room, userSvc, authSvc, chatSvc)
	if err := srv.Start(); err != nil {
		log.Error("server stopped", "err", err)
	}
}
