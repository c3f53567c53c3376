package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeynil/kapitalist/internal/api"
	"github.com/honeynil/kapitalist/internal/config"
	"github.com/honeynil/kapitalist/internal/database"
	"github.com/honeynil/kapitalist/internal/handler"
	"github.com/honeynil/kapitalist/internal/infrastructure/auth"
	"github.com/honeynil/kapitalist/internal/infrastructure/kafka"
	infraobs "github.com/honeynil/kapitalist/internal/infrastructure/observability"
	"github.com/honeynil/kapitalist/internal/infrastructure/redis"
	"github.com/honeynil/kapitalist/internal/observability"
	core "github.com/honeynil/kapitalist/internal/repository/postgres"
	service "github.com/honeynil/kapitalist/internal/services"
	"go.uber.org/zap"
)

const serviceName = "kapitalist"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infraobs.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownObservability, err := observability.Setup(ctx, serviceName, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObservability(shutdownCtx); err != nil {
			logger.Error("observability shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, logger); err != nil {
		return err
	}

	// The wallet cache is optional; without Redis every read goes to Postgres.
	var cache redis.RedisClient
	if redisClient, err := redis.NewClient(ctx, cfg.RedisAddr, logger); err != nil {
		logger.Warn("wallet cache disabled", zap.Error(err))
	} else {
		cache = redisClient
		defer redisClient.Close()
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()
	publisher := service.NewEventPublisher(producer, logger)
	// Runs before producer.Close so in-flight events are delivered.
	defer publisher.Wait()

	jwtService, err := auth.NewJWTService(cfg.JWT, logger)
	if err != nil {
		return err
	}

	userRepo := core.NewPostgresUserRepository(db, logger)
	walletRepo := core.NewPostgresWalletRepository(db, logger)
	categoryRepo := core.NewPostgresCategoryRepository(db, logger)
	transactionRepo := core.NewPostgresTransactionRepository(db, logger)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, "kapitalist-categories", categoryRepo, logger)
	defer consumer.Close()
	go consumer.Consume(ctx)

	h := handler.NewHandler(
		service.NewUserService(userRepo, jwtService, publisher, logger),
		service.NewWalletService(walletRepo, cache, cfg.WalletCacheTTL, logger),
		service.NewCategoryService(categoryRepo, logger),
		service.NewTransactionService(transactionRepo, walletRepo, publisher, logger),
		logger,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.SetupRouter(h, jwtService, version, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr), zap.String("version", version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
