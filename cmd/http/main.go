package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fsanano/coffee-shop/internal/config"
	"fsanano/coffee-shop/internal/events"
	"fsanano/coffee-shop/internal/handler"
	"fsanano/coffee-shop/internal/repository"
	"fsanano/coffee-shop/internal/repository/memstore"
	"fsanano/coffee-shop/internal/service"
	"fsanano/coffee-shop/internal/service/auth"
	"fsanano/coffee-shop/internal/service/media"

	"github.com/jackc/pgx/v5/pgxpool"
)

type store interface {
	service.Store
	auth.UserStore
}

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	initLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup storage
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		fatal("failed to open store", err)
	}
	defer closeStore()

	bucket, err := media.OpenDir(cfg.Upload.Dir)
	if err != nil {
		fatal("failed to open upload storage", err)
	}
	uploads := media.New(bucket, cfg.Upload.MaxBytes)
	defer uploads.Close()

	// 3. Setup events
	var publisher service.OrderPublisher
	if cfg.EventsEnabled() {
		cl, err := events.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		if err != nil {
			fatal("failed to create kafka client", err)
		}
		producer, err := events.NewOrderProducer(cl, cfg.Kafka.OrdersTopic)
		if err != nil {
			fatal("failed to create order producer", err)
		}
		defer producer.Close()
		publisher = producer
		slog.Info("order events enabled", "topic", cfg.Kafka.OrdersTopic)
	}

	// 4. Setup logic
	shopService := service.NewShopService(st, publisher, service.Config{
		CatalogTTL:     cfg.CatalogCacheTTL,
		PublishTimeout: cfg.Kafka.PublishTimeout,
	})
	authService := auth.NewService(auth.Config{
		Secret:            []byte(cfg.Auth.JWTSecret),
		TokenTTL:          cfg.Auth.TokenTTL,
		AdminUsername:     cfg.Auth.AdminUsername,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
	}, st)

	h := handler.NewHandler(shopService, authService, uploads, handler.Options{
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})

	// 5. Setup server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 6. Run server with graceful shutdown
	go func() {
		slog.Info("starting server", "port", cfg.ServerPort, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
	}

	slog.Info("server exiting")
}

func initLogger(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
}

func openStore(ctx context.Context, cfg *config.Config) (store, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		return memstore.New(), func() {}, nil
	}

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	slog.Info("connected to database")

	return repository.NewShopRepository(dbPool), dbPool.Close, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
