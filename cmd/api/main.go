package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nova-bank/nova_bank/internal/config"
	"github.com/nova-bank/nova_bank/internal/exchange"
	"github.com/nova-bank/nova_bank/internal/infra"
	"github.com/nova-bank/nova_bank/internal/logging"
	"github.com/nova-bank/nova_bank/internal/notification"
	"github.com/nova-bank/nova_bank/internal/server"
	"github.com/nova-bank/nova_bank/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}()

	srv, err := server.New(cfg, db, cache, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	// Background consumers: the retrying notification pipeline, the
	// centralized dead-letter handler and the at-most-once rate feed.
	consumerCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "api"
	}

	notificationSvc := notification.NewService(notification.NewPostgresRepository(db), logger)
	pipeline := notification.NewPipeline(cache, notificationSvc, cfg.Retry, hostname, logger)
	go pipeline.Run(consumerCtx)

	dlt := stream.NewDLTConsumer(cache, "bank-dlt-processor", hostname, logger)
	go dlt.Run(consumerCtx, stream.DLTChannel(notification.Channel))

	exchangeSvc := exchange.NewService(exchange.NewPostgresRepository(db), logger)
	rates := exchange.NewRatesConsumer(cache, exchangeSvc, logger)
	go rates.Run(consumerCtx)

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	stopConsumers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
