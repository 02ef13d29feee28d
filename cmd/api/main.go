package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"clothing-store/internal/config"
	"clothing-store/internal/database"
	"clothing-store/internal/handler"
	"clothing-store/internal/metrics"
	"clothing-store/internal/outbox"
	"clothing-store/internal/repository"
	"clothing-store/internal/router"
	"clothing-store/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting clothing-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(cfg.Metrics.Namespace, reg)
	}

	// Initialize repositories
	transactor := repository.NewTransactor(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	variantRepo := repository.NewVariantRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	logRepo := repository.NewInventoryLogRepository(pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, variantRepo, logger)
	cartService := service.NewCartService(transactor, cartRepo, variantRepo, logger)
	inventoryService := service.NewInventoryService(transactor, variantRepo, logRepo, m, logger)
	userService := service.NewUserService(transactor, userRepo, cartRepo, logger)
	orderService := service.NewOrderService(transactor, service.OrderRepositories{
		Cart:         cartRepo,
		Variant:      variantRepo,
		Product:      productRepo,
		Order:        orderRepo,
		InventoryLog: logRepo,
	}, outbox.NewWriter(logger), m, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Product:   handler.NewProductHandler(productService, logger),
		Cart:      handler.NewCartHandler(cartService, logger),
		Order:     handler.NewOrderHandler(orderService, logger),
		Inventory: handler.NewInventoryHandler(inventoryService, logger),
		User:      handler.NewUserHandler(userService, logger),
	}, m, cfg.Auth.APIKey, logger)

	// Start the outbox relay when a broker is configured
	var wg sync.WaitGroup
	if cfg.Kafka.Enabled() {
		publisher := outbox.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer publisher.Close()

		relay := outbox.NewRelay(outbox.NewStore(pool, logger), publisher, m, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := relay.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("outbox relay stopped")
			}
		}()
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not set, order events stay in the outbox table")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		cancel()
		wg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Stop the relay after in-flight requests have committed their events
		cancel()
		wg.Wait()

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
