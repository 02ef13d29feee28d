// Command restock applies a CSV restock file to the inventory ledger.
//
//	restock -actor <admin-user-id> -file ./restock.csv.gz
//	restock -actor <admin-user-id> -s3-key 2026-10-16.csv.gz
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"clothing-store/internal/config"
	"clothing-store/internal/database"
	"clothing-store/internal/model"
	"clothing-store/internal/repository"
	"clothing-store/internal/restock"
	"clothing-store/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	filePath := flag.String("file", "", "local gzip-compressed CSV restock file")
	s3Key := flag.String("s3-key", "", "object name under S3_PREFIX in S3_BUCKET")
	actorID := flag.String("actor", "", "id of the admin user the ledger entries are attributed to")
	flag.Parse()

	if (*filePath == "") == (*s3Key == "") {
		return errors.New("exactly one of -file or -s3-key is required")
	}

	adminID, err := uuid.Parse(*actorID)
	if err != nil {
		return fmt.Errorf("invalid -actor: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).With().Str("command", "restock").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	admin, err := repository.NewUserRepository(pool, logger).GetByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("failed to load actor: %w", err)
	}
	if admin == nil || admin.Role != model.RoleAdmin {
		return fmt.Errorf("user %s is not an admin", adminID)
	}

	var (
		loader restock.Loader
		name   string
	)
	if *s3Key != "" {
		if !cfg.S3.Enabled {
			return errors.New("-s3-key requires S3_ENABLED=true")
		}
		loader, err = restock.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			return fmt.Errorf("failed to initialise S3 loader: %w", err)
		}
		name = *s3Key
	} else {
		loader = restock.NewFileLoader(logger)
		name = *filePath
	}

	batch, err := loader.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load restock file: %w", err)
	}

	variantRepo := repository.NewVariantRepository(pool, logger)
	inventory := service.NewInventoryService(
		repository.NewTransactor(pool, logger),
		variantRepo,
		repository.NewInventoryLogRepository(pool, logger),
		nil,
		logger,
	)

	actor := model.Actor{UserID: admin.ID, Role: admin.Role}
	report, err := restock.NewImporter(variantRepo, inventory, logger).Import(ctx, actor, batch)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			logger.Error().Err(encErr).Msg("failed to write report")
		}
	}
	if err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}

	return nil
}
