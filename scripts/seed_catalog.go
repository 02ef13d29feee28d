//go:build ignore

// seed_catalog inserts a small demo catalog with an admin user and writes a
// matching restock file for cmd/restock.
//
//	go run scripts/seed_catalog.go
package main

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"clothing-store/internal/config"
	"clothing-store/internal/database"
	"clothing-store/internal/model"
)

type sampleProduct struct {
	name       string
	prefix     string
	category   string
	priceCents int64
	sizes      []string
	colors     []string
}

var catalog = []sampleProduct{
	{name: "Linen Shirt", prefix: "LS", category: "Shirts", priceCents: 3900, sizes: []string{"S", "M", "L"}, colors: []string{"White", "Sand"}},
	{name: "Denim Jacket", prefix: "DJ", category: "Outerwear", priceCents: 8900, sizes: []string{"M", "L"}, colors: []string{"Indigo"}},
	{name: "Wool Socks", prefix: "WS", category: "Accessories", priceCents: 1200, sizes: []string{"One"}, colors: []string{"Grey", "Navy", "Red"}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	adminID := uuid.New()
	if _, err := pool.Exec(ctx, `INSERT INTO users (id, email, role) VALUES ($1, $2, $3)`,
		adminID, fmt.Sprintf("admin+%s@example.com", adminID.String()[:8]), model.RoleAdmin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO carts (id, user_id) VALUES ($1, $2)`, uuid.New(), adminID); err != nil {
		log.Fatalf("Failed to create admin cart: %v", err)
	}

	var skus []string
	for _, p := range catalog {
		productID := uuid.New()
		if _, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price_cents, sku_prefix, category, brand)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			productID, p.name, p.priceCents, p.prefix, p.category, "Acme"); err != nil {
			log.Fatalf("Failed to create product %s: %v", p.name, err)
		}

		for _, size := range p.sizes {
			for _, color := range p.colors {
				sku := fmt.Sprintf("%s-%s-%s", p.prefix, size, color)
				if _, err := pool.Exec(ctx, `
					INSERT INTO product_variants (id, product_id, size, color, sku, stock_quantity, created_by, last_updated_by)
					VALUES ($1, $2, $3, $4, $5, 0, $6, $6)`,
					uuid.New(), productID, size, color, sku, adminID); err != nil {
					log.Fatalf("Failed to create variant %s: %v", sku, err)
				}
				skus = append(skus, sku)
			}
		}
	}

	restockPath := filepath.Join("data", "restock", "sample.csv.gz")
	if err := writeRestockFile(restockPath, skus); err != nil {
		log.Fatalf("Failed to write %s: %v", restockPath, err)
	}

	fmt.Printf("Seeded %d products and %d variants\n", len(catalog), len(skus))
	fmt.Printf("Admin user: %s\n", adminID)
	fmt.Printf("\nApply the opening stock with:\n  go run ./cmd/restock -actor %s -file %s\n", adminID, restockPath)
}

func writeRestockFile(path string, skus []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.Write([]string{"sku", "quantity", "reason"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, sku := range skus {
		if err := w.Write([]string{sku, fmt.Sprint(10 + i%3*5), "Opening stock"}); err != nil {
			return fmt.Errorf("failed to write %s: %w", sku, err)
		}
	}
	w.Flush()

	return w.Error()
}
