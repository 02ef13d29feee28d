package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"clothing-store/internal/database"
	"clothing-store/internal/model"
)

// testPoolMaxConns caps the shared test pool.
const testPoolMaxConns = 20

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = testPoolMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Catalog holds the two seeded variants.
type Catalog struct {
	X model.ProductVariant
	Y model.ProductVariant
}

// SeedUser inserts a user with an empty cart.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role string) model.User {
	t.Helper()

	ctx := context.Background()
	user := model.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: role}

	if _, err := pool.Exec(ctx, `INSERT INTO users (id, email, role) VALUES ($1, $2, $3)`, user.ID, user.Email, user.Role); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO carts (id, user_id) VALUES ($1, $2)`, uuid.New(), user.ID); err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}

	return user
}

// SeedCatalog inserts variant X (stock xStock, 1000 cents) and variant Y
// (stock yStock, 2500 cents), each under its own product.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool, xStock, yStock int) Catalog {
	t.Helper()

	shirt := seedProduct(t, pool, "Linen Shirt", "LS", 1000)
	jacket := seedProduct(t, pool, "Denim Jacket", "DJ", 2500)

	return Catalog{
		X: seedVariant(t, pool, shirt, "M", xStock),
		Y: seedVariant(t, pool, jacket, "L", yStock),
	}
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name, prefix string, priceCents int64) model.Product {
	t.Helper()

	product := model.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		SkuPrefix:  prefix + "-" + uuid.NewString()[:8],
		Category:   "Apparel",
		Brand:      "Acme",
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, price_cents, sku_prefix, category, brand)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		product.ID, product.Name, product.PriceCents, product.SkuPrefix, product.Category, product.Brand)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return product
}

func seedVariant(t *testing.T, pool *pgxpool.Pool, product model.Product, size string, stock int) model.ProductVariant {
	t.Helper()

	variant := model.ProductVariant{
		ID:            uuid.New(),
		ProductID:     product.ID,
		Size:          size,
		Color:         "Blue",
		Sku:           fmt.Sprintf("%s-%s-BLUE", product.SkuPrefix, size),
		StockQuantity: stock,
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO product_variants (id, product_id, size, color, sku, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		variant.ID, variant.ProductID, variant.Size, variant.Color, variant.Sku, variant.StockQuantity)
	if err != nil {
		t.Fatalf("failed to seed variant %s: %v", variant.Sku, err)
	}
	return variant
}

// Stock reads the current stock of a variant.
func Stock(t *testing.T, pool *pgxpool.Pool, variantID uuid.UUID) int {
	t.Helper()

	var stock int
	if err := pool.QueryRow(context.Background(),
		`SELECT stock_quantity FROM product_variants WHERE id = $1`, variantID).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}

// Count returns the number of rows in table matching where.
func Count(t *testing.T, pool *pgxpool.Pool, table, where string, args ...any) int {
	t.Helper()

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"outbox", "order_items", "orders", "cart_items", "carts", "inventory_logs", "product_variants", "products", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
