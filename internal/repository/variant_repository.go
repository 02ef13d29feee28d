package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const variantColumns = `id, product_id, size, color, sku, stock_quantity, image_url,
	created_at, created_by, last_updated_at, last_updated_by`

// variantRepository implements VariantRepository using PostgreSQL.
type variantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVariantRepository creates a new PostgreSQL-backed variant repository.
func NewVariantRepository(pool *pgxpool.Pool, logger zerolog.Logger) VariantRepository {
	return &variantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "variant").Logger(),
	}
}

func scanVariant(row pgx.Row) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := row.Scan(
		&v.ID,
		&v.ProductID,
		&v.Size,
		&v.Color,
		&v.Sku,
		&v.StockQuantity,
		&v.ImageURL,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	return v, err
}

func (r *variantRepository) collect(rows pgx.Rows) ([]model.ProductVariant, error) {
	defer rows.Close()

	variants := []model.ProductVariant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variant row")
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variant rows")
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	return variants, nil
}

func (r *variantRepository) getOne(row pgx.Row, field, value string) (*model.ProductVariant, error) {
	v, err := scanVariant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str(field, value).Msg("variant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str(field, value).Msg("failed to query variant")
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}
	return &v, nil
}

// GetByID retrieves a variant by its ID.
func (r *variantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`
	return r.getOne(r.pool.QueryRow(ctx, query, id), "variant_id", id.String())
}

// GetByIDTx retrieves a variant inside tx without locking it.
func (r *variantRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`
	return r.getOne(tx.QueryRow(ctx, query, id), "variant_id", id.String())
}

// GetBySKU retrieves a variant by its unique SKU.
func (r *variantRepository) GetBySKU(ctx context.Context, sku string) (*model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE sku = $1`
	return r.getOne(r.pool.QueryRow(ctx, query, sku), "sku", sku)
}

// LockByID reads a variant inside tx and holds its row lock until tx ends.
func (r *variantRepository) LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1 FOR UPDATE`
	return r.getOne(tx.QueryRow(ctx, query, id), "variant_id", id.String())
}

// GetByIDs retrieves multiple variants by their IDs in a single query.
func (r *variantRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductVariant, error) {
	if len(ids) == 0 {
		return []model.ProductVariant{}, nil
	}

	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = ANY($1) ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query variants by IDs")
		return nil, fmt.Errorf("failed to query variants by IDs: %w", err)
	}

	return r.collect(rows)
}

// LockByIDs reads and row-locks multiple variants inside tx. Locks are taken
// in ID order so concurrent checkouts over overlapping carts cannot deadlock.
func (r *variantRepository) LockByIDs(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.ProductVariant, error) {
	if len(ids) == 0 {
		return []model.ProductVariant{}, nil
	}

	query := `SELECT ` + variantColumns + `
		FROM product_variants
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to lock variants")
		return nil, fmt.Errorf("failed to lock variants: %w", err)
	}

	return r.collect(rows)
}

// GetByProductID retrieves all variants of a product.
func (r *variantRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + `
		FROM product_variants
		WHERE product_id = $1
		ORDER BY sku
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query product variants")
		return nil, fmt.Errorf("failed to query product variants: %w", err)
	}

	return r.collect(rows)
}

// ApplyStockChange adds delta to the variant stock in a single conditional
// statement, so the quantity can never be driven below zero.
func (r *variantRepository) ApplyStockChange(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	delta int,
	actor *uuid.UUID,
	at time.Time,
) (int, error) {
	query := `
		UPDATE product_variants
		SET stock_quantity = stock_quantity + $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING stock_quantity
	`

	var newStock int
	err := tx.QueryRow(ctx, query, id, delta, at, actor).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().
				Str("variant_id", id.String()).
				Int("delta", delta).
				Msg("stock change rejected")
			return 0, ErrStockUnavailable
		}
		r.logger.Error().Err(err).Str("variant_id", id.String()).Msg("failed to apply stock change")
		return 0, fmt.Errorf("failed to apply stock change: %w", err)
	}

	r.logger.Debug().
		Str("variant_id", id.String()).
		Int("delta", delta).
		Int("new_stock", newStock).
		Msg("stock updated")

	return newStock, nil
}
