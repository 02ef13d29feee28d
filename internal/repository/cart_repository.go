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

const cartItemColumns = `id, cart_id, product_variant_id, quantity, created_at, last_updated_at`

// cartRepository implements CartRepository using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func scanCartItem(row pgx.Row) (model.CartItem, error) {
	var item model.CartItem
	err := row.Scan(&item.ID, &item.CartID, &item.ProductVariantID, &item.Quantity, &item.CreatedAt, &item.LastUpdatedAt)
	return item, err
}

// Create inserts a new, empty cart within the provided transaction.
func (r *cartRepository) Create(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	query := `INSERT INTO carts (id, user_id, created_at) VALUES ($1, $2, $3)`

	if _, err := tx.Exec(ctx, query, cart.ID, cart.UserID, cart.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID.String()).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Str("user_id", cart.UserID.String()).
		Msg("cart created")

	return nil
}

// GetByUserID retrieves the user's cart with its items.
func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return r.load(ctx, r.pool, userID, false)
}

// LockByUserID retrieves the user's cart with its items inside tx and holds the
// cart row lock. Checkout and every cart item write take this lock first, so
// an edit either lands before a checkout reads the cart or runs after it commits.
func (r *cartRepository) LockByUserID(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	return r.load(ctx, tx, userID, true)
}

func (r *cartRepository) load(ctx context.Context, q querier, userID uuid.UUID, lock bool) (*model.Cart, error) {
	cartQuery := `SELECT id, user_id, created_at FROM carts WHERE user_id = $1`
	if lock {
		cartQuery += ` FOR UPDATE`
	}

	var cart model.Cart
	err := q.QueryRow(ctx, cartQuery, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", userID.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// GetItemByID retrieves a single cart item inside tx.
func (r *cartRepository) GetItemByID(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*model.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = $1`

	item, err := scanCartItem(tx.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("cart_item_id", itemID.String()).Msg("cart item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_item_id", itemID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// AddItem inserts the line or sums the quantity into the existing line for the
// same variant. The stored row is scanned back into item.
func (r *cartRepository) AddItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (` + cartItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_variant_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + cartItemColumns

	stored, err := scanCartItem(tx.QueryRow(ctx, query,
		item.ID,
		item.CartID,
		item.ProductVariantID,
		item.Quantity,
		item.CreatedAt,
		item.LastUpdatedAt,
	))
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", item.CartID.String()).
			Str("variant_id", item.ProductVariantID.String()).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	*item = stored
	return nil
}

// UpdateItemQuantity overwrites the quantity of a cart item.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, quantity int, at time.Time) error {
	query := `UPDATE cart_items SET quantity = $2, last_updated_at = $3 WHERE id = $1`

	if _, err := tx.Exec(ctx, query, itemID, quantity, at); err != nil {
		r.logger.Error().Err(err).Str("cart_item_id", itemID.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return nil
}

// DeleteItem removes a single cart item.
func (r *cartRepository) DeleteItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
		r.logger.Error().Err(err).Str("cart_item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

// DeleteAllByCartID removes every item of a cart within the provided transaction.
func (r *cartRepository) DeleteAllByCartID(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cartID.String()).
		Int64("deleted", tag.RowsAffected()).
		Msg("cart cleared")

	return tag.RowsAffected(), nil
}
