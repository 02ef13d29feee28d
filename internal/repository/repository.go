package repository

import (
	"context"
	"time"

	"clothing-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Transactor starts database transactions that span several repositories.
type Transactor interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs in a single query.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// GetByIDsTx retrieves multiple products inside tx.
	GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.Product, error)
}

// VariantRepository defines data access for product variants and their stock.
type VariantRepository interface {
	// GetByID retrieves a variant by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)

	// GetByIDs retrieves multiple variants by their IDs in a single query.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductVariant, error)

	// GetBySKU retrieves a variant by its unique SKU.
	GetBySKU(ctx context.Context, sku string) (*model.ProductVariant, error)

	// GetByProductID retrieves all variants of a product.
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]model.ProductVariant, error)

	// GetByIDTx retrieves a variant inside tx without locking it.
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.ProductVariant, error)

	// LockByID reads a variant inside tx and holds its row lock until tx ends.
	LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.ProductVariant, error)

	// LockByIDs reads and row-locks multiple variants inside tx, in ID order.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.ProductVariant, error)

	// ApplyStockChange adds delta to the variant stock and returns the new quantity.
	// It returns ErrStockUnavailable when the result would be negative.
	ApplyStockChange(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int, actor *uuid.UUID, at time.Time) (int, error)
}

// InventoryLogRepository defines data access for the append-only stock ledger.
type InventoryLogRepository interface {
	// Create inserts a single ledger entry within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, log *model.InventoryLog) error

	// CreateBatch inserts multiple ledger entries within the provided transaction.
	CreateBatch(ctx context.Context, tx pgx.Tx, logs []model.InventoryLog) error

	// GetAll retrieves ledger entries, newest first.
	GetAll(ctx context.Context, limit, offset int) ([]model.InventoryLog, error)

	// GetByVariantID retrieves the ledger of one variant, newest first.
	GetByVariantID(ctx context.Context, variantID uuid.UUID) ([]model.InventoryLog, error)
}

// CartRepository defines data access for carts and their items.
type CartRepository interface {
	// Create inserts a new, empty cart within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, cart *model.Cart) error

	// GetByUserID retrieves the user's cart with its items.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// LockByUserID retrieves the user's cart with its items inside tx,
	// holding the cart row lock until tx ends.
	LockByUserID(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error)

	// GetItemByID retrieves a single cart item inside tx.
	GetItemByID(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*model.CartItem, error)

	// AddItem inserts the item or, when the cart already holds the variant,
	// adds the quantity to the existing line. item is updated with the stored row.
	AddItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error

	// UpdateItemQuantity overwrites the quantity of a cart item.
	UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, quantity int, at time.Time) error

	// DeleteItem removes a single cart item.
	DeleteItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) error

	// DeleteAllByCartID removes every item of a cart within the provided transaction.
	DeleteAllByCartID(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// CreateOrder inserts a new order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByUserID retrieves a user's orders with items, newest first.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetAll retrieves all orders with items, newest first.
	GetAll(ctx context.Context, limit, offset int) ([]model.Order, error)

	// LockByID reads an order header inside tx and holds its row lock.
	LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateStatus sets the order status within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, at time.Time) error
}

// UserRepository defines data access for registered users.
type UserRepository interface {
	// Create inserts a user within the provided transaction.
	// It returns model.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, tx pgx.Tx, user *model.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
