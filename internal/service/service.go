package service

import (
	"context"

	"clothing-store/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read operations on the catalog.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product with its variants.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error)
}

// InventoryService maintains variant stock through the inventory ledger.
type InventoryService interface {
	// AdjustStock applies a manual stock change and records it in the ledger.
	AdjustStock(ctx context.Context, actor model.Actor, req *model.AdjustStockRequest) (*model.InventoryLogView, error)

	// ListLogs retrieves ledger entries, newest first.
	ListLogs(ctx context.Context, limit, offset int) ([]model.InventoryLogView, error)

	// ListVariantLogs retrieves the ledger of a single variant.
	ListVariantLogs(ctx context.Context, variantID uuid.UUID) ([]model.InventoryLogView, error)
}

// CartService defines operations on the caller's cart.
type CartService interface {
	// GetCart retrieves the caller's cart with its items.
	GetCart(ctx context.Context, actor model.Actor) (*model.Cart, error)

	// AddItem adds a variant to the cart, summing into an existing line.
	AddItem(ctx context.Context, actor model.Actor, req *model.AddCartItemRequest) (*model.CartItem, error)

	// UpdateItem sets the quantity of a cart line.
	UpdateItem(ctx context.Context, actor model.Actor, itemID uuid.UUID, req *model.UpdateCartItemRequest) (*model.CartItem, error)

	// RemoveItem deletes a cart line.
	RemoveItem(ctx context.Context, actor model.Actor, itemID uuid.UUID) error
}

// OrderService defines checkout and order management.
type OrderService interface {
	// Checkout converts the caller's cart into an order.
	Checkout(ctx context.Context, actor model.Actor, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, actor model.Actor, orderID uuid.UUID, status model.OrderStatus) (*model.OrderResponse, error)

	// GetByID retrieves an order visible to the actor.
	GetByID(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.OrderResponse, error)

	// ListMine retrieves the actor's orders.
	ListMine(ctx context.Context, actor model.Actor) ([]model.OrderResponse, error)

	// ListAll retrieves every order with pagination.
	ListAll(ctx context.Context, limit, offset int) ([]model.OrderResponse, error)
}

// UserService defines user registration.
type UserService interface {
	// Register creates a customer and its cart.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
}
