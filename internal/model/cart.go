package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the per-user shopping cart. Every registered user owns exactly one.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	Items     []CartItem `json:"items"`
}

// CartItem is a line in a cart referencing a product variant.
type CartItem struct {
	ID               uuid.UUID `json:"id" db:"id"`
	CartID           uuid.UUID `json:"cartId" db:"cart_id"`
	ProductVariantID uuid.UUID `json:"productVariantId" db:"product_variant_id"`
	Quantity         int       `json:"quantity" db:"quantity"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	LastUpdatedAt    time.Time `json:"lastUpdatedAt" db:"last_updated_at"`
}

// AddCartItemRequest represents the request payload for adding to the cart.
type AddCartItemRequest struct {
	ProductVariantID uuid.UUID `json:"productVariantId"`
	Quantity         int       `json:"quantity"`
}

// UpdateCartItemRequest represents the request payload for changing a cart line quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
