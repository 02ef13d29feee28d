package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a clothing product in the catalogue. Prices are in minor units.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	PriceCents  int64     `json:"priceCents" db:"price_cents"`
	SkuPrefix   string    `json:"skuPrefix" db:"sku_prefix"`
	Category    string    `json:"category" db:"category"`
	Brand       string    `json:"brand" db:"brand"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ProductVariant is a purchasable SKU of a product (size and colour combination).
// StockQuantity is only ever changed through the inventory ledger.
type ProductVariant struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ProductID     uuid.UUID  `json:"productId" db:"product_id"`
	Size          string     `json:"size" db:"size"`
	Color         string     `json:"color" db:"color"`
	Sku           string     `json:"sku" db:"sku"`
	StockQuantity int        `json:"stockQuantity" db:"stock_quantity"`
	ImageURL      *string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	CreatedBy     *uuid.UUID `json:"createdBy,omitempty" db:"created_by"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt" db:"last_updated_at"`
	LastUpdatedBy *uuid.UUID `json:"lastUpdatedBy,omitempty" db:"last_updated_by"`
}

// ProductDetail is a product together with its variants.
type ProductDetail struct {
	Product
	Variants []ProductVariant `json:"variants"`
}
