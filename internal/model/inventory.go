package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxQuantity is the largest stock level or cart line quantity the integer
// columns hold.
const MaxQuantity = math.MaxInt32

// ChangeType is the reason category of an inventory log entry.
type ChangeType int

const (
	ChangeTypeSale       ChangeType = 1
	ChangeTypeRestock    ChangeType = 2
	ChangeTypeAdjustment ChangeType = 3
	ChangeTypeReturn     ChangeType = 4
	ChangeTypeDamage     ChangeType = 5
)

var changeTypeNames = map[ChangeType]string{
	ChangeTypeSale:       "Sale",
	ChangeTypeRestock:    "Restock",
	ChangeTypeAdjustment: "Adjustment",
	ChangeTypeReturn:     "Return",
	ChangeTypeDamage:     "Damage",
}

// Valid reports whether c is a known change type.
func (c ChangeType) Valid() bool {
	_, ok := changeTypeNames[c]
	return ok
}

func (c ChangeType) String() string {
	if name, ok := changeTypeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// InventoryLog is an immutable record of one stock change.
// Invariant: stock before + ChangeQuantity == NewStockQuantity >= 0.
type InventoryLog struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ProductVariantID uuid.UUID  `json:"productVariantId" db:"product_variant_id"`
	ChangeTypeID     ChangeType `json:"changeTypeId" db:"change_type_id"`
	ChangeQuantity   int        `json:"changeQuantity" db:"change_quantity"`
	NewStockQuantity int        `json:"newStockQuantity" db:"new_stock_quantity"`
	Reason           *string    `json:"reason,omitempty" db:"reason"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	CreatedBy        *uuid.UUID `json:"createdBy,omitempty" db:"created_by"`
}

// InventoryLogView is a log entry enriched for display.
type InventoryLogView struct {
	InventoryLog
	ProductVariantSku string `json:"productVariantSku"`
	ChangeType        string `json:"changeType"`
}

// NewInventoryLogView enriches log with the variant SKU and change type name.
func NewInventoryLogView(log InventoryLog, sku string) InventoryLogView {
	return InventoryLogView{
		InventoryLog:      log,
		ProductVariantSku: sku,
		ChangeType:        log.ChangeTypeID.String(),
	}
}

// AdjustStockRequest represents a manual stock adjustment.
type AdjustStockRequest struct {
	ProductVariantID uuid.UUID  `json:"productVariantId"`
	ChangeType       ChangeType `json:"changeType"`
	ChangeQuantity   int        `json:"changeQuantity"`
	Reason           *string    `json:"reason,omitempty"`
}
