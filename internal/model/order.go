package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	OrderStatusProcessing OrderStatus = 1
	OrderStatusShipped    OrderStatus = 2
	OrderStatusDelivered  OrderStatus = 3
	OrderStatusCancelled  OrderStatus = 4
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusProcessing: "Processing",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
}

// orderTransitions lists the statuses reachable from each status.
// Delivered and Cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents a completed purchase.
type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	UserID           uuid.UUID   `json:"userId" db:"user_id"`
	OrderStatusID    OrderStatus `json:"orderStatusId" db:"order_status_id"`
	OrderDate        time.Time   `json:"orderDate" db:"order_date"`
	TotalAmountCents int64       `json:"totalAmountCents" db:"total_amount_cents"`
	ShippingAddress  string      `json:"shippingAddress" db:"shipping_address"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	LastUpdatedAt    time.Time   `json:"lastUpdatedAt" db:"last_updated_at"`
	Items            []OrderItem `json:"items"`
}

// OrderItem is a line of an order. PriceAtPurchaseCents is frozen at checkout.
type OrderItem struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	OrderID              uuid.UUID `json:"orderId" db:"order_id"`
	ProductVariantID     uuid.UUID `json:"productVariantId" db:"product_variant_id"`
	Quantity             int       `json:"quantity" db:"quantity"`
	PriceAtPurchaseCents int64     `json:"priceAtPurchaseCents" db:"price_at_purchase_cents"`
}

// MaxShippingAddressLength bounds CheckoutRequest.ShippingAddress.
const MaxShippingAddressLength = 500

// CheckoutRequest represents the request payload for checking out the cart.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	Order
	Status string `json:"status"`
}

// NewOrderResponse wraps order with its status name.
func NewOrderResponse(order Order) OrderResponse {
	if order.Items == nil {
		order.Items = []OrderItem{}
	}
	return OrderResponse{Order: order, Status: order.OrderStatusID.String()}
}
