// Package outbox records domain events in the same transaction as the state
// change that produced them and relays them to Kafka afterwards.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Event types written by the store.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is a domain event waiting to be published.
type Event struct {
	ID      uuid.UUID
	Type    string
	Key     string
	Payload any
}

// Record is a stored outbox row.
type Record struct {
	ID        int64           `json:"id"`
	EventID   uuid.UUID       `json:"eventId"`
	EventType string          `json:"eventType"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	SentAt    *time.Time      `json:"sentAt,omitempty"`
}

// Writer appends events inside a caller-owned transaction.
type Writer interface {
	Append(ctx context.Context, tx pgx.Tx, event Event) error
}

type writer struct {
	logger zerolog.Logger
}

// NewWriter creates a Writer backed by the outbox table.
func NewWriter(logger zerolog.Logger) Writer {
	return &writer{logger: logger.With().Str("component", "outbox-writer").Logger()}
}

// Append inserts the event in tx. It becomes visible to the relay only if tx commits.
func (w *writer) Append(ctx context.Context, tx pgx.Tx, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	data, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO outbox (event_id, event_type, key, payload) VALUES ($1, $2, $3, $4)`,
		event.ID, event.Type, event.Key, data,
	)
	if err != nil {
		w.logger.Error().Err(err).Str("event_type", event.Type).Str("key", event.Key).Msg("failed to append outbox event")
		return fmt.Errorf("failed to append outbox event: %w", err)
	}

	w.logger.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		Msg("outbox event appended")

	return nil
}

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	OrderID          uuid.UUID         `json:"orderId"`
	UserID           uuid.UUID         `json:"userId"`
	OrderDate        time.Time         `json:"orderDate"`
	TotalAmountCents int64             `json:"totalAmountCents"`
	ShippingAddress  string            `json:"shippingAddress"`
	Items            []OrderPlacedItem `json:"items"`
}

// OrderPlacedItem is a line of OrderPlaced.
type OrderPlacedItem struct {
	ProductVariantID     uuid.UUID `json:"productVariantId"`
	Quantity             int       `json:"quantity"`
	PriceAtPurchaseCents int64     `json:"priceAtPurchaseCents"`
}

// OrderStatusChanged is the payload of EventOrderStatusChanged.
type OrderStatusChanged struct {
	OrderID   uuid.UUID `json:"orderId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy uuid.UUID `json:"changedBy"`
}
