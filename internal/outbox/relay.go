package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Message is what the relay hands to a Publisher.
type Message struct {
	Key       string
	EventType string
	EventID   string
	Value     []byte
	Time      time.Time
}

// Publisher delivers messages to the broker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// RelayObserver receives delivery outcomes. metrics.Metrics implements it.
type RelayObserver interface {
	OutboxPublished(eventType string)
	OutboxFailed(eventType string)
}

// Relay polls the outbox and forwards pending events to a Publisher.
type Relay struct {
	store     Store
	publisher Publisher
	observer  RelayObserver
	interval  time.Duration
	batchSize int
	logger    zerolog.Logger
}

// NewRelay creates a relay. observer may be nil.
func NewRelay(store Store, publisher Publisher, observer RelayObserver, interval time.Duration, batchSize int, logger zerolog.Logger) *Relay {
	return &Relay{
		store:     store,
		publisher: publisher,
		observer:  observer,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "outbox-relay").Logger(),
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info().
		Dur("interval", r.interval).
		Int("batch_size", r.batchSize).
		Msg("outbox relay started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error().Err(err).Msg("outbox relay pass failed")
			}
		}
	}
}

// RunOnce forwards one batch and returns how many records were delivered.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	sent, err := r.store.ProcessPending(ctx, r.batchSize, func(ctx context.Context, rec Record) error {
		err := r.publisher.Publish(ctx, Message{
			Key:       rec.Key,
			EventType: rec.EventType,
			EventID:   rec.EventID.String(),
			Value:     rec.Payload,
			Time:      rec.CreatedAt,
		})
		if r.observer != nil {
			if err != nil {
				r.observer.OutboxFailed(rec.EventType)
			} else {
				r.observer.OutboxPublished(rec.EventType)
			}
		}
		return err
	})

	if sent > 0 {
		r.logger.Debug().Int("sent", sent).Msg("outbox records delivered")
	}

	return sent, err
}
