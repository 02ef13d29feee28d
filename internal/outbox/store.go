package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store hands pending records to a callback and marks the delivered ones sent.
type Store interface {
	// ProcessPending claims up to limit unsent records in insertion order and
	// calls fn for each. Processing stops at the first fn error; records
	// delivered before it are still marked sent.
	ProcessPending(ctx context.Context, limit int, fn func(context.Context, Record) error) (int, error)
}

type pgStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStore creates a Store on the outbox table.
func NewStore(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &pgStore{
		pool:   pool,
		logger: logger.With().Str("component", "outbox-store").Logger(),
	}
}

// ProcessPending claims rows with SKIP LOCKED so several relays can run side by side.
func (s *pgStore) ProcessPending(ctx context.Context, limit int, fn func(context.Context, Record) error) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, event_id, event_type, key, payload, created_at, sent_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to query pending outbox records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var rec Record
		err := row.Scan(&rec.ID, &rec.EventID, &rec.EventType, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt)
		return rec, err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan outbox records: %w", err)
	}

	sent := 0
	var deliverErr error
	for _, rec := range records {
		if deliverErr = fn(ctx, rec); deliverErr != nil {
			s.logger.Warn().
				Err(deliverErr).
				Int64("outbox_id", rec.ID).
				Str("event_type", rec.EventType).
				Msg("outbox delivery failed")
			break
		}
		if _, err := tx.Exec(ctx, `UPDATE outbox SET sent_at = $2 WHERE id = $1`, rec.ID, time.Now().UTC()); err != nil {
			return 0, fmt.Errorf("failed to mark outbox record sent: %w", err)
		}
		sent++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit outbox transaction: %w", err)
	}

	return sent, deliverErr
}
