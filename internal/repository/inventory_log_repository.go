package repository

import (
	"context"
	"fmt"

	"clothing-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const inventoryLogColumns = `id, product_variant_id, change_type_id, change_quantity,
	new_stock_quantity, reason, created_at, created_by`

const insertInventoryLog = `
	INSERT INTO inventory_logs (` + inventoryLogColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// inventoryLogRepository implements InventoryLogRepository using PostgreSQL.
// Rows are only ever inserted.
type inventoryLogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryLogRepository creates a new PostgreSQL-backed ledger repository.
func NewInventoryLogRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryLogRepository {
	return &inventoryLogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory_log").Logger(),
	}
}

func inventoryLogArgs(l *model.InventoryLog) []any {
	return []any{
		l.ID,
		l.ProductVariantID,
		int16(l.ChangeTypeID),
		l.ChangeQuantity,
		l.NewStockQuantity,
		l.Reason,
		l.CreatedAt,
		l.CreatedBy,
	}
}

// Create inserts a single ledger entry within the provided transaction.
func (r *inventoryLogRepository) Create(ctx context.Context, tx pgx.Tx, log *model.InventoryLog) error {
	if _, err := tx.Exec(ctx, insertInventoryLog, inventoryLogArgs(log)...); err != nil {
		r.logger.Error().
			Err(err).
			Str("variant_id", log.ProductVariantID.String()).
			Msg("failed to create inventory log")
		return fmt.Errorf("failed to create inventory log: %w", err)
	}

	r.logger.Debug().
		Str("log_id", log.ID.String()).
		Str("variant_id", log.ProductVariantID.String()).
		Int("change_quantity", log.ChangeQuantity).
		Msg("inventory log created")

	return nil
}

// CreateBatch inserts multiple ledger entries within the provided transaction.
func (r *inventoryLogRepository) CreateBatch(ctx context.Context, tx pgx.Tx, logs []model.InventoryLog) error {
	if len(logs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range logs {
		batch.Queue(insertInventoryLog, inventoryLogArgs(&logs[i])...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(logs); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("variant_id", logs[i].ProductVariantID.String()).
				Msg("failed to create inventory log")
			return fmt.Errorf("failed to create inventory log: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(logs)).Msg("inventory logs created")

	return nil
}

func (r *inventoryLogRepository) collect(rows pgx.Rows) ([]model.InventoryLog, error) {
	defer rows.Close()

	logs := []model.InventoryLog{}
	for rows.Next() {
		var (
			l          model.InventoryLog
			changeType int16
		)
		err := rows.Scan(
			&l.ID,
			&l.ProductVariantID,
			&changeType,
			&l.ChangeQuantity,
			&l.NewStockQuantity,
			&l.Reason,
			&l.CreatedAt,
			&l.CreatedBy,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan inventory log row")
			return nil, fmt.Errorf("failed to scan inventory log: %w", err)
		}
		l.ChangeTypeID = model.ChangeType(changeType)
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating inventory log rows")
		return nil, fmt.Errorf("error iterating inventory logs: %w", err)
	}

	return logs, nil
}

// GetAll retrieves ledger entries, newest first.
func (r *inventoryLogRepository) GetAll(ctx context.Context, limit, offset int) ([]model.InventoryLog, error) {
	limit, offset = limitOffset(limit, offset)

	query := `SELECT ` + inventoryLogColumns + `
		FROM inventory_logs
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query inventory logs")
		return nil, fmt.Errorf("failed to query inventory logs: %w", err)
	}

	return r.collect(rows)
}

// GetByVariantID retrieves the ledger of one variant, newest first.
func (r *inventoryLogRepository) GetByVariantID(ctx context.Context, variantID uuid.UUID) ([]model.InventoryLog, error) {
	query := `SELECT ` + inventoryLogColumns + `
		FROM inventory_logs
		WHERE product_variant_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, variantID)
	if err != nil {
		r.logger.Error().Err(err).Str("variant_id", variantID.String()).Msg("failed to query variant inventory logs")
		return nil, fmt.Errorf("failed to query variant inventory logs: %w", err)
	}

	return r.collect(rows)
}
