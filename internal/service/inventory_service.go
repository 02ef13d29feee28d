package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/metrics"
	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// inventoryService implements InventoryService.
type inventoryService struct {
	transactor  repository.Transactor
	variantRepo repository.VariantRepository
	logRepo     repository.InventoryLogRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewInventoryService creates a new inventory service. m may be nil.
func NewInventoryService(
	transactor repository.Transactor,
	variantRepo repository.VariantRepository,
	logRepo repository.InventoryLogRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) InventoryService {
	return &inventoryService{
		transactor:  transactor,
		variantRepo: variantRepo,
		logRepo:     logRepo,
		metrics:     m,
		logger:      logger.With().Str("service", "inventory").Logger(),
	}
}

// AdjustStock locks the variant, applies the change and writes the ledger row
// in one transaction.
func (s *inventoryService) AdjustStock(ctx context.Context, actor model.Actor, req *model.AdjustStockRequest) (_ *model.InventoryLogView, err error) {
	if req == nil {
		return nil, model.BadRequest(model.ErrCodeMissingField, "request body is required")
	}
	if !req.ChangeType.Valid() {
		return nil, model.ErrInvalidChangeType
	}
	if req.ChangeQuantity > model.MaxQuantity || req.ChangeQuantity < -model.MaxQuantity {
		return nil, model.ErrQuantityTooLarge
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	variant, err := s.variantRepo.LockByID(ctx, tx, req.ProductVariantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}
	if variant == nil {
		return nil, model.ErrVariantNotFound
	}

	if req.ChangeQuantity == 0 {
		return nil, model.ErrZeroQuantityChange
	}
	if variant.StockQuantity+req.ChangeQuantity < 0 {
		s.logger.Warn().
			Str("variant_id", variant.ID.String()).
			Int("stock", variant.StockQuantity).
			Int("change", req.ChangeQuantity).
			Msg("stock adjustment would go negative")
		return nil, model.ErrNegativeStock
	}
	if variant.StockQuantity+req.ChangeQuantity > model.MaxQuantity {
		return nil, model.ErrStockOverflow
	}

	now := time.Now().UTC()
	newStock, err := s.variantRepo.ApplyStockChange(ctx, tx, variant.ID, req.ChangeQuantity, actor.AuditID(), now)
	if err != nil {
		if errors.Is(err, repository.ErrStockUnavailable) {
			return nil, model.ErrNegativeStock
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	entry := model.InventoryLog{
		ID:               uuid.New(),
		ProductVariantID: variant.ID,
		ChangeTypeID:     req.ChangeType,
		ChangeQuantity:   req.ChangeQuantity,
		NewStockQuantity: newStock,
		Reason:           req.Reason,
		CreatedAt:        now,
		CreatedBy:        actor.AuditID(),
	}
	if err = s.logRepo.Create(ctx, tx, &entry); err != nil {
		return nil, fmt.Errorf("failed to record inventory log: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("variant_id", variant.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.metrics.ObserveStockAdjustment(req.ChangeType.String())
	s.logger.Info().
		Str("variant_id", variant.ID.String()).
		Str("change_type", req.ChangeType.String()).
		Int("change", req.ChangeQuantity).
		Int("new_stock", newStock).
		Msg("stock adjusted")

	view := model.NewInventoryLogView(entry, variant.Sku)
	return &view, nil
}

// ListLogs retrieves ledger entries with their SKUs resolved in one batch.
func (s *inventoryService) ListLogs(ctx context.Context, limit, offset int) ([]model.InventoryLogView, error) {
	logs, err := s.logRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get inventory logs")
		return nil, fmt.Errorf("failed to get inventory logs: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, l := range logs {
		if !seen[l.ProductVariantID] {
			seen[l.ProductVariantID] = true
			ids = append(ids, l.ProductVariantID)
		}
	}

	variants, err := s.variantRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve variant skus")
		return nil, fmt.Errorf("failed to resolve variant skus: %w", err)
	}

	skus := make(map[uuid.UUID]string, len(variants))
	for _, v := range variants {
		skus[v.ID] = v.Sku
	}

	views := make([]model.InventoryLogView, len(logs))
	for i, l := range logs {
		views[i] = model.NewInventoryLogView(l, skus[l.ProductVariantID])
	}

	return views, nil
}

// ListVariantLogs retrieves the ledger of a single variant.
func (s *inventoryService) ListVariantLogs(ctx context.Context, variantID uuid.UUID) ([]model.InventoryLogView, error) {
	variant, err := s.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}
	if variant == nil {
		return nil, model.ErrVariantNotFound
	}

	logs, err := s.logRepo.GetByVariantID(ctx, variantID)
	if err != nil {
		s.logger.Error().Err(err).Str("variant_id", variantID.String()).Msg("failed to get variant logs")
		return nil, fmt.Errorf("failed to get variant logs: %w", err)
	}

	views := make([]model.InventoryLogView, len(logs))
	for i, l := range logs {
		views[i] = model.NewInventoryLogView(l, variant.Sku)
	}

	return views, nil
}
