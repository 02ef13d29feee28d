package restock

import (
	"context"
	"fmt"

	"clothing-store/internal/model"

	"github.com/rs/zerolog"
)

// StockAdjuster applies a ledger change. service.InventoryService implements it.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, actor model.Actor, req *model.AdjustStockRequest) (*model.InventoryLogView, error)
}

// VariantFinder resolves variants by SKU.
type VariantFinder interface {
	GetBySKU(ctx context.Context, sku string) (*model.ProductVariant, error)
}

// Report summarises an import.
type Report struct {
	Source     string      `json:"source"`
	Applied    int         `json:"applied"`
	UnitsAdded int         `json:"unitsAdded"`
	Failed     []LineError `json:"failed"`
}

// Importer applies restock batches line by line. A failing line is reported
// and the import moves on; every applied line is its own ledger transaction.
type Importer struct {
	variants  VariantFinder
	inventory StockAdjuster
	logger    zerolog.Logger
}

// NewImporter creates an Importer.
func NewImporter(variants VariantFinder, inventory StockAdjuster, logger zerolog.Logger) *Importer {
	return &Importer{
		variants:  variants,
		inventory: inventory,
		logger:    logger.With().Str("component", "restock-importer").Logger(),
	}
}

// Import applies batch as Restock entries made by actor.
func (i *Importer) Import(ctx context.Context, actor model.Actor, batch *Batch) (*Report, error) {
	report := &Report{
		Source: batch.Source,
		Failed: append([]LineError{}, batch.Invalid...),
	}

	for _, line := range batch.Lines {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		variant, err := i.variants.GetBySKU(ctx, line.SKU)
		if err != nil {
			return report, fmt.Errorf("failed to resolve sku %s: %w", line.SKU, err)
		}
		if variant == nil {
			report.Failed = append(report.Failed, LineError{Number: line.Number, SKU: line.SKU, Reason: "unknown sku"})
			continue
		}

		reason := line.Reason
		if reason == "" {
			reason = "Restock import " + batch.Source
		}

		view, err := i.inventory.AdjustStock(ctx, actor, &model.AdjustStockRequest{
			ProductVariantID: variant.ID,
			ChangeType:       model.ChangeTypeRestock,
			ChangeQuantity:   line.Quantity,
			Reason:           &reason,
		})
		if err != nil {
			if de, ok := model.AsDomainError(err); ok {
				report.Failed = append(report.Failed, LineError{Number: line.Number, SKU: line.SKU, Reason: de.Message})
				continue
			}
			return report, fmt.Errorf("failed to apply line %d: %w", line.Number, err)
		}

		report.Applied++
		report.UnitsAdded += line.Quantity
		i.logger.Debug().
			Str("sku", line.SKU).
			Int("quantity", line.Quantity).
			Int("new_stock", view.NewStockQuantity).
			Msg("restock line applied")
	}

	i.logger.Info().
		Str("source", batch.Source).
		Int("applied", report.Applied).
		Int("units", report.UnitsAdded).
		Int("failed", len(report.Failed)).
		Msg("restock import finished")

	return report, nil
}
