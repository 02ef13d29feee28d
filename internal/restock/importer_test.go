package restock

import (
	"context"
	"errors"
	"testing"

	"clothing-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVariantFinder struct {
	mock.Mock
}

func (m *MockVariantFinder) GetBySKU(ctx context.Context, sku string) (*model.ProductVariant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductVariant), args.Error(1)
}

type MockStockAdjuster struct {
	mock.Mock
}

func (m *MockStockAdjuster) AdjustStock(ctx context.Context, actor model.Actor, req *model.AdjustStockRequest) (*model.InventoryLogView, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryLogView), args.Error(1)
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()
	admin := model.Actor{UserID: uuid.New(), Role: model.RoleAdmin}
	tee := &model.ProductVariant{ID: uuid.New(), Sku: "TEE"}
	capVariant := &model.ProductVariant{ID: uuid.New(), Sku: "CAP"}

	variants := new(MockVariantFinder)
	inventory := new(MockStockAdjuster)

	variants.On("GetBySKU", ctx, "TEE").Return(tee, nil)
	variants.On("GetBySKU", ctx, "CAP").Return(capVariant, nil)
	variants.On("GetBySKU", ctx, "GONE").Return(nil, nil)

	inventory.On("AdjustStock", ctx, admin, mock.MatchedBy(func(r *model.AdjustStockRequest) bool {
		return r.ProductVariantID == tee.ID && r.ChangeType == model.ChangeTypeRestock && r.ChangeQuantity == 4 &&
			r.Reason != nil && *r.Reason == "Restock import batch.gz"
	})).Return(&model.InventoryLogView{InventoryLog: model.InventoryLog{NewStockQuantity: 9}}, nil)
	inventory.On("AdjustStock", ctx, admin, mock.MatchedBy(func(r *model.AdjustStockRequest) bool {
		return r.ProductVariantID == capVariant.ID
	})).Return(nil, model.ErrStockOverflow)

	importer := NewImporter(variants, inventory, zerolog.Nop())
	report, err := importer.Import(ctx, admin, &Batch{
		Source: "batch.gz",
		Lines: []Line{
			{Number: 1, SKU: "TEE", Quantity: 4},
			{Number: 2, SKU: "GONE", Quantity: 1},
			{Number: 3, SKU: "CAP", Quantity: 2, Reason: "late"},
		},
		Invalid: []LineError{{Number: 4, Reason: "sku is empty"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "batch.gz", report.Source)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 4, report.UnitsAdded)
	require.Len(t, report.Failed, 3)
	assert.Equal(t, 4, report.Failed[0].Number)
	assert.Equal(t, LineError{Number: 2, SKU: "GONE", Reason: "unknown sku"}, report.Failed[1])
	assert.Equal(t, "New stock quantity cannot exceed 2147483647", report.Failed[2].Reason)
	inventory.AssertNumberOfCalls(t, "AdjustStock", 2)
}

func TestImporter_Import_InfrastructureErrorStops(t *testing.T) {
	ctx := context.Background()
	admin := model.Actor{UserID: uuid.New(), Role: model.RoleAdmin}

	variants := new(MockVariantFinder)
	inventory := new(MockStockAdjuster)
	variants.On("GetBySKU", ctx, "TEE").Return(&model.ProductVariant{ID: uuid.New()}, nil)
	inventory.On("AdjustStock", ctx, admin, mock.Anything).Return(nil, errors.New("connection refused"))

	importer := NewImporter(variants, inventory, zerolog.Nop())
	report, err := importer.Import(ctx, admin, &Batch{Lines: []Line{
		{Number: 1, SKU: "TEE", Quantity: 1},
		{Number: 2, SKU: "TEE", Quantity: 1},
	}})

	require.Error(t, err)
	assert.Equal(t, 0, report.Applied)
	inventory.AssertNumberOfCalls(t, "AdjustStock", 1)
}
