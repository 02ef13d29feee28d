package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clothing-store/internal/metrics"
	"clothing-store/internal/model"
	"clothing-store/internal/outbox"
	"clothing-store/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const saleReason = "Sale"

// orderService implements OrderService.
type orderService struct {
	transactor  repository.Transactor
	cartRepo    repository.CartRepository
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logRepo     repository.InventoryLogRepository
	events      outbox.Writer
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// OrderRepositories groups the stores the order service works across.
type OrderRepositories struct {
	Cart         repository.CartRepository
	Variant      repository.VariantRepository
	Product      repository.ProductRepository
	Order        repository.OrderRepository
	InventoryLog repository.InventoryLogRepository
}

// NewOrderService creates a new order service. m may be nil.
func NewOrderService(
	transactor repository.Transactor,
	repos OrderRepositories,
	events outbox.Writer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		transactor:  transactor,
		cartRepo:    repos.Cart,
		variantRepo: repos.Variant,
		productRepo: repos.Product,
		orderRepo:   repos.Order,
		logRepo:     repos.InventoryLog,
		events:      events,
		metrics:     m,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout turns the caller's cart into an order. Loading, validation, order
// creation, stock decrement, ledger writes and cart clearing share one
// transaction; the cart and every referenced variant stay row-locked until it ends.
func (s *orderService) Checkout(ctx context.Context, actor model.Actor, req *model.CheckoutRequest) (_ *model.OrderResponse, err error) {
	var (
		total int64
		units int
	)
	defer func() {
		switch {
		case err == nil:
			s.metrics.ObserveCheckout(metrics.CheckoutSucceeded, total, units)
		case isDomainError(err):
			s.metrics.ObserveCheckout(metrics.CheckoutRejected, 0, 0)
		default:
			s.metrics.ObserveCheckout(metrics.CheckoutFailed, 0, 0)
		}
	}()

	address, err := validateCheckoutRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Load
	cart, err := s.cartRepo.LockByUserID(ctx, tx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	// Resolve & validate
	variants, prices, err := s.resolveCart(ctx, tx, cart)
	if err != nil {
		return nil, err
	}

	// Price & total
	now := time.Now().UTC()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          actor.UserID,
		OrderStatusID:   model.OrderStatusProcessing,
		OrderDate:       now,
		ShippingAddress: address,
		CreatedAt:       now,
		LastUpdatedAt:   now,
	}
	order.Items = make([]model.OrderItem, len(cart.Items))
	for i, ci := range cart.Items {
		price := prices[ci.ProductVariantID]
		order.Items[i] = model.OrderItem{
			ID:                   uuid.New(),
			OrderID:              order.ID,
			ProductVariantID:     ci.ProductVariantID,
			Quantity:             ci.Quantity,
			PriceAtPurchaseCents: price,
		}
		total += int64(ci.Quantity) * price
		units += ci.Quantity
	}
	order.TotalAmountCents = total

	// Create order
	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// Decrement stock and write the ledger
	reason := saleReason
	logs := make([]model.InventoryLog, 0, len(cart.Items))
	for _, ci := range cart.Items {
		var newStock int
		newStock, err = s.variantRepo.ApplyStockChange(ctx, tx, ci.ProductVariantID, -ci.Quantity, actor.AuditID(), now)
		if err != nil {
			if errors.Is(err, repository.ErrStockUnavailable) {
				err = model.BadRequest(model.ErrCodeInsufficientStock, "Insufficient stock for variant %s", ci.ProductVariantID)
				return nil, err
			}
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		logs = append(logs, model.InventoryLog{
			ID:               uuid.New(),
			ProductVariantID: ci.ProductVariantID,
			ChangeTypeID:     model.ChangeTypeSale,
			ChangeQuantity:   -ci.Quantity,
			NewStockQuantity: newStock,
			Reason:           &reason,
			CreatedAt:        now,
			CreatedBy:        actor.AuditID(),
		})
	}
	if err = s.logRepo.CreateBatch(ctx, tx, logs); err != nil {
		return nil, fmt.Errorf("failed to record inventory logs: %w", err)
	}

	// Finalize
	if err = s.events.Append(ctx, tx, orderPlacedEvent(order)); err != nil {
		return nil, fmt.Errorf("failed to record order event: %w", err)
	}
	if _, err = s.cartRepo.DeleteAllByCartID(ctx, tx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", actor.UserID.String()).
		Int("item_count", len(order.Items)).
		Int("variant_count", len(variants)).
		Int64("total_cents", total).
		Msg("order placed")

	resp := model.NewOrderResponse(*order)
	return &resp, nil
}

// resolveCart batch-loads and locks the cart's variants, batch-loads their
// products and validates stock. It returns the variants and the unit price per variant.
func (s *orderService) resolveCart(ctx context.Context, tx pgx.Tx, cart *model.Cart) (map[uuid.UUID]model.ProductVariant, map[uuid.UUID]int64, error) {
	variantIDs := make([]uuid.UUID, 0, len(cart.Items))
	seen := make(map[uuid.UUID]bool, len(cart.Items))
	for _, ci := range cart.Items {
		if !seen[ci.ProductVariantID] {
			seen[ci.ProductVariantID] = true
			variantIDs = append(variantIDs, ci.ProductVariantID)
		}
	}

	locked, err := s.variantRepo.LockByIDs(ctx, tx, variantIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load variants: %w", err)
	}

	variants := make(map[uuid.UUID]model.ProductVariant, len(locked))
	productIDs := make([]uuid.UUID, 0, len(locked))
	seenProducts := make(map[uuid.UUID]bool, len(locked))
	for _, v := range locked {
		variants[v.ID] = v
		if !seenProducts[v.ProductID] {
			seenProducts[v.ProductID] = true
			productIDs = append(productIDs, v.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDsTx(ctx, tx, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load products: %w", err)
	}

	productPrices := make(map[uuid.UUID]int64, len(products))
	for _, p := range products {
		productPrices[p.ID] = p.PriceCents
	}

	prices := make(map[uuid.UUID]int64, len(variants))
	for _, ci := range cart.Items {
		v, ok := variants[ci.ProductVariantID]
		if !ok {
			return nil, nil, model.NotFound(model.ErrCodeVariantNotFound, "Product variant with Id %s not found", ci.ProductVariantID)
		}
		price, ok := productPrices[v.ProductID]
		if !ok {
			return nil, nil, model.NotFound(model.ErrCodeProductNotFound, "Product with Id %s not found", v.ProductID)
		}
		if ci.Quantity > v.StockQuantity {
			s.logger.Warn().
				Str("variant_id", v.ID.String()).
				Int("requested", ci.Quantity).
				Int("stock", v.StockQuantity).
				Msg("insufficient stock at checkout")
			return nil, nil, model.BadRequest(model.ErrCodeInsufficientStock, "Insufficient stock for variant %s", v.ID)
		}
		prices[v.ID] = price
	}

	return variants, prices, nil
}

// UpdateStatus moves an order along the status graph with the order row locked.
func (s *orderService) UpdateStatus(ctx context.Context, actor model.Actor, orderID uuid.UUID, status model.OrderStatus) (_ *model.OrderResponse, err error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.LockByID(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	previous := order.OrderStatusID
	if !previous.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", previous.String()).
			Str("to", status.String()).
			Msg("illegal order status transition")
		return nil, model.Conflict(model.ErrCodeIllegalTransition,
			"Order cannot move from %s to %s", previous, status)
	}

	now := time.Now().UTC()
	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, status, now); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	err = s.events.Append(ctx, tx, outbox.Event{
		Type: outbox.EventOrderStatusChanged,
		Key:  orderID.String(),
		Payload: outbox.OrderStatusChanged{
			OrderID:   orderID,
			From:      previous.String(),
			To:        status.String(),
			ChangedAt: now,
			ChangedBy: actor.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record order event: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", previous.String()).
		Str("to", status.String()).
		Str("actor", actor.UserID.String()).
		Msg("order status updated")

	updated, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	resp := model.NewOrderResponse(*updated)
	return &resp, nil
}

// GetByID returns the order to its owner or an admin.
func (s *orderService) GetByID(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, model.ErrOrderForbidden
	}

	resp := model.NewOrderResponse(*order)
	return &resp, nil
}

// ListMine retrieves the actor's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, actor model.Actor) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return toOrderResponses(orders), nil
}

// ListAll retrieves every order, newest first.
func (s *orderService) ListAll(ctx context.Context, limit, offset int) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return toOrderResponses(orders), nil
}

func validateCheckoutRequest(req *model.CheckoutRequest) (string, error) {
	if req == nil {
		return "", model.ErrAddressRequired
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return "", model.ErrAddressRequired
	}
	if len([]rune(address)) > model.MaxShippingAddressLength {
		return "", model.BadRequest(model.ErrCodeInvalidAddress,
			"Shipping address must not exceed %d characters", model.MaxShippingAddressLength)
	}
	return address, nil
}

func orderPlacedEvent(order *model.Order) outbox.Event {
	items := make([]outbox.OrderPlacedItem, len(order.Items))
	for i, it := range order.Items {
		items[i] = outbox.OrderPlacedItem{
			ProductVariantID:     it.ProductVariantID,
			Quantity:             it.Quantity,
			PriceAtPurchaseCents: it.PriceAtPurchaseCents,
		}
	}

	return outbox.Event{
		Type: outbox.EventOrderPlaced,
		Key:  order.ID.String(),
		Payload: outbox.OrderPlaced{
			OrderID:          order.ID,
			UserID:           order.UserID,
			OrderDate:        order.OrderDate,
			TotalAmountCents: order.TotalAmountCents,
			ShippingAddress:  order.ShippingAddress,
			Items:            items,
		},
	}
}

func toOrderResponses(orders []model.Order) []model.OrderResponse {
	out := make([]model.OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = model.NewOrderResponse(o)
	}
	return out
}

func isDomainError(err error) bool {
	_, ok := model.AsDomainError(err)
	return ok
}
