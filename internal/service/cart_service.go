package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	transactor  repository.Transactor
	cartRepo    repository.CartRepository
	variantRepo repository.VariantRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	transactor repository.Transactor,
	cartRepo repository.CartRepository,
	variantRepo repository.VariantRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		transactor:  transactor,
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the caller's cart with its items.
func (s *cartService) GetCart(ctx context.Context, actor model.Actor) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.UserID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	return cart, nil
}

// AddItem checks the requested quantity against current stock and upserts the line.
func (s *cartService) AddItem(ctx context.Context, actor model.Actor, req *model.AddCartItemRequest) (*model.CartItem, error) {
	if req == nil {
		return nil, model.BadRequest(model.ErrCodeMissingField, "request body is required")
	}
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	var item *model.CartItem
	err := s.withLockedCart(ctx, actor, func(tx pgx.Tx, cart *model.Cart) error {
		if err := s.checkStock(ctx, tx, req.ProductVariantID, req.Quantity); err != nil {
			return err
		}
		for _, existing := range cart.Items {
			if existing.ProductVariantID == req.ProductVariantID && existing.Quantity+req.Quantity > model.MaxQuantity {
				return model.ErrQuantityTooLarge
			}
		}

		now := time.Now().UTC()
		item = &model.CartItem{
			ID:               uuid.New(),
			CartID:           cart.ID,
			ProductVariantID: req.ProductVariantID,
			Quantity:         req.Quantity,
			CreatedAt:        now,
			LastUpdatedAt:    now,
		}
		if err := s.cartRepo.AddItem(ctx, tx, item); err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", item.CartID.String()).
		Str("variant_id", req.ProductVariantID.String()).
		Int("quantity", item.Quantity).
		Msg("cart item added")

	return item, nil
}

// UpdateItem re-validates against the variant's current stock before overwriting.
func (s *cartService) UpdateItem(ctx context.Context, actor model.Actor, itemID uuid.UUID, req *model.UpdateCartItemRequest) (*model.CartItem, error) {
	if req == nil {
		return nil, model.BadRequest(model.ErrCodeMissingField, "request body is required")
	}
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	var item *model.CartItem
	err := s.withLockedCart(ctx, actor, func(tx pgx.Tx, cart *model.Cart) error {
		var err error
		if item, err = s.ownedItem(ctx, tx, actor, cart, itemID); err != nil {
			return err
		}
		if err := s.checkStock(ctx, tx, item.ProductVariantID, req.Quantity); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, req.Quantity, now); err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Quantity = req.Quantity
		item.LastUpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItem deletes a line from the caller's cart.
func (s *cartService) RemoveItem(ctx context.Context, actor model.Actor, itemID uuid.UUID) error {
	err := s.withLockedCart(ctx, actor, func(tx pgx.Tx, cart *model.Cart) error {
		item, err := s.ownedItem(ctx, tx, actor, cart, itemID)
		if err != nil {
			return err
		}
		if err := s.cartRepo.DeleteItem(ctx, tx, item.ID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("cart_item_id", itemID.String()).Msg("cart item removed")
	return nil
}

// withLockedCart runs fn in a transaction holding the caller's cart row lock,
// the same lock checkout takes, and commits when fn succeeds.
func (s *cartService) withLockedCart(ctx context.Context, actor model.Actor, fn func(tx pgx.Tx, cart *model.Cart) error) (err error) {
	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.LockByUserID(ctx, tx, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.UserID.String()).Msg("failed to lock cart")
		return fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return model.ErrCartNotFound
	}

	if err = fn(tx, cart); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}

// ownedItem finds itemID in the locked cart. An item outside it is either
// missing or belongs to another cart.
func (s *cartService) ownedItem(ctx context.Context, tx pgx.Tx, actor model.Actor, cart *model.Cart, itemID uuid.UUID) (*model.CartItem, error) {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			item := cart.Items[i]
			return &item, nil
		}
	}

	item, err := s.cartRepo.GetItemByID(ctx, tx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	s.logger.Warn().
		Str("user_id", actor.UserID.String()).
		Str("cart_item_id", itemID.String()).
		Msg("cart item belongs to another cart")
	return nil, model.ErrCartItemForbidden
}

func (s *cartService) checkStock(ctx context.Context, tx pgx.Tx, variantID uuid.UUID, quantity int) error {
	variant, err := s.variantRepo.GetByIDTx(ctx, tx, variantID)
	if err != nil {
		return fmt.Errorf("failed to get variant: %w", err)
	}
	if variant == nil {
		return model.ErrVariantNotFound
	}
	if quantity > variant.StockQuantity {
		return model.ErrQuantityExceeds
	}
	return nil
}
