package service

import (
	"context"
	"fmt"

	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	s.logger.Debug().
		Int("limit", limit).
		Int("offset", offset).
		Msg("getting all products")

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product with its variants.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	variants, err := s.variantRepo.GetByProductID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get variants")
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	if variants == nil {
		variants = []model.ProductVariant{}
	}

	return &model.ProductDetail{Product: *product, Variants: variants}, nil
}
