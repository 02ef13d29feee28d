package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	transactor repository.Transactor
	userRepo   repository.UserRepository
	cartRepo   repository.CartRepository
	logger     zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	logger zerolog.Logger,
) UserService {
	return &userService{
		transactor: transactor,
		userRepo:   userRepo,
		cartRepo:   cartRepo,
		logger:     logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a customer together with its cart.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (_ *model.User, err error) {
	if req == nil {
		return nil, model.ErrInvalidEmail
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if addr, parseErr := mail.ParseAddress(email); parseErr != nil || addr.Address != email {
		return nil, model.ErrInvalidEmail
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.New(),
		Email:     email,
		Role:      model.RoleCustomer,
		CreatedAt: now,
	}
	if err = s.userRepo.Create(ctx, tx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	cart := &model.Cart{ID: uuid.New(), UserID: user.ID, CreatedAt: now}
	if err = s.cartRepo.Create(ctx, tx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}
