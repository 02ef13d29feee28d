package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"clothing-store/internal/model"
	"clothing-store/internal/service"
)

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/orders/checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), caller, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", caller.UserID.String()).
		Int64("total_amount_cents", order.TotalAmountCents).
		Msg("order placed")

	writeJSON(w, http.StatusCreated, order)
}

// GetMine handles GET /api/orders/me requests.
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orderID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), caller, orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListAll handles GET /api/orders requests.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/orders/{id}/status/{statusId} requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orderID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	statusID, err := strconv.Atoi(chi.URLParam(r, "statusId"))
	if err != nil {
		writeError(w, r, model.ErrInvalidStatus, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), caller, orderID, model.OrderStatus(statusID))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
