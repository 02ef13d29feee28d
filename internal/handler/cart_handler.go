package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"clothing-store/internal/model"
	"clothing-store/internal/service"
)

// CartHandler handles requests on the caller's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), caller)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.AddCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	item, err := h.service.AddItem(r.Context(), caller, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/cart/items/{itemId} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	itemID, err := uuidParam(r, "itemId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), caller, itemID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /api/cart/items/{itemId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	itemID, err := uuidParam(r, "itemId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), caller, itemID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
