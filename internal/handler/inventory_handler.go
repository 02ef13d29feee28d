package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"clothing-store/internal/model"
	"clothing-store/internal/service"
)

// InventoryHandler exposes the inventory ledger to administrators.
type InventoryHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service service.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// List handles GET /api/inventory-logs requests.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	logs, err := h.service.ListLogs(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

// Adjust handles POST /api/inventory-logs requests.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	caller, err := actor(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.AdjustStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	entry, err := h.service.AdjustStock(r.Context(), caller, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ListVariant handles GET /api/variants/{id}/inventory-logs requests.
func (h *InventoryHandler) ListVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	logs, err := h.service.ListVariantLogs(r.Context(), variantID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}
