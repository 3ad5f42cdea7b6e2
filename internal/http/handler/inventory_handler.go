package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// @Summary Record inventory movement
// @Description Appends a movement to the inventory ledger and updates the product's stock counter atomically. Adjustments set the counter to the given quantity; exits that would drive stock negative are rejected.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param movement body domain.RecordMovementRequest true "Movement data"
// @Success 201 {object} domain.InventoryMovementDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/movements [post]
func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	movement, err := h.inventoryService.Record(r.Context(), &req, currentUserID(r))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			respondWithError(w, http.StatusConflict, "Insufficient stock for this exit")
			return
		}
		if errors.Is(err, service.ErrInvalidMovement) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to record inventory movement", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to record inventory movement")
		return
	}

	respondJSON(w, http.StatusCreated, movement)
}

// @Summary List product movements
// @Description Lists the inventory ledger for a product, newest first.
// @Tags Inventory
// @Produce json
// @Param id path string true "Product ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	page, pageSize := parsePagination(r.URL.Query())

	result, err := h.inventoryService.ListMovements(r.Context(), id, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to list movements", zap.Error(err), zap.String("product_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list movements")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary List stock levels
// @Description Reports every product's stored stock counter next to the value derived from its ledger.
// @Tags Inventory
// @Produce json
// @Success 200 {array} domain.StockLevelDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/stock [get]
func (h *InventoryHandler) StockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.inventoryService.StockLevels(r.Context())
	if err != nil {
		h.logger.Error("failed to list stock levels", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list stock levels")
		return
	}

	respondJSON(w, http.StatusOK, levels)
}

// @Summary Recalculate product stock
// @Description Replays the product's ledger from zero and rewrites the stored counter if it drifted.
// @Tags Inventory
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.StockLevelDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/products/{id}/recalculate [post]
func (h *InventoryHandler) RecalculateStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	level, err := h.inventoryService.RecalculateStock(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to recalculate stock", zap.Error(err), zap.String("product_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to recalculate stock")
		return
	}

	respondJSON(w, http.StatusOK, level)
}
