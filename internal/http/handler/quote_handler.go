package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	quoteService     *service.QuoteService
	lifecycleService *service.QuoteLifecycleService
	logger           *zap.Logger
}

func NewQuoteHandler(
	quoteService *service.QuoteService,
	lifecycleService *service.QuoteLifecycleService,
	logger *zap.Logger,
) *QuoteHandler {
	return &QuoteHandler{
		quoteService:     quoteService,
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// respondQuoteItemError maps line item reference failures shared by the
// create and item endpoints. Returns false when the error was not handled.
func respondQuoteItemError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondWithError(w, http.StatusBadRequest, "Referenced product not found")
	case errors.Is(err, service.ErrLaborTypeNotFound):
		respondWithError(w, http.StatusBadRequest, "Referenced labor type not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		return false
	}
	return true
}

// @Summary Create quote
// @Description Creates a quote with line items. Totals are computed server-side and a sequential quote number is assigned.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quote body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusBadRequest, "Client not found")
			return
		}
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusBadRequest, "Vehicle not found")
			return
		}
		if errors.Is(err, service.ErrEmptyItems) {
			respondWithError(w, http.StatusBadRequest, "At least one item is required")
			return
		}
		if respondQuoteItemError(w, err) {
			return
		}
		h.logger.Error("failed to create quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	w.Header().Set("Location", "/api/v1/quotes/"+quote.ID.String())
	respondJSON(w, http.StatusCreated, quote)
}

// @Summary Get quote by ID
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to get quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param clientId query string false "Filter by client ID"
// @Param vehicleId query string false "Filter by vehicle ID"
// @Param status query string false "Filter by status" Enums(open, approved, rejected, converted)
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r.URL.Query())

	var clientID, vehicleID *uuid.UUID
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid clientId: must be a valid UUID")
			return
		}
		clientID = &id
	}
	if vid := r.URL.Query().Get("vehicleId"); vid != "" {
		id, err := uuid.Parse(vid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid vehicleId: must be a valid UUID")
			return
		}
		vehicleID = &id
	}

	var status *domain.QuoteStatus
	if st := r.URL.Query().Get("status"); st != "" {
		s := domain.QuoteStatus(st)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = &s
	}

	result, err := h.quoteService.List(r.Context(), page, pageSize, clientID, vehicleID, status)
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotes")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Update quote
// @Description Updates discount, validity, notes or replaces the full item set. Converted quotes are read-only.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param quote body domain.UpdateQuoteRequest true "Quote data"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrQuoteConverted) {
			respondWithError(w, http.StatusConflict, "Quote has been converted and is read-only")
			return
		}
		if errors.Is(err, service.ErrEmptyItems) {
			respondWithError(w, http.StatusBadRequest, "At least one item is required")
			return
		}
		if respondQuoteItemError(w, err) {
			return
		}
		h.logger.Error("failed to update quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Delete quote
// @Description Deletes a quote. Converted quotes cannot be deleted.
// @Tags Quotes
// @Param id path string true "Quote ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrQuoteConverted) {
			respondWithError(w, http.StatusConflict, "Quote has been converted and cannot be deleted")
			return
		}
		h.logger.Error("failed to delete quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary Update quote status
// @Description Sets the quote status to open, approved or rejected. The converted status is reserved for the conversion endpoint.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param status body domain.UpdateQuoteStatusRequest true "New status"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuoteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrQuoteConverted) {
			respondWithError(w, http.StatusConflict, "Quote has been converted and is read-only")
			return
		}
		if errors.Is(err, service.ErrStatusReserved) {
			respondWithError(w, http.StatusBadRequest, "Status converted is reserved for the conversion endpoint")
			return
		}
		if errors.Is(err, service.ErrInvalidStatus) {
			respondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		h.logger.Error("failed to update quote status", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update quote status")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Add quote item
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param item body domain.LineItemRequest true "Line item"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/items [post]
func (h *QuoteHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.LineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.AddItem(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrQuoteConverted) {
			respondWithError(w, http.StatusConflict, "Quote has been converted and is read-only")
			return
		}
		if respondQuoteItemError(w, err) {
			return
		}
		h.logger.Error("failed to add quote item", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to add quote item")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Remove quote item
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/items/{itemId} [delete]
func (h *QuoteHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	quote, err := h.quoteService.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Line item not found")
			return
		}
		if errors.Is(err, service.ErrQuoteConverted) {
			respondWithError(w, http.StatusConflict, "Quote has been converted and is read-only")
			return
		}
		h.logger.Error("failed to remove quote item", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to remove quote item")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Convert quote to order
// @Description Converts a quote into a service order. Items are copied, stock exits are recorded for product items, and the quote becomes read-only. A quote can be converted once.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param conversion body domain.ConvertQuoteRequest false "Conversion options"
// @Success 201 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.ConvertQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.lifecycleService.ConvertToOrder(r.Context(), id, &req, userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrQuoteConverted) {
			respondWithError(w, http.StatusConflict, "Quote has already been converted")
			return
		}
		if errors.Is(err, service.ErrQuoteHasNoItems) {
			respondWithError(w, http.StatusConflict, "Quote has no items and cannot be converted")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			respondWithError(w, http.StatusConflict, "Insufficient stock for one or more products")
			return
		}
		h.logger.Error("failed to convert quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to convert quote")
		return
	}

	w.Header().Set("Location", "/api/v1/orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}
