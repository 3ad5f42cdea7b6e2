package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	maxUploadMB  int64
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, maxUploadMB int64, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		maxUploadMB:  maxUploadMB,
		logger:       logger,
	}
}

// @Summary Create order
// @Description Creates a service order directly, without a quote. Product items record stock exits atomically with the order.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body domain.CreateOrderRequest true "Order data"
// @Success 201 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusBadRequest, "Client not found")
			return
		}
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusBadRequest, "Vehicle not found")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			respondWithError(w, http.StatusConflict, "Insufficient stock for one or more products")
			return
		}
		if respondQuoteItemError(w, err) {
			return
		}
		h.logger.Error("failed to create order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	w.Header().Set("Location", "/api/v1/orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}

// @Summary Get order by ID
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to get order", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary List orders
// @Tags Orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param clientId query string false "Filter by client ID"
// @Param vehicleId query string false "Filter by vehicle ID"
// @Param status query string false "Filter by status" Enums(open, in_progress, waiting_parts, finished, cancelled)
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
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

	var status *domain.OrderStatus
	if st := r.URL.Query().Get("status"); st != "" {
		s := domain.OrderStatus(st)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = &s
	}

	result, err := h.orderService.List(r.Context(), page, pageSize, clientID, vehicleID, status)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Update order
// @Description Updates mechanic, discount or notes. Line items are managed through the item endpoints.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param order body domain.UpdateOrderRequest true "Order data"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
		return
	}

	var req domain.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to update order", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Update order status
// @Description Moves the order through its workflow. started/finished timestamps are stamped on the first transition into in_progress and finished.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body domain.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
		return
	}

	var req domain.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		if errors.Is(err, service.ErrInvalidStatus) {
			respondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		if errors.Is(err, service.ErrInvalidStatusTransition) {
			respondWithError(w, http.StatusConflict, "Status transition not allowed")
			return
		}
		h.logger.Error("failed to update order status", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Add order item
// @Description Adds a line item. Product items record a stock exit atomically with the item.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param item body domain.LineItemRequest true "Line item"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/items [post]
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
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

	order, err := h.orderService.AddItem(r.Context(), id, &req, currentUserID(r))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			respondWithError(w, http.StatusConflict, "Insufficient stock for this product")
			return
		}
		if respondQuoteItemError(w, err) {
			return
		}
		h.logger.Error("failed to add order item", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to add order item")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Remove order item
// @Description Removes a line item. Stock exits recorded for product items are compensated with an entry movement.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	order, err := h.orderService.RemoveItem(r.Context(), id, itemID, currentUserID(r))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		if errors.Is(err, service.ErrItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Line item not found")
			return
		}
		h.logger.Error("failed to remove order item", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to remove order item")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Upload client signature
// @Tags Orders
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Order ID"
// @Param file formData file true "Signature image"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/signature [post]
func (h *OrderHandler) UploadSignature(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	order, err := h.orderService.AttachSignature(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to upload signature", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to upload signature")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Download client signature
// @Tags Orders
// @Produce application/octet-stream
// @Param id path string true "Order ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/signature [get]
func (h *OrderHandler) DownloadSignature(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID: must be a valid UUID")
		return
	}

	reader, filename, err := h.orderService.DownloadSignature(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to download signature", zap.Error(err), zap.String("order_id", id.String()))
		respondWithError(w, http.StatusNotFound, "Signature not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Content-Type", "application/octet-stream")

	_, _ = io.Copy(w, reader)
}
