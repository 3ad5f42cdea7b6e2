package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"go.uber.org/zap"
)

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// currentUserID returns the authenticated user's ID, or nil for the
// system API key whose context carries the zero UUID.
func currentUserID(r *http.Request) *uuid.UUID {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok || userCtx.UserID == uuid.Nil {
		return nil
	}
	id := userCtx.UserID
	return &id
}

// @Summary Create product
// @Description Registers a product. An initial stock greater than zero is recorded as an entry movement in the inventory ledger.
// @Tags Products
// @Accept json
// @Produce json
// @Param product body domain.CreateProductRequest true "Product data"
// @Success 201 {object} domain.ProductDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &req, currentUserID(r))
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A product with this code already exists")
			return
		}
		if errors.Is(err, service.ErrSupplierNotFound) {
			respondWithError(w, http.StatusBadRequest, "Supplier not found")
			return
		}
		h.logger.Error("failed to create product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	w.Header().Set("Location", "/api/v1/products/"+product.ID.String())
	respondJSON(w, http.StatusCreated, product)
}

// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to get product", zap.Error(err), zap.String("product_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// @Summary Update product
// @Description Updates product master data. Stock is not writable here; use inventory movements.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body domain.UpdateProductRequest true "Product data"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A product with this code already exists")
			return
		}
		if errors.Is(err, service.ErrSupplierNotFound) {
			respondWithError(w, http.StatusBadRequest, "Supplier not found")
			return
		}
		h.logger.Error("failed to update product", zap.Error(err), zap.String("product_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// @Summary Delete product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to delete product", zap.Error(err), zap.String("product_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary List products
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param supplierId query string false "Filter by supplier ID"
// @Param activeOnly query bool false "Only active products"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r.URL.Query())

	var supplierID *uuid.UUID
	if sid := r.URL.Query().Get("supplierId"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid supplierId: must be a valid UUID")
			return
		}
		supplierID = &id
	}

	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	result, err := h.productService.List(r.Context(), page, pageSize, supplierID, activeOnly)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary List low stock products
// @Description Lists active products whose stock is at or below their minimum.
// @Tags Products
// @Produce json
// @Success 200 {array} domain.ProductDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/low-stock [get]
func (h *ProductHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListLowStock(r.Context())
	if err != nil {
		h.logger.Error("failed to list low stock products", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list low stock products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// @Summary Search products
// @Tags Products
// @Produce json
// @Param q query string true "Search term (code or name)"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {array} domain.ProductDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/search [get]
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	limit := 10
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 50 {
		limit = l
	}

	products, err := h.productService.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("failed to search products", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}
