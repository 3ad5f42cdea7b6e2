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

type SupplierHandler struct {
	supplierService *service.SupplierService
	logger          *zap.Logger
}

func NewSupplierHandler(supplierService *service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		logger:          logger,
	}
}

// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param supplier body domain.CreateSupplierRequest true "Supplier data"
// @Success 201 {object} domain.SupplierDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A supplier with this org number is already registered")
			return
		}
		h.logger.Error("failed to create supplier", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create supplier")
		return
	}

	w.Header().Set("Location", "/api/v1/suppliers/"+supplier.ID.String())
	respondJSON(w, http.StatusCreated, supplier)
}

// @Summary Get supplier by ID
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} domain.SupplierDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID: must be a valid UUID")
		return
	}

	supplier, err := h.supplierService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			respondWithError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		h.logger.Error("failed to get supplier", zap.Error(err), zap.String("supplier_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get supplier")
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID"
// @Param supplier body domain.UpdateSupplierRequest true "Supplier data"
// @Success 200 {object} domain.SupplierDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID: must be a valid UUID")
		return
	}

	var req domain.UpdateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	supplier, err := h.supplierService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			respondWithError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		h.logger.Error("failed to update supplier", zap.Error(err), zap.String("supplier_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update supplier")
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// @Summary Delete supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID: must be a valid UUID")
		return
	}

	if err := h.supplierService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			respondWithError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "Supplier has registered products and cannot be deleted")
			return
		}
		h.logger.Error("failed to delete supplier", zap.Error(err), zap.String("supplier_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete supplier")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param search query string false "Search by name, org number or contact person"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers [get]
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r.URL.Query())
	search := r.URL.Query().Get("search")

	result, err := h.supplierService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list suppliers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list suppliers")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
