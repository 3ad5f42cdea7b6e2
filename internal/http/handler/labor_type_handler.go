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

type LaborTypeHandler struct {
	laborTypeService *service.LaborTypeService
	logger           *zap.Logger
}

func NewLaborTypeHandler(laborTypeService *service.LaborTypeService, logger *zap.Logger) *LaborTypeHandler {
	return &LaborTypeHandler{
		laborTypeService: laborTypeService,
		logger:           logger,
	}
}

// @Summary Create labor type
// @Tags LaborTypes
// @Accept json
// @Produce json
// @Param laborType body domain.CreateLaborTypeRequest true "Labor type data"
// @Success 201 {object} domain.LaborTypeDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /labor-types [post]
func (h *LaborTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLaborTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	laborType, err := h.laborTypeService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create labor type", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create labor type")
		return
	}

	w.Header().Set("Location", "/api/v1/labor-types/"+laborType.ID.String())
	respondJSON(w, http.StatusCreated, laborType)
}

// @Summary Get labor type by ID
// @Tags LaborTypes
// @Produce json
// @Param id path string true "Labor type ID"
// @Success 200 {object} domain.LaborTypeDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /labor-types/{id} [get]
func (h *LaborTypeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid labor type ID: must be a valid UUID")
		return
	}

	laborType, err := h.laborTypeService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLaborTypeNotFound) {
			respondWithError(w, http.StatusNotFound, "Labor type not found")
			return
		}
		h.logger.Error("failed to get labor type", zap.Error(err), zap.String("labor_type_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get labor type")
		return
	}

	respondJSON(w, http.StatusOK, laborType)
}

// @Summary Update labor type
// @Tags LaborTypes
// @Accept json
// @Produce json
// @Param id path string true "Labor type ID"
// @Param laborType body domain.UpdateLaborTypeRequest true "Labor type data"
// @Success 200 {object} domain.LaborTypeDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /labor-types/{id} [put]
func (h *LaborTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid labor type ID: must be a valid UUID")
		return
	}

	var req domain.UpdateLaborTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	laborType, err := h.laborTypeService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrLaborTypeNotFound) {
			respondWithError(w, http.StatusNotFound, "Labor type not found")
			return
		}
		h.logger.Error("failed to update labor type", zap.Error(err), zap.String("labor_type_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update labor type")
		return
	}

	respondJSON(w, http.StatusOK, laborType)
}

// @Summary Delete labor type
// @Tags LaborTypes
// @Param id path string true "Labor type ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /labor-types/{id} [delete]
func (h *LaborTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid labor type ID: must be a valid UUID")
		return
	}

	if err := h.laborTypeService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrLaborTypeNotFound) {
			respondWithError(w, http.StatusNotFound, "Labor type not found")
			return
		}
		h.logger.Error("failed to delete labor type", zap.Error(err), zap.String("labor_type_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete labor type")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary List labor types
// @Tags LaborTypes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param search query string false "Search by name"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /labor-types [get]
func (h *LaborTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r.URL.Query())
	search := r.URL.Query().Get("search")

	result, err := h.laborTypeService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list labor types", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list labor types")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
