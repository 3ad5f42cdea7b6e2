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

type VehicleHandler struct {
	vehicleService *service.VehicleService
	logger         *zap.Logger
}

func NewVehicleHandler(vehicleService *service.VehicleService, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// @Summary Register vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle body domain.CreateVehicleRequest true "Vehicle data"
// @Success 201 {object} domain.VehicleDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles [post]
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	vehicle, err := h.vehicleService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusBadRequest, "Client not found")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A vehicle with this plate is already registered")
			return
		}
		h.logger.Error("failed to create vehicle", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	w.Header().Set("Location", "/api/v1/vehicles/"+vehicle.ID.String())
	respondJSON(w, http.StatusCreated, vehicle)
}

// @Summary Get vehicle by ID
// @Tags Vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} domain.VehicleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vehicle ID: must be a valid UUID")
		return
	}

	vehicle, err := h.vehicleService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("failed to get vehicle", zap.Error(err), zap.String("vehicle_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get vehicle")
		return
	}

	respondJSON(w, http.StatusOK, vehicle)
}

// @Summary Update vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param vehicle body domain.UpdateVehicleRequest true "Vehicle data"
// @Success 200 {object} domain.VehicleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vehicle ID: must be a valid UUID")
		return
	}

	var req domain.UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	vehicle, err := h.vehicleService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A vehicle with this plate is already registered")
			return
		}
		h.logger.Error("failed to update vehicle", zap.Error(err), zap.String("vehicle_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	respondJSON(w, http.StatusOK, vehicle)
}

// @Summary Delete vehicle
// @Tags Vehicles
// @Param id path string true "Vehicle ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vehicle ID: must be a valid UUID")
		return
	}

	if err := h.vehicleService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("failed to delete vehicle", zap.Error(err), zap.String("vehicle_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary List vehicles
// @Tags Vehicles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param clientId query string false "Filter by client ID"
// @Param search query string false "Search by plate, brand or model"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles [get]
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r.URL.Query())
	search := r.URL.Query().Get("search")

	var clientID *uuid.UUID
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid clientId: must be a valid UUID")
			return
		}
		clientID = &id
	}

	result, err := h.vehicleService.List(r.Context(), page, pageSize, clientID, search)
	if err != nil {
		h.logger.Error("failed to list vehicles", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list vehicles")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
