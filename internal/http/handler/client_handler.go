package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// parsePagination reads page/pageSize query params with sane defaults.
func parsePagination(query url.Values) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(query.Get("pageSize")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	return page, pageSize
}

// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create client", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// @Summary Get client by ID
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("failed to get client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param client body domain.UpdateClientRequest true "Client data"
// @Success 200 {object} domain.ClientDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("failed to update client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// @Summary Delete client
// @Description Deletes a client and its registered vehicles.
// @Tags Clients
// @Param id path string true "Client ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("failed to delete client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary List clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param search query string false "Search by name, email, phone or document"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r.URL.Query())
	search := r.URL.Query().Get("search")

	result, err := h.clientService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
