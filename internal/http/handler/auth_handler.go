package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/mapper"
	"github.com/verksted-as/workshop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	userRepo     *repository.UserRepository
	tokenService *auth.TokenService
	logger       *zap.Logger
}

func NewAuthHandler(
	userRepo *repository.UserRepository,
	tokenService *auth.TokenService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// IssueToken godoc
// @Summary Issue a token for a registered user
// @Description Issues a signed bearer token on behalf of a registered user. Reserved for the admin API key; the front desk system exchanges its key for per-user tokens here.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.IssueTokenRequest true "User email"
// @Success 200 {object} domain.TokenResponse
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to look up user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	if !user.IsActive {
		respondWithError(w, http.StatusForbidden, "User is deactivated")
		return
	}

	token, err := h.tokenService.IssueToken(user)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	if err := h.userRepo.TouchLastLogin(r.Context(), user.ID); err != nil {
		h.logger.Warn("failed to update last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	respondJSON(w, http.StatusOK, domain.TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenService.TTL()).UTC().Format(time.RFC3339),
	})
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the current authenticated user. For the admin API key a synthetic system identity is returned.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// The API key identity has no database row.
	if userCtx.UserID == uuid.Nil {
		respondJSON(w, http.StatusOK, domain.UserDTO{
			ID:          userCtx.UserID,
			Email:       userCtx.Email,
			DisplayName: userCtx.DisplayName,
			Roles:       userCtx.RolesAsStrings(),
			IsActive:    true,
		})
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}
		h.logger.Error("failed to get user", zap.Error(err), zap.String("user_id", userCtx.UserID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, mapper.UserToDTO(user))
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param activeOnly query bool false "Only active users" default(false)
// @Success 200 {array} domain.UserDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	users, err := h.userRepo.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	dtos := make([]domain.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *mapper.UserToDTO(&users[i]))
	}

	respondJSON(w, http.StatusOK, dtos)
}
