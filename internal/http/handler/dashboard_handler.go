package handler

import (
	"net/http"

	"github.com/verksted-as/workshop-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Get dashboard metrics
// @Description Returns the workshop headline numbers: open quotes, orders in progress or waiting for parts, orders finished this month with their revenue, and the low stock product count. When the accounting warehouse is configured the settled total for the month is included; the dashboard does not fail if accounting is unreachable.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetrics
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to get dashboard metrics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
