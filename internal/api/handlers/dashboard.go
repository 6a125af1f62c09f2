package handlers

import (
	"net/http"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
)

// DashboardHandler handles HTTP requests for the signed-in landing page.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler with the provided service dependency.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Dashboard handles GET requests combining the filtered catalog, the caller's
// watchlist and token balance, and the featured stock.
//
// Endpoint: GET /api/dashboard
// Query Parameters: the catalog filter parameters of GET /api/instruments
// Response: 200 OK with Dashboard
// Error: 400 Bad Request if a filter parameter is invalid
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, err := request.ParseInstrumentFilter(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid filter parameters", err.Error())
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(r.Context(), userID, filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDashboard)
		return
	}

	response.RespondJSON(w, http.StatusOK, dashboard)
}
