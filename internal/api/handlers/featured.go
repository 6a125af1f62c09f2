package handlers

import (
	"net/http"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
)

// FeaturedHandler handles HTTP requests for the featured stock of the week.
type FeaturedHandler struct {
	featuredService *service.FeaturedService
}

// NewFeaturedHandler creates a new FeaturedHandler with the provided service dependency.
func NewFeaturedHandler(featuredService *service.FeaturedService) *FeaturedHandler {
	return &FeaturedHandler{
		featuredService: featuredService,
	}
}

// Featured handles GET requests for this week's featured stock.
//
// Endpoint: GET /api/featured
// Response: 200 OK with FeaturedStock
// Error: 404 Not Found if there are no featured candidates
func (h *FeaturedHandler) Featured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.featuredService.Current(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveFeatured)
		return
	}

	response.RespondJSON(w, http.StatusOK, featured)
}

// Rotate handles POST requests forcing a new featured pick for the current week.
//
// Endpoint: POST /api/admin/featured/rotate
// Response: 200 OK with FeaturedStock
// Error: 404 Not Found if there are no featured candidates
func (h *FeaturedHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	featured, err := h.featuredService.Rotate(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRotateFeatured)
		return
	}

	response.RespondJSON(w, http.StatusOK, featured)
}
