package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
)

// WatchlistHandler handles HTTP requests for the caller's watchlist.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler with the provided service dependency.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
	}
}

// Watchlist handles GET requests to list the caller's watchlist.
//
// Endpoint: GET /api/watchlist
// Query Parameters: sort (name, price, yield, shares), order (asc, desc)
// Response: 200 OK with array of WatchlistItem
// Error: 400 Bad Request if sort or order is invalid
func (h *WatchlistHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	field, ascending, err := request.ParseWatchlistSort(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid sort parameters", err.Error())
		return
	}

	items, err := h.watchlistService.List(r.Context(), userID, field, ascending)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, items)
}

// AddItem handles POST requests to put an instrument on the caller's watchlist.
//
// Endpoint: POST /api/watchlist
// Request Body: AddWatchlistRequest (symbol)
// Response: 201 Created with WatchlistItem
// Error: 404 Not Found if the symbol is unknown or inactive
// Error: 409 Conflict if the symbol is already on the watchlist
func (h *WatchlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AddWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSymbol(req.Symbol); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	item, err := h.watchlistService.Add(r.Context(), userID, req.Symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusCreated, item)
}

// RemoveItem handles DELETE requests to take a symbol off the caller's watchlist.
//
// Endpoint: DELETE /api/watchlist/{symbol}
// Response: 204 No Content
// Error: 404 Not Found if the symbol is not on the watchlist
func (h *WatchlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.watchlistService.Remove(r.Context(), userID, chi.URLParam(r, "symbol")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
