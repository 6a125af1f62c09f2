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

// AdminHandler handles HTTP requests for the admin panel: catalog maintenance,
// user moderation and the token ledger. All routes sit behind APIKeyMiddleware.
type AdminHandler struct {
	instrumentService *service.InstrumentService
	userService       *service.UserService
	tokenService      *service.TokenService
}

// NewAdminHandler creates a new AdminHandler with the provided service dependencies.
func NewAdminHandler(
	instrumentService *service.InstrumentService,
	userService *service.UserService,
	tokenService *service.TokenService,
) *AdminHandler {
	return &AdminHandler{
		instrumentService: instrumentService,
		userService:       userService,
		tokenService:      tokenService,
	}
}

// Instruments handles GET requests listing every instrument, including inactive ones.
//
// Endpoint: GET /api/admin/instruments
// Response: 200 OK with array of InstrumentSummary
func (h *AdminHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.instrumentService.ListAll(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, instruments)
}

// CreateInstrument handles POST requests adding an instrument to the catalog.
//
// Endpoint: POST /api/admin/instruments
// Request Body: CreateInstrumentRequest
// Response: 201 Created with Instrument
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the symbol is already listed
func (h *AdminHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInstrument(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateInstrument)
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateInstrument)
		return
	}

	response.RespondJSON(w, http.StatusCreated, instrument)
}

// UpdateInstrument handles PUT requests changing catalog fields. Omitted fields are kept.
//
// Endpoint: PUT /api/admin/instruments/{symbol}
// Request Body: UpdateInstrumentRequest (all fields optional)
// Response: 200 OK with Instrument
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the symbol is unknown
// Error: 409 Conflict if renaming onto an existing symbol
func (h *AdminHandler) UpdateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateInstrument(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateInstrument)
		return
	}

	instrument, err := h.instrumentService.UpdateInstrument(r.Context(), chi.URLParam(r, "symbol"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateInstrument)
		return
	}

	response.RespondJSON(w, http.StatusOK, instrument)
}

// DeleteInstrument handles DELETE requests removing an instrument and its watchlist entries.
//
// Endpoint: DELETE /api/admin/instruments/{symbol}
// Response: 204 No Content
// Error: 404 Not Found if the symbol is unknown
func (h *AdminHandler) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	if err := h.instrumentService.DeleteInstrument(r.Context(), chi.URLParam(r, "symbol")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeleteInstrument)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Users handles GET requests listing users with their token balances, most recent login first.
//
// Endpoint: GET /api/admin/users
// Response: 200 OK with array of UserWithBalance
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveUsers.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, users)
}

// UpdateUserStatus handles PUT requests blocking or unblocking a user.
//
// Endpoint: PUT /api/admin/users/{id}/status
// Request Body: UpdateUserStatusRequest (status: active or blocked)
// Response: 200 OK with User
// Error: 400 Bad Request if the status is invalid
// Error: 404 Not Found if the user is unknown
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateUserStatusRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateUserStatus(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateUser)
		return
	}

	user, err := h.userService.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateUser)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

// Transactions handles GET requests listing the token ledger across all users.
//
// Endpoint: GET /api/admin/transactions
// Query Parameters: type, status, start_date, end_date
// Response: 200 OK with array of TokenTransaction
// Error: 400 Bad Request if a filter parameter is invalid
func (h *AdminHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseTokenFilter(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid filter parameters", err.Error())
		return
	}

	transactions, err := h.tokenService.Transactions(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTokenHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// Transaction handles GET requests for a single ledger entry.
//
// Endpoint: GET /api/admin/transactions/{uuid}
// Response: 200 OK with TokenTransaction
// Error: 400 Bad Request if the ID is not a UUID (validated by middleware)
// Error: 404 Not Found if the transaction does not exist
func (h *AdminHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.tokenService.GetTransaction(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTokenHistory)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}
