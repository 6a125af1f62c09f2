package handlers

import (
	"context"
	"net/http"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
)

// TokenHandler handles HTTP requests for token balances, history and purchases.
type TokenHandler struct {
	tokenService *service.TokenService
}

// NewTokenHandler creates a new TokenHandler with the provided service dependency.
func NewTokenHandler(tokenService *service.TokenService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
	}
}

// Packages handles GET requests for the purchasable token packages.
//
// Endpoint: GET /api/tokens/packages
// Response: 200 OK with array of TokenPackage
func (h *TokenHandler) Packages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.tokenService.Packages(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePackages.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, packages)
}

// Balance handles GET requests for the caller's spendable token balance.
//
// Endpoint: GET /api/tokens/balance
// Response: 200 OK with TokenBalance
func (h *TokenHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	balance, err := h.tokenService.Balance(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveBalance.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, model.TokenBalance{UserID: userID, Balance: balance})
}

// History handles GET requests for the caller's token transactions, newest first.
//
// Endpoint: GET /api/tokens/history
// Query Parameters: type, status, start_date, end_date
// Response: 200 OK with array of TokenTransaction
// Error: 400 Bad Request if a filter parameter is invalid
func (h *TokenHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, err := request.ParseTokenFilter(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid filter parameters", err.Error())
		return
	}

	history, err := h.tokenService.History(r.Context(), userID, filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTokenHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// StartCheckout handles POST requests to begin purchasing a token package.
// The returned checkout token is confirmed or cancelled by the payment page.
//
// Endpoint: POST /api/tokens/checkout
// Request Body: StartCheckoutRequest (packageId)
// Response: 201 Created with Checkout
// Error: 404 Not Found if the package is unknown
func (h *TokenHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.StartCheckoutRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateStartCheckout(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToStartCheckout)
		return
	}

	checkout, err := h.tokenService.StartCheckout(r.Context(), userID, req.PackageID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToStartCheckout)
		return
	}

	response.RespondJSON(w, http.StatusCreated, checkout)
}

// ConfirmCheckout handles POST requests completing a purchase and crediting its tokens.
//
// Endpoint: POST /api/tokens/checkout/confirm
// Request Body: SettleCheckoutRequest (checkoutToken)
// Response: 200 OK with CheckoutResult
// Error: 400 Bad Request if the checkout token is forged, expired or not the caller's
// Error: 409 Conflict if the purchase is already settled
func (h *TokenHandler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.tokenService.ConfirmCheckout)
}

// CancelCheckout handles POST requests abandoning a purchase. No tokens are credited.
//
// Endpoint: POST /api/tokens/checkout/cancel
// Request Body: SettleCheckoutRequest (checkoutToken)
// Response: 200 OK with CheckoutResult
// Error: 400 Bad Request if the checkout token is forged, expired or not the caller's
// Error: 409 Conflict if the purchase is already settled
func (h *TokenHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.tokenService.CancelCheckout)
}

type settleFunc func(ctx context.Context, userID, checkoutToken string) (model.CheckoutResult, error)

func (h *TokenHandler) settle(w http.ResponseWriter, r *http.Request, fn settleFunc) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.SettleCheckoutRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSettleCheckout(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSettleCheckout)
		return
	}

	result, err := fn(r.Context(), userID, req.CheckoutToken)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSettleCheckout)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
