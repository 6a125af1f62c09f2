package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/middleware"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is empty")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	return req, nil
}

// statusFor maps a service error to the HTTP status code reported to the client.
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, drip.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidUserID),
		errors.Is(err, apperrors.ErrCheckoutInvalid):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInsufficientTokens):
		return http.StatusPaymentRequired
	case errors.Is(err, apperrors.ErrUserBlocked):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInstrumentNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrWatchlistItemNotFound),
		errors.Is(err, apperrors.ErrTokenTransactionNotFound),
		errors.Is(err, apperrors.ErrTokenPackageNotFound),
		errors.Is(err, apperrors.ErrFeaturedNotAvailable):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateEntry),
		errors.Is(err, apperrors.ErrCheckoutSettled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status from statusFor.
// Server errors are reported under fallback; client errors under the error's own message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		response.RespondError(w, status, fallback.Error(), err.Error())
		return
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, status, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, status, rootMessage(err), err.Error())
}

// rootMessage returns the message of the sentinel err wraps, if any.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		drip.ErrInvalidInput,
		apperrors.ErrInvalidSymbol,
		apperrors.ErrInvalidUserID,
		apperrors.ErrCheckoutInvalid,
		apperrors.ErrInsufficientTokens,
		apperrors.ErrUserBlocked,
		apperrors.ErrInstrumentNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrWatchlistItemNotFound,
		apperrors.ErrTokenTransactionNotFound,
		apperrors.ErrTokenPackageNotFound,
		apperrors.ErrFeaturedNotAvailable,
		apperrors.ErrDuplicateEntry,
		apperrors.ErrCheckoutSettled,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// requireUser returns the caller resolved by middleware.Identity.
// It writes 401 and returns false when the route is not behind Identity.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing user identity")
		return "", false
	}
	return u.ID, true
}
