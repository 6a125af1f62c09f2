package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/middleware"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/admin/transactions/123-456",
//	    map[string]string{"uuid": "123-456"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/tokens/history",
//	    map[string]string{
//	        "start_date": "2024-01-01",
//	        "end_date": "2024-12-31",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}

// NewJSONRequest creates an HTTP request with body encoded as JSON.
//
// Example:
//
//	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlist",
//	    request.AddWatchlistRequest{Symbol: "TD.TO"})
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode request body: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsUser sets the identity headers for userID on req and returns it.
func AsUser(req *http.Request, userID string) *http.Request {
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderUserEmail, userID+"@example.com")
	return req
}

// WithIdentity stores userID on req's context the way middleware.Identity does,
// for handler tests that bypass the middleware.
func WithIdentity(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), model.User{
		ID:     userID,
		Email:  userID + "@example.com",
		Status: model.UserStatusActive,
	}))
}

// DecodeJSON decodes the recorded response body into T.
//
// Example:
//
//	got := testutil.DecodeJSON[model.Calculation](t, w)
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}
