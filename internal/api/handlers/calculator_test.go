package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/testutil"
)

func TestCalculatorHandler_Calculate(t *testing.T) {
	setupHandler := func(t *testing.T) *CalculatorHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		return NewCalculatorHandler(testutil.NewTestCalculatorService(t, db))
	}

	t.Run("returns calculation for valid input", func(t *testing.T) {
		handler := setupHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/calculator", request.CalculateRequest{
			UnitPrice:      testutil.Float64Ptr(82.45),
			RequiredShares: testutil.Int64Ptr(25),
			Budget:         testutil.Float64Ptr(2000),
		})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		got := testutil.DecodeJSON[model.Calculation](t, w)
		if got.AffordableShares != 24 || got.Eligible {
			t.Errorf("Expected 24 affordable and not eligible, got %+v", got)
		}
		if got.ShortfallDisplay != "$82.45" || got.MinimumInvestmentDisplay != "$2,061.25" {
			t.Errorf("Unexpected display strings %q / %q", got.ShortfallDisplay, got.MinimumInvestmentDisplay)
		}
		if got.RecommendedShares != 28 {
			t.Errorf("Expected 28 recommended shares, got %d", got.RecommendedShares)
		}
	})

	t.Run("returns 400 for missing fields", func(t *testing.T) {
		handler := setupHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/calculator", request.CalculateRequest{
			UnitPrice: testutil.Float64Ptr(82.45),
		})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		fields, ok := resp.Details.(map[string]any)
		if !ok {
			t.Fatalf("Expected field details, got %v", resp.Details)
		}
		if _, ok := fields["requiredShares"]; !ok {
			t.Error("Expected requiredShares to be reported")
		}
		if _, ok := fields["budget"]; !ok {
			t.Error("Expected budget to be reported")
		}
	})

	t.Run("returns 400 for zero unit price", func(t *testing.T) {
		handler := setupHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/calculator", request.CalculateRequest{
			UnitPrice:      testutil.Float64Ptr(0),
			RequiredShares: testutil.Int64Ptr(25),
			Budget:         testutil.Float64Ptr(2000),
		})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 when the budget buys more shares than can be counted", func(t *testing.T) {
		handler := setupHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/calculator", request.CalculateRequest{
			UnitPrice:      testutil.Float64Ptr(1),
			RequiredShares: testutil.Int64Ptr(25),
			Budget:         testutil.Float64Ptr(1e20),
		})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		handler := setupHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/calculator", strings.NewReader("not json"))
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
