package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/testutil"
)

//nolint:gocyclo // Comprehensive integration test with multiple subtests
func TestInstrumentHandler_Instruments(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))

	t.Run("lists the active catalog", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/instruments", nil)
		w := httptest.NewRecorder()

		handler.Instruments(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		got := testutil.DecodeJSON[[]model.InstrumentSummary](t, w)
		if len(got) != 6 {
			t.Fatalf("Expected 6 active instruments, got %d", len(got))
		}
		for _, in := range got {
			if in.Symbol == "BCE.TO" {
				t.Error("Inactive BCE.TO must not be listed")
			}
		}
	})

	t.Run("applies filters", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/instruments", map[string]string{
			"sector": "Finance",
			"sort":   "price",
			"order":  "desc",
		})
		w := httptest.NewRecorder()

		handler.Instruments(w, req)

		got := testutil.DecodeJSON[[]model.InstrumentSummary](t, w)
		if len(got) != 2 || got[0].Symbol != "RY.TO" || got[1].Symbol != "TD.TO" {
			t.Errorf("Expected RY.TO, TD.TO, got %+v", got)
		}
	})

	t.Run("returns 400 for invalid filter", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/instruments", map[string]string{
			"volatility": "extreme",
		})
		w := httptest.NewRecorder()

		handler.Instruments(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestInstrumentHandler_Sectors(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))

	req := httptest.NewRequest(http.MethodGet, "/api/instruments/sectors", nil)
	w := httptest.NewRecorder()

	handler.Sectors(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	got := testutil.DecodeJSON[[]string](t, w)
	if len(got) != 5 {
		t.Errorf("Expected 5 sectors, got %v", got)
	}
}

func TestInstrumentHandler_Instrument(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))

	t.Run("returns instrument with minimum investment", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/instruments/enb.to", map[string]string{"symbol": "enb.to"})
		w := httptest.NewRecorder()

		handler.Instrument(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		got := testutil.DecodeJSON[model.InstrumentSummary](t, w)
		if got.Symbol != "ENB.TO" || got.MinimumInvestment != 2366 || got.RecommendedShares != 55 {
			t.Errorf("Unexpected summary %+v", got)
		}
	})

	t.Run("returns 404 for inactive instrument", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/instruments/BCE.TO", map[string]string{"symbol": "BCE.TO"})
		w := httptest.NewRecorder()

		handler.Instrument(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestInstrumentHandler_Calculate(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))

	t.Run("accepts formatted budget", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/instruments/TD.TO/calculate?budget=%242%2C061.25", map[string]string{"symbol": "TD.TO"})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		got := testutil.DecodeJSON[model.InstrumentCalculation](t, w)
		if !got.Calculation.Eligible || got.Calculation.AffordableShares != 25 {
			t.Errorf("Expected eligible with 25 shares, got %+v", got.Calculation)
		}
	})

	t.Run("returns 400 for malformed budget", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/instruments/TD.TO/calculate?budget=lots", map[string]string{"symbol": "TD.TO"})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for budget beyond the share count range", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/instruments/TD.TO/calculate?budget=1e20", map[string]string{"symbol": "TD.TO"})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown symbol", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/instruments/NOPE/calculate?budget=100", map[string]string{"symbol": "NOPE"})
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestInstrumentHandler_Refresh(t *testing.T) {
	t.Run("charges tokens", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))
		user := testutil.CreateUser(t, db)
		testutil.GrantTokens(t, db, user.ID, 3)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/instruments/TD.TO/refresh", map[string]string{"symbol": "TD.TO"})
		req = testutil.WithIdentity(req, user.ID)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		got := testutil.DecodeJSON[model.RefreshResult](t, w)
		if got.TokensSpent != testutil.TestRefreshCost || got.TokenBalance != 3-testutil.TestRefreshCost {
			t.Errorf("Unexpected refresh result %+v", got)
		}
		if got.Instrument.Symbol != "TD.TO" {
			t.Errorf("Expected TD.TO, got %s", got.Instrument.Symbol)
		}
	})

	t.Run("returns 402 without tokens", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))
		user := testutil.CreateUser(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/instruments/TD.TO/refresh", map[string]string{"symbol": "TD.TO"})
		req = testutil.WithIdentity(req, user.ID)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusPaymentRequired {
			t.Errorf("Expected 402, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 401 without identity", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		handler := NewInstrumentHandler(testutil.NewTestInstrumentService(t, db), testutil.NewTestCalculatorService(t, db))

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/instruments/TD.TO/refresh", map[string]string{"symbol": "TD.TO"})
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})
}
