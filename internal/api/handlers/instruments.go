package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
)

// InstrumentHandler handles HTTP requests for the public catalog.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the instrument and calculator services.
type InstrumentHandler struct {
	instrumentService *service.InstrumentService
	calculatorService *service.CalculatorService
}

// NewInstrumentHandler creates a new InstrumentHandler with the provided service dependencies.
func NewInstrumentHandler(instrumentService *service.InstrumentService, calculatorService *service.CalculatorService) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
		calculatorService: calculatorService,
	}
}

// Instruments handles GET requests to search the active catalog.
//
// Endpoint: GET /api/instruments
// Query Parameters: maxPrice, maxInvestment, sector, minYield, volatility, frequency, type, q, sort, order
// Response: 200 OK with array of InstrumentSummary
// Error: 400 Bad Request if a filter parameter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *InstrumentHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseInstrumentFilter(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid filter parameters", err.Error())
		return
	}

	instruments, err := h.instrumentService.Search(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, instruments)
}

// Sectors handles GET requests for the sectors present in the catalog.
//
// Endpoint: GET /api/instruments/sectors
// Response: 200 OK with array of sector names
func (h *InstrumentHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.instrumentService.Sectors(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSectors.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, sectors)
}

// Instrument handles GET requests for a single active instrument.
//
// Endpoint: GET /api/instruments/{symbol}
// Response: 200 OK with InstrumentSummary
// Error: 404 Not Found if the symbol is unknown or inactive
func (h *InstrumentHandler) Instrument(w http.ResponseWriter, r *http.Request) {
	instrument, err := h.instrumentService.GetBySymbol(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInstrument)
		return
	}

	response.RespondJSON(w, http.StatusOK, instrument)
}

// Calculate handles GET requests to evaluate a budget against a catalog instrument.
// The budget may carry a currency symbol and thousands separators.
//
// Endpoint: GET /api/instruments/{symbol}/calculate?budget=
// Response: 200 OK with InstrumentCalculation
// Error: 400 Bad Request if the budget is missing or malformed
// Error: 404 Not Found if the symbol is unknown or inactive
func (h *InstrumentHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.calculatorService.CalculateForSymbol(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("budget"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculate)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Refresh handles POST requests to refresh a quote, charging the caller tokens.
//
// Endpoint: POST /api/instruments/{symbol}/refresh
// Response: 200 OK with RefreshResult
// Error: 402 Payment Required if the token balance is too low
// Error: 404 Not Found if the symbol is unknown or inactive
func (h *InstrumentHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.instrumentService.Refresh(r.Context(), userID, chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshInstrument)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
