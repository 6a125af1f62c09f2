package handlers

import (
	"net/http"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
)

// CalculatorHandler handles HTTP requests for the standalone DRIP calculator.
type CalculatorHandler struct {
	calculatorService *service.CalculatorService
}

// NewCalculatorHandler creates a new CalculatorHandler with the provided service dependency.
func NewCalculatorHandler(calculatorService *service.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{
		calculatorService: calculatorService,
	}
}

// Calculate handles POST requests to evaluate DRIP eligibility for raw inputs.
//
// Endpoint: POST /api/calculator
// Request Body: CalculateRequest (unitPrice, requiredShares, budget)
// Response: 200 OK with Calculation
// Error: 400 Bad Request if the body is invalid or an input is out of range
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CalculateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCalculate(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculate)
		return
	}

	result, err := h.calculatorService.Calculate(*req.UnitPrice, *req.RequiredShares, *req.Budget)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculate)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
