package service

import (
	"context"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"github.com/shopspring/decimal"
)

// CalculatorService exposes the DRIP eligibility calculator to the API,
// either on raw inputs or against a catalog instrument.
type CalculatorService struct {
	calc           *drip.Calculator
	instrumentRepo *repository.InstrumentRepository
}

// NewCalculatorService creates a new CalculatorService.
func NewCalculatorService(calc *drip.Calculator, instrumentRepo *repository.InstrumentRepository) *CalculatorService {
	return &CalculatorService{
		calc:           calc,
		instrumentRepo: instrumentRepo,
	}
}

// Calculate runs the calculator on raw inputs.
//
// Parameters:
//   - unitPrice: current price per share, must be > 0
//   - requiredShares: DRIP threshold in whole shares, must be >= 0
//   - budget: amount available to invest, must be >= 0
//
// Returns a *drip.InvalidInputError (wrapping drip.ErrInvalidInput) for out-of-range inputs.
func (s *CalculatorService) Calculate(unitPrice float64, requiredShares int64, budget float64) (model.Calculation, error) {
	price := decimal.NewFromFloat(unitPrice)
	b := decimal.NewFromFloat(budget)

	result, err := s.calc.Calculate(price, requiredShares, b)
	if err != nil {
		return model.Calculation{}, err
	}
	return toCalculation(price, requiredShares, b, result), nil
}

// CalculateForSymbol runs the calculator with the price and threshold of an active catalog instrument.
// The budget is parsed with drip.ParseBudget, so "$2,000" and "2000.00" are both accepted.
//
// Returns apperrors.ErrInstrumentNotFound for unknown or inactive symbols.
func (s *CalculatorService) CalculateForSymbol(ctx context.Context, symbol, budget string) (model.InstrumentCalculation, error) {
	b, err := drip.ParseBudget(budget)
	if err != nil {
		return model.InstrumentCalculation{}, err
	}

	in, err := s.instrumentRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return model.InstrumentCalculation{}, err
	}
	if in.Status != model.InstrumentStatusActive {
		return model.InstrumentCalculation{}, apperrors.ErrInstrumentNotFound
	}

	price := decimal.NewFromFloat(in.Price)
	result, err := s.calc.Calculate(price, in.RequiredShares, b)
	if err != nil {
		return model.InstrumentCalculation{}, err
	}

	return model.InstrumentCalculation{
		Symbol:      in.Symbol,
		Name:        in.Name,
		Frequency:   in.DividendFrequency,
		Calculation: toCalculation(price, in.RequiredShares, b, result),
	}, nil
}

// Summarize attaches the recommended share count and the minimum investment to a catalog row.
func (s *CalculatorService) Summarize(in model.Instrument) model.InstrumentSummary {
	minimum := drip.MinimumInvestment(decimal.NewFromFloat(in.Price), in.RequiredShares)
	return model.InstrumentSummary{
		Instrument:        in,
		RecommendedShares: s.calc.Policy().Recommend(in.RequiredShares),
		MinimumInvestment: minimum.InexactFloat64(),
	}
}

// Recommend returns the buffered share count for a DRIP threshold.
func (s *CalculatorService) Recommend(requiredShares int64) int64 {
	return s.calc.Policy().Recommend(requiredShares)
}

func toCalculation(price decimal.Decimal, requiredShares int64, budget decimal.Decimal, r drip.Result) model.Calculation {
	return model.Calculation{
		UnitPrice:                price.InexactFloat64(),
		RequiredShares:           requiredShares,
		Budget:                   budget.InexactFloat64(),
		AffordableShares:         r.AffordableShares,
		Eligible:                 r.Eligible,
		Shortfall:                r.Shortfall.InexactFloat64(),
		ShortfallDisplay:         drip.FormatCurrency(r.Shortfall),
		RecommendedShares:        r.RecommendedShares,
		MinimumInvestment:        r.MinimumInvestment.InexactFloat64(),
		MinimumInvestmentDisplay: drip.FormatCurrency(r.MinimumInvestment),
		RecommendedInvestment:    r.RecommendedInvestment.InexactFloat64(),
	}
}
