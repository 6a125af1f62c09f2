// Package drip implements the DRIP eligibility and investment calculator.
//
// Given an instrument's unit price, the minimum share count a dividend
// reinvestment program requires, and an investor's budget, the calculator
// determines how many whole shares the budget buys, whether that meets the
// program threshold, how much more money is needed if it does not, and a
// recommended share count that leaves a buffer above the bare minimum.
//
// All money math uses shopspring/decimal so that results are exact to the cent.
package drip

import (
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places money amounts are rounded to.
const CurrencyPlaces = 2

// Result is the outcome of a single calculation.
// Eligible is true exactly when AffordableShares >= the required threshold,
// and Shortfall is positive exactly when Eligible is false.
type Result struct {
	AffordableShares      int64
	Eligible              bool
	Shortfall             decimal.Decimal
	RecommendedShares     int64
	MinimumInvestment     decimal.Decimal
	RecommendedInvestment decimal.Decimal
}

// Calculator computes DRIP eligibility using a fixed BufferPolicy.
// The zero value uses a zero buffer; use NewCalculator to set one.
type Calculator struct {
	policy BufferPolicy
}

// NewCalculator creates a Calculator that recommends share counts using the given policy.
func NewCalculator(policy BufferPolicy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the buffer policy the calculator was created with.
func (c *Calculator) Policy() BufferPolicy {
	return c.policy
}

// Calculate determines affordability and DRIP eligibility for a budget.
//
// Rules:
//   - affordable shares = floor(budget / unitPrice)
//   - eligible = affordable shares >= requiredShares
//   - shortfall = 0 when eligible, otherwise (requiredShares - affordable) * unitPrice,
//     rounded half-up to CurrencyPlaces
//   - recommended shares = max(affordable, requiredShares + buffer)
//
// Returns an *InvalidInputError when unitPrice <= 0, budget < 0 or requiredShares < 0,
// and when the affordable or recommended share count does not fit in an int64.
func (c *Calculator) Calculate(unitPrice decimal.Decimal, requiredShares int64, budget decimal.Decimal) (Result, error) {
	if err := validateInputs(unitPrice, requiredShares, budget); err != nil {
		return Result{}, err
	}

	// QuoRem with zero precision yields the exact truncated quotient. Both operands
	// are non-negative, so truncation is floor.
	quotient, _ := budget.QuoRem(unitPrice, 0)
	if quotient.GreaterThan(maxShares) {
		return Result{}, &InvalidInputError{Field: "budget", Reason: "is too large"}
	}
	affordable := quotient.IntPart()

	exact := c.policy.recommend(requiredShares)
	if exact.GreaterThan(maxShares) {
		return Result{}, &InvalidInputError{Field: "requiredShares", Reason: "is too large"}
	}

	required := decimal.NewFromInt(requiredShares)
	eligible := affordable >= requiredShares

	shortfall := decimal.Zero
	if !eligible {
		missing := decimal.NewFromInt(requiredShares - affordable)
		shortfall = roundCurrency(missing.Mul(unitPrice))
	}

	recommended := exact.IntPart()
	if recommended < affordable {
		recommended = affordable
	}

	return Result{
		AffordableShares:      affordable,
		Eligible:              eligible,
		Shortfall:             shortfall,
		RecommendedShares:     recommended,
		MinimumInvestment:     roundCurrency(required.Mul(unitPrice)),
		RecommendedInvestment: roundCurrency(decimal.NewFromInt(recommended).Mul(unitPrice)),
	}, nil
}

// CalculateFloat is a convenience wrapper for callers holding float64 amounts,
// such as values decoded from JSON.
func (c *Calculator) CalculateFloat(unitPrice float64, requiredShares int64, budget float64) (Result, error) {
	return c.Calculate(decimal.NewFromFloat(unitPrice), requiredShares, decimal.NewFromFloat(budget))
}

// MinimumInvestment returns requiredShares * unitPrice rounded to CurrencyPlaces.
// Unlike Calculate it does not validate inputs; callers use it for display of catalog rows.
func MinimumInvestment(unitPrice decimal.Decimal, requiredShares int64) decimal.Decimal {
	return roundCurrency(decimal.NewFromInt(requiredShares).Mul(unitPrice))
}

func validateInputs(unitPrice decimal.Decimal, requiredShares int64, budget decimal.Decimal) error {
	if !unitPrice.IsPositive() {
		return &InvalidInputError{Field: "unitPrice", Reason: "must be greater than zero"}
	}
	if requiredShares < 0 {
		return &InvalidInputError{Field: "requiredShares", Reason: "must not be negative"}
	}
	if budget.IsNegative() {
		return &InvalidInputError{Field: "budget", Reason: "must not be negative"}
	}
	return nil
}

// roundCurrency rounds half away from zero, which is half-up for the
// non-negative amounts the calculator produces.
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
