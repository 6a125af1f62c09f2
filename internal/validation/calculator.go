package validation

import "github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"

// ValidateCalculate checks that every calculator input is present and in range.
// The same bounds are enforced again by the calculator itself.
func ValidateCalculate(req request.CalculateRequest) error {
	errors := make(map[string]string)

	if req.UnitPrice == nil {
		errors["unitPrice"] = "unit price is required"
	} else if *req.UnitPrice <= 0 {
		errors["unitPrice"] = "unit price must be greater than zero"
	}

	if req.RequiredShares == nil {
		errors["requiredShares"] = "required shares is required"
	} else if *req.RequiredShares < 0 {
		errors["requiredShares"] = "required shares must not be negative"
	}

	if req.Budget == nil {
		errors["budget"] = "budget is required"
	} else if *req.Budget < 0 {
		errors["budget"] = "budget must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
