package request

// CalculateRequest represents the request body for a raw DRIP calculation.
// Pointers distinguish a missing field from an explicit zero.
type CalculateRequest struct {
	UnitPrice      *float64 `json:"unitPrice"`
	RequiredShares *int64   `json:"requiredShares"`
	Budget         *float64 `json:"budget"`
}
