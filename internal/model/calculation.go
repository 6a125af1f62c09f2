package model

// Calculation is the API rendering of a DRIP calculator result.
// Money fields are rounded to two decimals; the *Display fields carry a currency prefix.
type Calculation struct {
	UnitPrice                float64 `json:"unitPrice"`
	RequiredShares           int64   `json:"requiredShares"`
	Budget                   float64 `json:"budget"`
	AffordableShares         int64   `json:"affordableShares"`
	Eligible                 bool    `json:"eligible"`
	Shortfall                float64 `json:"shortfall"`
	ShortfallDisplay         string  `json:"shortfallDisplay"`
	RecommendedShares        int64   `json:"recommendedShares"`
	MinimumInvestment        float64 `json:"minimumInvestment"`
	MinimumInvestmentDisplay string  `json:"minimumInvestmentDisplay"`
	RecommendedInvestment    float64 `json:"recommendedInvestment"`
}

// InstrumentCalculation pairs a calculation with the instrument it was run against.
type InstrumentCalculation struct {
	Symbol      string      `json:"symbol"`
	Name        string      `json:"name"`
	Frequency   string      `json:"frequency"`
	Calculation Calculation `json:"calculation"`
}

// RefreshResult is returned after a token-priced quote refresh.
type RefreshResult struct {
	Instrument   Instrument `json:"instrument"`
	TokensSpent  int64      `json:"tokensSpent"`
	TokenBalance int64      `json:"tokenBalance"`
}

// Dashboard aggregates everything the signed-in landing view renders.
type Dashboard struct {
	Instruments  []InstrumentSummary `json:"instruments"`
	Watchlist    []WatchlistItem     `json:"watchlist"`
	TokenBalance int64               `json:"tokenBalance"`
	Featured     *FeaturedStock      `json:"featured,omitempty"`
}
