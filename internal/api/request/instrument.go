package request

// CreateInstrumentRequest represents the request body for adding an instrument to the catalog.
type CreateInstrumentRequest struct {
	Symbol             string   `json:"symbol"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Sector             string   `json:"sector"`
	Industry           string   `json:"industry"`
	Exchange           string   `json:"exchange"`
	Currency           string   `json:"currency"`
	Description        string   `json:"description"`
	MarketCap          string   `json:"marketCap"`
	Price              float64  `json:"price"`
	DividendYield      float64  `json:"dividendYield"`
	DividendAmount     float64  `json:"dividendAmount"`
	DividendFrequency  string   `json:"dividendFrequency"`
	DividendGrowthRate float64  `json:"dividendGrowthRate"`
	NextPaymentDate    string   `json:"nextPaymentDate"`
	RequiredShares     *int64   `json:"requiredShares"`
	DripDiscount       float64  `json:"dripDiscount"`
	FractionalShares   bool     `json:"fractionalShares"`
	Beta               float64  `json:"beta"`
	Volatility         float64  `json:"volatility"`
	Holdings           int64    `json:"holdings"`
	MER                *float64 `json:"mer"`
	Status             string   `json:"status"`
}

// UpdateInstrumentRequest represents a partial update. Omitted fields keep their stored value.
type UpdateInstrumentRequest struct {
	Symbol             *string  `json:"symbol,omitempty"`
	Name               *string  `json:"name,omitempty"`
	Type               *string  `json:"type,omitempty"`
	Sector             *string  `json:"sector,omitempty"`
	Industry           *string  `json:"industry,omitempty"`
	Exchange           *string  `json:"exchange,omitempty"`
	Currency           *string  `json:"currency,omitempty"`
	Description        *string  `json:"description,omitempty"`
	MarketCap          *string  `json:"marketCap,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	DividendYield      *float64 `json:"dividendYield,omitempty"`
	DividendAmount     *float64 `json:"dividendAmount,omitempty"`
	DividendFrequency  *string  `json:"dividendFrequency,omitempty"`
	DividendGrowthRate *float64 `json:"dividendGrowthRate,omitempty"`
	NextPaymentDate    *string  `json:"nextPaymentDate,omitempty"`
	RequiredShares     *int64   `json:"requiredShares,omitempty"`
	DripDiscount       *float64 `json:"dripDiscount,omitempty"`
	FractionalShares   *bool    `json:"fractionalShares,omitempty"`
	Beta               *float64 `json:"beta,omitempty"`
	Volatility         *float64 `json:"volatility,omitempty"`
	Holdings           *int64   `json:"holdings,omitempty"`
	MER                *float64 `json:"mer,omitempty"`
	Status             *string  `json:"status,omitempty"`
}
