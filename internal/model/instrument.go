package model

import "time"

// Instrument types
const (
	InstrumentTypeStock = "stock"
	InstrumentTypeETF   = "etf"
)

// Instrument listing status. Inactive instruments are hidden from the public catalog.
const (
	InstrumentStatusActive   = "active"
	InstrumentStatusInactive = "inactive"
)

// Dividend payout frequencies
const (
	FrequencyMonthly      = "monthly"
	FrequencyQuarterly    = "quarterly"
	FrequencySemiAnnually = "semi-annually"
	FrequencyAnnually     = "annually"
)

// ValidFrequencies lists the accepted dividend payout frequencies.
var ValidFrequencies = map[string]bool{
	FrequencyMonthly:      true,
	FrequencyQuarterly:    true,
	FrequencySemiAnnually: true,
	FrequencyAnnually:     true,
}

// Volatility bands used by the catalog filter, in annualized volatility percent.
// low: < VolatilityLowMax, medium: VolatilityLowMax..VolatilityMediumMax, high: > VolatilityMediumMax.
const (
	VolatilityAny       = "any"
	VolatilityLow       = "low"
	VolatilityMedium    = "medium"
	VolatilityHigh      = "high"
	VolatilityLowMax    = 15.0
	VolatilityMediumMax = 25.0
)

// Instrument represents a DRIP-eligible stock or ETF in the catalog.
// RequiredShares is the minimum holding the issuer's dividend reinvestment program demands.
type Instrument struct {
	ID                 string     `json:"id"`
	Symbol             string     `json:"symbol"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Sector             string     `json:"sector"`
	Industry           string     `json:"industry,omitempty"`
	Exchange           string     `json:"exchange"`
	Currency           string     `json:"currency"`
	Description        string     `json:"description,omitempty"`
	MarketCap          string     `json:"marketCap,omitempty"`
	Price              float64    `json:"price"`
	DividendYield      float64    `json:"dividendYield"`
	DividendAmount     float64    `json:"dividendAmount"`
	DividendFrequency  string     `json:"dividendFrequency"`
	DividendGrowthRate float64    `json:"dividendGrowthRate"`
	NextPaymentDate    *time.Time `json:"nextPaymentDate,omitempty"`
	RequiredShares     int64      `json:"requiredShares"`
	DripDiscount       float64    `json:"dripDiscount"`
	FractionalShares   bool       `json:"fractionalShares"`
	Beta               float64    `json:"beta"`
	Volatility         float64    `json:"volatility"`
	Holdings           int64      `json:"holdings,omitempty"`
	MER                float64    `json:"mer,omitempty"`
	Status             string     `json:"status"`
	LastUpdated        time.Time  `json:"lastUpdated"`
}

// InstrumentSummary is a catalog row enriched with the calculator's
// recommendation and the cost of reaching the DRIP threshold.
type InstrumentSummary struct {
	Instrument
	RecommendedShares int64   `json:"recommendedShares"`
	MinimumInvestment float64 `json:"minimumInvestment"`
}

// InstrumentFilter holds catalog search criteria. Nil pointers and empty
// strings mean "no constraint". It is built per request and never shared.
type InstrumentFilter struct {
	MaxPrice        *float64
	MaxInvestment   *float64
	MinYield        *float64
	Sector          string
	Volatility      string
	Frequency       string
	Type            string
	Query           string
	SortBy          string
	Order           string
	IncludeInactive bool
}

// Catalog sort fields
const (
	SortBySymbol     = "symbol"
	SortByName       = "name"
	SortByPrice      = "price"
	SortByYield      = "yield"
	SortByShares     = "shares"
	SortByInvestment = "investment"
)

// Sort orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)
