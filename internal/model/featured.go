package model

import "time"

// Analyst recommendations
const (
	RecommendationBuy  = "buy"
	RecommendationHold = "hold"
	RecommendationSell = "sell"
)

// FeaturedCandidate is an analyst write-up eligible to become the featured stock of the week.
type FeaturedCandidate struct {
	ID             string
	Symbol         string
	Analysis       string
	Recommendation string
	TargetPrice    float64
	AnalystName    string
}

// FeaturedStock is the currently featured instrument with its analysis.
type FeaturedStock struct {
	Stock          Instrument `json:"stock"`
	Analysis       string     `json:"analysis"`
	Recommendation string     `json:"recommendation"`
	TargetPrice    float64    `json:"targetPrice"`
	AnalystName    string     `json:"analystName"`
	Week           string     `json:"week"`
	SelectedAt     time.Time  `json:"selectedAt"`
}
