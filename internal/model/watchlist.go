package model

import "time"

// WatchlistItem is one instrument on a user's watchlist with its DRIP requirements.
type WatchlistItem struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	DividendYield     float64   `json:"dividendYield"`
	Frequency         string    `json:"frequency"`
	SharesRequired    int64     `json:"sharesRequired"`
	RecommendedShares int64     `json:"recommendedShares"`
	LastUpdated       time.Time `json:"lastUpdated"`
	AddedAt           time.Time `json:"addedAt"`
}

// Watchlist sort fields
const (
	WatchlistSortName   = "name"
	WatchlistSortPrice  = "price"
	WatchlistSortYield  = "yield"
	WatchlistSortShares = "shares"
)

// ValidWatchlistSorts lists the accepted watchlist sort fields.
var ValidWatchlistSorts = map[string]bool{
	WatchlistSortName:   true,
	WatchlistSortPrice:  true,
	WatchlistSortYield:  true,
	WatchlistSortShares: true,
}
