package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

var validInstrumentSorts = map[string]bool{
	model.SortBySymbol:     true,
	model.SortByName:       true,
	model.SortByPrice:      true,
	model.SortByYield:      true,
	model.SortByShares:     true,
	model.SortByInvestment: true,
}

var validVolatility = map[string]bool{
	model.VolatilityAny:    true,
	model.VolatilityLow:    true,
	model.VolatilityMedium: true,
	model.VolatilityHigh:   true,
}

var validTokenTypes = map[string]bool{
	model.TokenTypeGrant:    true,
	model.TokenTypePurchase: true,
	model.TokenTypeUsage:    true,
}

var validTokenStatuses = map[string]bool{
	model.TokenStatusPending:   true,
	model.TokenStatusCompleted: true,
	model.TokenStatusFailed:    true,
}

// ParseInstrumentFilter extracts and validates catalog search criteria from query parameters.
//
// Recognised parameters, all optional:
//   - maxPrice, maxInvestment, minYield: non-negative numbers
//   - sector: free text, matched case-insensitively; "any" disables the filter
//   - volatility: any, low, medium or high
//   - frequency: monthly, quarterly, semi-annually, annually or any
//   - type: stock, etf or any
//   - q: substring of symbol, name or sector
//   - sort: symbol, name, price, yield, shares or investment (defaults to symbol)
//   - order: asc or desc (defaults to asc)
//
// Returns an error naming the first parameter that fails validation.
//
//nolint:gocyclo // One branch per query parameter
func ParseInstrumentFilter(params url.Values) (model.InstrumentFilter, error) {
	filter := model.InstrumentFilter{
		Sector: strings.TrimSpace(params.Get("sector")),
		Query:  strings.TrimSpace(params.Get("q")),
		SortBy: model.SortBySymbol,
		Order:  model.OrderAsc,
	}

	var err error
	if filter.MaxPrice, err = parseAmount(params, "maxPrice"); err != nil {
		return model.InstrumentFilter{}, err
	}
	if filter.MaxInvestment, err = parseAmount(params, "maxInvestment"); err != nil {
		return model.InstrumentFilter{}, err
	}
	if filter.MinYield, err = parseAmount(params, "minYield"); err != nil {
		return model.InstrumentFilter{}, err
	}

	if v := strings.ToLower(params.Get("volatility")); v != "" {
		if !validVolatility[v] {
			return model.InstrumentFilter{}, fmt.Errorf("invalid volatility: must be one of any, low, medium, high")
		}
		if v != model.VolatilityAny {
			filter.Volatility = v
		}
	}

	if f := strings.ToLower(params.Get("frequency")); f != "" && f != "any" {
		if !model.ValidFrequencies[f] {
			return model.InstrumentFilter{}, fmt.Errorf("invalid frequency: %s", f)
		}
		filter.Frequency = f
	}

	if t := strings.ToLower(params.Get("type")); t != "" && t != "any" {
		if t != model.InstrumentTypeStock && t != model.InstrumentTypeETF {
			return model.InstrumentFilter{}, fmt.Errorf("invalid type: must be 'stock' or 'etf'")
		}
		filter.Type = t
	}

	if s := strings.ToLower(params.Get("sort")); s != "" {
		if !validInstrumentSorts[s] {
			return model.InstrumentFilter{}, fmt.Errorf("invalid sort: %s", s)
		}
		filter.SortBy = s
	}

	order, err := parseOrder(params.Get("order"))
	if err != nil {
		return model.InstrumentFilter{}, err
	}
	if order != "" {
		filter.Order = order
	}

	return filter, nil
}

// ParseWatchlistSort extracts the watchlist sort field and direction.
// Defaults to name, ascending.
func ParseWatchlistSort(params url.Values) (string, bool, error) {
	field := model.WatchlistSortName
	if s := strings.ToLower(params.Get("sort")); s != "" {
		if !model.ValidWatchlistSorts[s] {
			return "", false, fmt.Errorf("invalid sort: must be one of name, price, yield, shares")
		}
		field = s
	}

	order, err := parseOrder(params.Get("order"))
	if err != nil {
		return "", false, err
	}

	return field, order != model.OrderDesc, nil
}

// ParseTokenFilter extracts ledger filters: type, status, start_date and end_date.
// Dates accept YYYY-MM-DD or RFC3339; end_date is inclusive of the whole day.
func ParseTokenFilter(params url.Values) (model.TokenTransactionFilter, error) {
	var filter model.TokenTransactionFilter

	if t := strings.ToLower(params.Get("type")); t != "" {
		if !validTokenTypes[t] {
			return filter, fmt.Errorf("invalid type: must be one of grant, purchase, usage")
		}
		filter.Type = t
	}

	if s := strings.ToLower(params.Get("status")); s != "" {
		if !validTokenStatuses[s] {
			return filter, fmt.Errorf("invalid status: must be one of pending, completed, failed")
		}
		filter.Status = s
	}

	if v := params.Get("start_date"); v != "" {
		startTime, err := parseFilterTime(v)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date format: %w", err)
		}
		filter.StartDate = &startTime
	}

	if v := params.Get("end_date"); v != "" {
		endTime, err := parseFilterTime(v)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date format: %w", err)
		}
		filter.EndDate = &endTime
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, fmt.Errorf("start_date must be before end_date")
	}

	return filter, nil
}

func parseAmount(params url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: must be a number", key)
	}
	if v < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return &v, nil
}

func parseOrder(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	order := strings.ToLower(raw)
	if order != model.OrderAsc && order != model.OrderDesc {
		return "", fmt.Errorf("invalid order: must be 'asc' or 'desc'")
	}
	return order, nil
}

// parseFilterTime parses date strings for filter parameters.
// Accepts YYYY-MM-DD, RFC3339, and RFC3339 with milliseconds formats.
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
