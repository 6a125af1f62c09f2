package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

// TSXSuffix is the symbol suffix carried by every stock listed on the Toronto Stock Exchange.
const TSXSuffix = ".TO"

// ExchangeTSX is the exchange code of the Toronto Stock Exchange.
const ExchangeTSX = "TSX"

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,19}$`)

var validInstrumentTypes = map[string]bool{
	model.InstrumentTypeStock: true,
	model.InstrumentTypeETF:   true,
}

var validInstrumentStatuses = map[string]bool{
	model.InstrumentStatusActive:   true,
	model.InstrumentStatusInactive: true,
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks the ticker format. An empty symbol is reported as required.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return &Error{Fields: map[string]string{"symbol": "symbol is required"}}
	}
	if !symbolPattern.MatchString(symbol) {
		return &Error{Fields: map[string]string{"symbol": "symbol must be 1-20 letters, digits, '.' or '-'"}}
	}
	return nil
}

//nolint:gocyclo // One check per field
func ValidateCreateInstrument(req request.CreateInstrumentRequest) error {
	errors := make(map[string]string)

	symbol := NormalizeSymbol(req.Symbol)
	if err := ValidateSymbol(symbol); err != nil {
		errors["symbol"] = err.(*Error).Fields["symbol"]
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 255 {
		errors["name"] = "name must be 255 characters or less"
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !validInstrumentTypes[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if strings.TrimSpace(req.Sector) == "" {
		errors["sector"] = "sector is required"
	} else if len(req.Sector) > 50 {
		errors["sector"] = "sector must be 50 characters or less"
	}

	if strings.TrimSpace(req.Exchange) == "" {
		errors["exchange"] = "exchange is required"
	} else if len(req.Exchange) > 20 {
		errors["exchange"] = "exchange must be 20 characters or less (TSX, NYSE)"
	}

	if strings.TrimSpace(req.Currency) == "" {
		errors["currency"] = "currency is required"
	} else if len(req.Currency) != 3 {
		errors["currency"] = "currency must be 3 characters (CAD, USD)"
	}

	if _, taken := errors["symbol"]; !taken {
		if msg := tsxSymbolRule(symbol, req.Type, req.Exchange); msg != "" {
			errors["symbol"] = msg
		}
	}

	if req.Price <= 0 {
		errors["price"] = "price must be greater than zero"
	}
	if req.RequiredShares == nil {
		errors["requiredShares"] = "required shares is required"
	} else if *req.RequiredShares < 0 {
		errors["requiredShares"] = "required shares must not be negative"
	}
	if req.DividendYield < 0 {
		errors["dividendYield"] = "dividend yield must not be negative"
	}
	if req.DividendAmount < 0 {
		errors["dividendAmount"] = "dividend amount must not be negative"
	}

	if strings.TrimSpace(req.DividendFrequency) == "" {
		errors["dividendFrequency"] = "dividend frequency is required"
	} else if !model.ValidFrequencies[req.DividendFrequency] {
		errors["dividendFrequency"] = fmt.Sprintf("invalid dividend frequency: %s", req.DividendFrequency)
	}

	if req.NextPaymentDate != "" {
		if _, err := ParseTime(req.NextPaymentDate); err != nil {
			errors["nextPaymentDate"] = "invalid date format (use YYYY-MM-DD)"
		}
	}

	if req.DripDiscount < 0 || req.DripDiscount > 100 {
		errors["dripDiscount"] = "DRIP discount must be between 0 and 100"
	}
	if req.Volatility < 0 {
		errors["volatility"] = "volatility must not be negative"
	}
	if req.Holdings < 0 {
		errors["holdings"] = "holdings must not be negative"
	}
	if req.MER != nil && *req.MER < 0 {
		errors["mer"] = "MER must not be negative"
	}

	if req.Status != "" && !validInstrumentStatuses[req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", req.Status)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateInstrument validates only the provided fields.
// The TSX symbol rule needs the stored type and exchange, so it is applied to the merged instrument by ValidateMergedInstrument.
//
//nolint:gocyclo // One check per field
func ValidateUpdateInstrument(req request.UpdateInstrumentRequest) error {
	errors := make(map[string]string)

	if req.Symbol != nil {
		if err := ValidateSymbol(*req.Symbol); err != nil {
			errors["symbol"] = err.(*Error).Fields["symbol"]
		}
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 255 {
			errors["name"] = "name must be 255 characters or less"
		}
	}
	if req.Type != nil && !validInstrumentTypes[*req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", *req.Type)
	}
	if req.Sector != nil && strings.TrimSpace(*req.Sector) == "" {
		errors["sector"] = "sector cannot be empty"
	}
	if req.Exchange != nil && strings.TrimSpace(*req.Exchange) == "" {
		errors["exchange"] = "exchange cannot be empty"
	}
	if req.Currency != nil && len(*req.Currency) != 3 {
		errors["currency"] = "currency must be 3 characters (CAD, USD)"
	}
	if req.Price != nil && *req.Price <= 0 {
		errors["price"] = "price must be greater than zero"
	}
	if req.RequiredShares != nil && *req.RequiredShares < 0 {
		errors["requiredShares"] = "required shares must not be negative"
	}
	if req.DividendYield != nil && *req.DividendYield < 0 {
		errors["dividendYield"] = "dividend yield must not be negative"
	}
	if req.DividendAmount != nil && *req.DividendAmount < 0 {
		errors["dividendAmount"] = "dividend amount must not be negative"
	}
	if req.DividendFrequency != nil && !model.ValidFrequencies[*req.DividendFrequency] {
		errors["dividendFrequency"] = fmt.Sprintf("invalid dividend frequency: %s", *req.DividendFrequency)
	}
	if req.NextPaymentDate != nil && *req.NextPaymentDate != "" {
		if _, err := ParseTime(*req.NextPaymentDate); err != nil {
			errors["nextPaymentDate"] = "invalid date format (use YYYY-MM-DD)"
		}
	}
	if req.DripDiscount != nil && (*req.DripDiscount < 0 || *req.DripDiscount > 100) {
		errors["dripDiscount"] = "DRIP discount must be between 0 and 100"
	}
	if req.Volatility != nil && *req.Volatility < 0 {
		errors["volatility"] = "volatility must not be negative"
	}
	if req.Holdings != nil && *req.Holdings < 0 {
		errors["holdings"] = "holdings must not be negative"
	}
	if req.MER != nil && *req.MER < 0 {
		errors["mer"] = "MER must not be negative"
	}
	if req.Status != nil && !validInstrumentStatuses[*req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", *req.Status)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateMergedInstrument applies the cross-field rules to an instrument after a partial update.
func ValidateMergedInstrument(in model.Instrument) error {
	if msg := tsxSymbolRule(in.Symbol, in.Type, in.Exchange); msg != "" {
		return &Error{Fields: map[string]string{"symbol": msg}}
	}
	return nil
}

// tsxSymbolRule returns a message when a TSX-listed stock lacks the .TO suffix.
func tsxSymbolRule(symbol, instrumentType, exchange string) string {
	if instrumentType == model.InstrumentTypeStock &&
		strings.EqualFold(strings.TrimSpace(exchange), ExchangeTSX) &&
		!strings.HasSuffix(symbol, TSXSuffix) {
		return "TSX stock symbols must end with " + TSXSuffix
	}
	return ""
}
