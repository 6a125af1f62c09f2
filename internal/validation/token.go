package validation

import (
	"strings"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
)

func ValidateStartCheckout(req request.StartCheckoutRequest) error {
	if strings.TrimSpace(req.PackageID) == "" {
		return &Error{Fields: map[string]string{"packageId": "package ID is required"}}
	}
	return nil
}

func ValidateSettleCheckout(req request.SettleCheckoutRequest) error {
	if strings.TrimSpace(req.CheckoutToken) == "" {
		return &Error{Fields: map[string]string{"checkoutToken": "checkout token is required"}}
	}
	return nil
}
