package request

type StartCheckoutRequest struct {
	PackageID string `json:"packageId"`
}

// SettleCheckoutRequest is the body of both checkout confirmation and cancellation.
type SettleCheckoutRequest struct {
	CheckoutToken string `json:"checkoutToken"`
}
