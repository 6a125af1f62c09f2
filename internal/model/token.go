package model

import "time"

// Token transaction types
const (
	TokenTypeGrant    = "grant"
	TokenTypePurchase = "purchase"
	TokenTypeUsage    = "usage"
)

// Token transaction statuses. Only completed transactions count toward a balance.
const (
	TokenStatusPending   = "pending"
	TokenStatusCompleted = "completed"
	TokenStatusFailed    = "failed"
)

// Token-priced features
const (
	FeatureDataRefresh    = "Data Refresh"
	FeatureAdvancedSearch = "Advanced Search"
	FeatureSignupGrant    = "Signup Grant"
)

// TokenTransaction is one row of the token ledger.
// Tokens is signed: purchases and grants are positive, usage is negative.
type TokenTransaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserEmail   string    `json:"userEmail,omitempty"`
	Type        string    `json:"type"`
	Tokens      int64     `json:"tokens"`
	Amount      *float64  `json:"amount,omitempty"`
	Status      string    `json:"status"`
	PackageID   string    `json:"packageId,omitempty"`
	PaymentRef  string    `json:"paymentRef,omitempty"`
	Feature     string    `json:"feature,omitempty"`
	StockSymbol string    `json:"stockSymbol,omitempty"`
	CreatedAt   time.Time `json:"date"`
}

// TokenTransactionFilter narrows ledger queries. Empty fields are unconstrained.
type TokenTransactionFilter struct {
	UserID    string
	Type      string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// TokenPackage is a purchasable bundle of tokens.
type TokenPackage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Tokens      int64   `json:"tokens"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	BestValue   bool    `json:"bestValue"`
}

// Checkout is a pending purchase awaiting confirmation from the payment stub.
type Checkout struct {
	TransactionID string    `json:"transactionId"`
	CheckoutToken string    `json:"checkoutToken"`
	PackageID     string    `json:"packageId"`
	Tokens        int64     `json:"tokens"`
	Amount        float64   `json:"amount"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// TokenBalance is the user's spendable balance.
type TokenBalance struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}

// CheckoutResult is returned when a checkout is confirmed or cancelled.
type CheckoutResult struct {
	Transaction  TokenTransaction `json:"transaction"`
	TokenBalance int64            `json:"tokenBalance"`
}
