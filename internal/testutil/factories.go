package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
)

// InstrumentBuilder provides a fluent interface for creating test instruments.
//
// Example usage:
//
//	// Simple creation with defaults
//	instrument := testutil.NewInstrument().Build(t, db)
//
//	// Customized instrument
//	instrument := testutil.NewInstrument().
//	    WithSymbol("TD.TO").
//	    WithPrice(82.45).
//	    WithRequiredShares(25).
//	    Build(t, db)
type InstrumentBuilder struct {
	instrument model.Instrument
}

// NewInstrument creates an InstrumentBuilder with sensible defaults:
// an active quarterly TSX stock priced at 50.00 with a 10 share DRIP threshold.
func NewInstrument() *InstrumentBuilder {
	return &InstrumentBuilder{instrument: model.Instrument{
		ID:                MakeID(),
		Symbol:            MakeSymbol("TST") + ".TO",
		Name:              MakeInstrumentName("Test Corp"),
		Type:              model.InstrumentTypeStock,
		Sector:            "Finance",
		Exchange:          "TSX",
		Currency:          "CAD",
		Price:             50.00,
		DividendYield:     4.0,
		DividendAmount:    0.50,
		DividendFrequency: model.FrequencyQuarterly,
		RequiredShares:    10,
		Volatility:        14.0,
		Status:            model.InstrumentStatusActive,
		LastUpdated:       time.Date(2024, 2, 20, 15, 30, 0, 0, time.UTC),
	}}
}

// WithSymbol sets a custom symbol.
func (b *InstrumentBuilder) WithSymbol(symbol string) *InstrumentBuilder {
	b.instrument.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *InstrumentBuilder) WithName(name string) *InstrumentBuilder {
	b.instrument.Name = name
	return b
}

// WithType sets the instrument type (stock or etf).
func (b *InstrumentBuilder) WithType(instrumentType string) *InstrumentBuilder {
	b.instrument.Type = instrumentType
	return b
}

// WithSector sets the sector.
func (b *InstrumentBuilder) WithSector(sector string) *InstrumentBuilder {
	b.instrument.Sector = sector
	return b
}

// WithExchange sets the exchange.
func (b *InstrumentBuilder) WithExchange(exchange string) *InstrumentBuilder {
	b.instrument.Exchange = exchange
	return b
}

// WithPrice sets the unit price.
func (b *InstrumentBuilder) WithPrice(price float64) *InstrumentBuilder {
	b.instrument.Price = price
	return b
}

// WithYield sets the dividend yield in percent.
func (b *InstrumentBuilder) WithYield(yield float64) *InstrumentBuilder {
	b.instrument.DividendYield = yield
	return b
}

// WithFrequency sets the dividend frequency.
func (b *InstrumentBuilder) WithFrequency(frequency string) *InstrumentBuilder {
	b.instrument.DividendFrequency = frequency
	return b
}

// WithRequiredShares sets the DRIP threshold.
func (b *InstrumentBuilder) WithRequiredShares(shares int64) *InstrumentBuilder {
	b.instrument.RequiredShares = shares
	return b
}

// WithVolatility sets the annualized volatility in percent.
func (b *InstrumentBuilder) WithVolatility(volatility float64) *InstrumentBuilder {
	b.instrument.Volatility = volatility
	return b
}

// WithNextPaymentDate sets the next dividend payment date.
func (b *InstrumentBuilder) WithNextPaymentDate(date time.Time) *InstrumentBuilder {
	b.instrument.NextPaymentDate = &date
	return b
}

// Inactive hides the instrument from the public catalog.
func (b *InstrumentBuilder) Inactive() *InstrumentBuilder {
	b.instrument.Status = model.InstrumentStatusInactive
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	in := b.instrument
	if err := repository.NewInstrumentRepository(db).InsertInstrument(context.Background(), &in); err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}
	return in
}

// CreateInstrument creates an instrument with the given symbol, price and DRIP threshold.
//
// Example usage:
//
//	td := testutil.CreateInstrument(t, db, "TD.TO", 82.45, 25)
func CreateInstrument(t *testing.T, db *sql.DB, symbol string, price float64, requiredShares int64) model.Instrument {
	t.Helper()
	return NewInstrument().WithSymbol(symbol).WithPrice(price).WithRequiredShares(requiredShares).Build(t, db)
}

// UserBuilder provides a fluent interface for creating test users.
type UserBuilder struct {
	user model.User
}

// NewUser creates a UserBuilder for an active user who signed up on 2024-01-15.
func NewUser() *UserBuilder {
	id := "idp|" + randomAlphanumeric(12)
	signup := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return &UserBuilder{user: model.User{
		ID:          id,
		Email:       id[4:] + "@example.com",
		DisplayName: "Test User",
		Status:      model.UserStatusActive,
		CreatedAt:   signup,
		LastLogin:   signup,
	}}
}

// WithID sets a custom identity provider ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = id
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithLastLogin sets the last sign-in time.
func (b *UserBuilder) WithLastLogin(at time.Time) *UserBuilder {
	b.user.LastLogin = at
	return b
}

// Blocked marks the user as blocked by an administrator.
func (b *UserBuilder) Blocked() *UserBuilder {
	b.user.Status = model.UserStatusBlocked
	return b
}

// Build creates the user in the database and returns it. No signup grant is recorded.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	if err := repository.NewUserRepository(db).InsertUser(context.Background(), b.user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return b.user
}

// CreateUser creates an active user with default values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// TokenTransactionBuilder provides a fluent interface for creating ledger rows.
//
// Example usage:
//
//	testutil.NewTokenTransaction(user.ID).WithTokens(10).Build(t, db)
//	testutil.NewTokenTransaction(user.ID).Usage(1, "TD.TO").Build(t, db)
type TokenTransactionBuilder struct {
	tx model.TokenTransaction
}

// NewTokenTransaction creates a completed grant of 5 tokens for userID.
func NewTokenTransaction(userID string) *TokenTransactionBuilder {
	return &TokenTransactionBuilder{tx: model.TokenTransaction{
		ID:        MakeID(),
		UserID:    userID,
		Type:      model.TokenTypeGrant,
		Tokens:    5,
		Status:    model.TokenStatusCompleted,
		Feature:   model.FeatureSignupGrant,
		CreatedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
	}}
}

// WithTokens sets the signed token amount.
func (b *TokenTransactionBuilder) WithTokens(tokens int64) *TokenTransactionBuilder {
	b.tx.Tokens = tokens
	return b
}

// WithStatus sets the ledger status.
func (b *TokenTransactionBuilder) WithStatus(status string) *TokenTransactionBuilder {
	b.tx.Status = status
	return b
}

// WithCreatedAt sets the ledger timestamp.
func (b *TokenTransactionBuilder) WithCreatedAt(at time.Time) *TokenTransactionBuilder {
	b.tx.CreatedAt = at
	return b
}

// Purchase turns the row into a package purchase.
func (b *TokenTransactionBuilder) Purchase(packageID string, tokens int64, amount float64) *TokenTransactionBuilder {
	b.tx.Type = model.TokenTypePurchase
	b.tx.Tokens = tokens
	b.tx.Amount = &amount
	b.tx.PackageID = packageID
	b.tx.Feature = ""
	return b
}

// Usage turns the row into a data refresh charge of cost tokens.
func (b *TokenTransactionBuilder) Usage(cost int64, symbol string) *TokenTransactionBuilder {
	b.tx.Type = model.TokenTypeUsage
	b.tx.Tokens = -cost
	b.tx.Feature = model.FeatureDataRefresh
	b.tx.StockSymbol = symbol
	return b
}

// Build creates the ledger row in the database and returns it.
func (b *TokenTransactionBuilder) Build(t *testing.T, db *sql.DB) model.TokenTransaction {
	t.Helper()

	tx := b.tx
	if err := repository.NewTokenRepository(db).InsertTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("Failed to create test token transaction: %v", err)
	}
	return tx
}

// GrantTokens credits tokens to a user with a completed grant.
func GrantTokens(t *testing.T, db *sql.DB, userID string, tokens int64) model.TokenTransaction {
	t.Helper()
	return NewTokenTransaction(userID).WithTokens(tokens).Build(t, db)
}

// AddToWatchlist puts an instrument on a user's watchlist.
func AddToWatchlist(t *testing.T, db *sql.DB, userID, instrumentID string) {
	t.Helper()

	err := repository.NewWatchlistRepository(db).AddItem(context.Background(), userID, instrumentID, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to add test watchlist item: %v", err)
	}
}

// CreateTokenPackage creates a purchasable package.
func CreateTokenPackage(t *testing.T, db *sql.DB, id string, tokens int64, price float64) model.TokenPackage {
	t.Helper()

	query := `
		INSERT INTO token_package (id, name, tokens, price, description, best_value, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COUNT(*) FROM token_package))
	`
	p := model.TokenPackage{ID: id, Name: id, Tokens: tokens, Price: price, Description: "Test package"}

	if _, err := db.Exec(query, p.ID, p.Name, p.Tokens, p.Price, p.Description, p.BestValue); err != nil {
		t.Fatalf("Failed to create test token package: %v", err)
	}
	return p
}

// CreateFeaturedCandidate adds an analyst write-up for an instrument.
func CreateFeaturedCandidate(t *testing.T, db *sql.DB, instrumentID, recommendation string) {
	t.Helper()

	query := `
		INSERT INTO featured_candidate (id, instrument_id, analysis, recommendation, target_price, analyst_name, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COUNT(*) FROM featured_candidate))
	`
	if _, err := db.Exec(query, MakeID(), instrumentID, "Test analysis", recommendation, 60.0, "Test Analyst"); err != nil {
		t.Fatalf("Failed to create test featured candidate: %v", err)
	}
}
