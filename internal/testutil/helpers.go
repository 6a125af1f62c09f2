package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/cache"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/payment"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
	"go.uber.org/zap"
)

// Defaults used by the NewTest*Service constructors.
const (
	TestSignupGrant = 10
	TestRefreshCost = 1
	TestCheckoutTTL = 30 * time.Minute
	TestFeaturedTTL = 7 * 24 * time.Hour
)

func NewTestCalculatorService(t *testing.T, db *sql.DB) *service.CalculatorService {
	t.Helper()

	return service.NewCalculatorService(
		drip.NewCalculator(drip.DefaultPolicy()),
		repository.NewInstrumentRepository(db),
	)
}

// NewTestSealer creates a checkout sealer with a freshly generated key.
func NewTestSealer(t *testing.T) *payment.Sealer {
	t.Helper()

	sealer, err := payment.NewSealer("", TestCheckoutTTL)
	if err != nil {
		t.Fatalf("Failed to create checkout sealer: %v", err)
	}
	return sealer
}

func NewTestTokenService(t *testing.T, db *sql.DB) *service.TokenService {
	t.Helper()

	return NewTestTokenServiceWithSealer(t, db, NewTestSealer(t))
}

// NewTestTokenServiceWithSealer creates a TokenService sealing checkouts with the given sealer.
// Tests use it to control the checkout clock.
func NewTestTokenServiceWithSealer(t *testing.T, db *sql.DB, sealer *payment.Sealer) *service.TokenService {
	t.Helper()

	return service.NewTokenService(
		db,
		repository.NewTokenRepository(db),
		sealer,
		zap.NewNop(),
	)
}

func NewTestInstrumentService(t *testing.T, db *sql.DB) *service.InstrumentService {
	t.Helper()

	return service.NewInstrumentService(
		repository.NewInstrumentRepository(db),
		NewTestCalculatorService(t, db),
		NewTestTokenService(t, db),
		TestRefreshCost,
		zap.NewNop(),
	)
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(
		db,
		repository.NewUserRepository(db),
		NewTestTokenService(t, db),
		TestSignupGrant,
		zap.NewNop(),
	)
}

func NewTestWatchlistService(t *testing.T, db *sql.DB) *service.WatchlistService {
	t.Helper()

	return service.NewWatchlistService(
		repository.NewWatchlistRepository(db),
		repository.NewInstrumentRepository(db),
		NewTestCalculatorService(t, db),
	)
}

// NewTestFeaturedService creates a FeaturedService backed by an in-memory cache.
// The clock is pinned to now.
func NewTestFeaturedService(t *testing.T, db *sql.DB, c cache.Cache, now time.Time) *service.FeaturedService {
	t.Helper()

	if c == nil {
		c = cache.NewMemoryCache()
	}

	return service.NewFeaturedService(
		repository.NewFeaturedRepository(db),
		repository.NewInstrumentRepository(db),
		c,
		TestFeaturedTTL,
		zap.NewNop(),
	).WithClock(func() time.Time { return now })
}

func NewTestDashboardService(t *testing.T, db *sql.DB, now time.Time) *service.DashboardService {
	t.Helper()

	return service.NewDashboardService(
		NewTestInstrumentService(t, db),
		NewTestWatchlistService(t, db),
		NewTestTokenService(t, db),
		NewTestFeaturedService(t, db, nil, now),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("BNS")
//	// Returns: "BNS1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeInstrumentName generates a unique instrument name for testing.
//
// Example usage:
//
//	name := testutil.MakeInstrumentName("Maple Bank")
//	// Returns: "Maple Bank XYZ789"
func MakeInstrumentName(base string) string {
	if base == "" {
		base = "Instrument"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// Float64Ptr returns a pointer to v, for optional request fields.
func Float64Ptr(v float64) *float64 { return &v }

// Int64Ptr returns a pointer to v, for optional request fields.
func Int64Ptr(v int64) *int64 { return &v }

// StringPtr returns a pointer to v, for optional request fields.
func StringPtr(v string) *string { return &v }
