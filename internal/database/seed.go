package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedInstrument struct {
	Symbol             string  `yaml:"symbol"`
	Name               string  `yaml:"name"`
	Type               string  `yaml:"type"`
	Sector             string  `yaml:"sector"`
	Industry           string  `yaml:"industry"`
	Exchange           string  `yaml:"exchange"`
	Currency           string  `yaml:"currency"`
	Description        string  `yaml:"description"`
	MarketCap          string  `yaml:"market_cap"`
	Price              float64 `yaml:"price"`
	DividendYield      float64 `yaml:"dividend_yield"`
	DividendAmount     float64 `yaml:"dividend_amount"`
	DividendFrequency  string  `yaml:"dividend_frequency"`
	DividendGrowthRate float64 `yaml:"dividend_growth_rate"`
	NextPaymentDate    string  `yaml:"next_payment_date"`
	RequiredShares     int64   `yaml:"required_shares"`
	DripDiscount       float64 `yaml:"drip_discount"`
	FractionalShares   bool    `yaml:"fractional_shares"`
	Beta               float64 `yaml:"beta"`
	Volatility         float64 `yaml:"volatility"`
	Holdings           int64   `yaml:"holdings"`
	MER                float64 `yaml:"mer"`
	Status             string  `yaml:"status"`
	LastUpdated        string  `yaml:"last_updated"`
}

type seedPackage struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Tokens      int64   `yaml:"tokens"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
	BestValue   bool    `yaml:"best_value"`
}

type seedFeatured struct {
	Symbol         string  `yaml:"symbol"`
	Analysis       string  `yaml:"analysis"`
	Recommendation string  `yaml:"recommendation"`
	TargetPrice    float64 `yaml:"target_price"`
	AnalystName    string  `yaml:"analyst_name"`
}

// Fixture is the decoded catalog seed.
type Fixture struct {
	Instruments []seedInstrument `yaml:"instruments"`
	Packages    []seedPackage    `yaml:"packages"`
	Featured    []seedFeatured   `yaml:"featured"`
}

// LoadFixture decodes the embedded catalog seed.
func LoadFixture() (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed fixture: %w", err)
	}
	return &f, nil
}

// Seed loads the embedded fixture into an empty catalog and returns the number
// of instruments inserted. A catalog that already has instruments is left untouched.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM instrument").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count instruments: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	fixture, err := LoadFixture()
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	idBySymbol := make(map[string]string, len(fixture.Instruments))
	for _, in := range fixture.Instruments {
		id := uuid.New().String()
		if err := insertSeedInstrument(ctx, tx, id, in); err != nil {
			return 0, err
		}
		idBySymbol[in.Symbol] = id
	}

	for i, p := range fixture.Packages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO token_package (id, name, tokens, price, description, best_value, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Tokens, p.Price, p.Description, p.BestValue, i,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to seed token package %s: %w", p.ID, err)
		}
	}

	for i, f := range fixture.Featured {
		instrumentID, ok := idBySymbol[f.Symbol]
		if !ok {
			return 0, fmt.Errorf("featured candidate references unknown symbol %s", f.Symbol)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO featured_candidate (id, instrument_id, analysis, recommendation, target_price, analyst_name, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), instrumentID, f.Analysis, f.Recommendation, f.TargetPrice, f.AnalystName, i,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to seed featured candidate %s: %w", f.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	return len(fixture.Instruments), nil
}

func insertSeedInstrument(ctx context.Context, tx *sql.Tx, id string, in seedInstrument) error {
	lastUpdated, err := time.Parse(time.RFC3339, in.LastUpdated)
	if err != nil {
		return fmt.Errorf("invalid last_updated for %s: %w", in.Symbol, err)
	}

	var nextPayment, holdings, mer any
	if in.NextPaymentDate != "" {
		nextPayment = in.NextPaymentDate
	}
	if in.Holdings > 0 {
		holdings = in.Holdings
	}
	if in.MER > 0 {
		mer = in.MER
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO instrument (
			id, symbol, name, type, sector, industry, exchange, currency, description, market_cap,
			price, dividend_yield, dividend_amount, dividend_frequency, dividend_growth_rate, next_payment_date,
			required_shares, drip_discount, fractional_shares, beta, volatility, holdings, mer, status, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Symbol, in.Name, in.Type, in.Sector, in.Industry, in.Exchange, in.Currency, in.Description, in.MarketCap,
		in.Price, in.DividendYield, in.DividendAmount, in.DividendFrequency, in.DividendGrowthRate, nextPayment,
		in.RequiredShares, in.DripDiscount, in.FractionalShares, in.Beta, in.Volatility, holdings, mer, in.Status,
		lastUpdated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to seed instrument %s: %w", in.Symbol, err)
	}
	return nil
}
