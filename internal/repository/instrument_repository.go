package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

const instrumentColumns = `
	id, symbol, name, type, sector, industry, exchange, currency, description, market_cap,
	price, dividend_yield, dividend_amount, dividend_frequency, dividend_growth_rate, next_payment_date,
	required_shares, drip_discount, fractional_shares, beta, volatility, holdings, mer, status, last_updated`

// instrumentSortColumns maps catalog sort fields to SQL expressions.
var instrumentSortColumns = map[string]string{
	model.SortBySymbol:     "symbol",
	model.SortByName:       "name",
	model.SortByPrice:      "price",
	model.SortByYield:      "dividend_yield",
	model.SortByShares:     "required_shares",
	model.SortByInvestment: "price * required_shares",
}

// InstrumentRepository provides data access methods for the instrument table.
// It backs the public catalog search as well as the admin catalog maintenance.
type InstrumentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

func (r *InstrumentRepository) WithTx(tx *sql.Tx) *InstrumentRepository {
	return &InstrumentRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InstrumentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Search retrieves instruments matching the filter.
//
// Inactive instruments are excluded unless filter.IncludeInactive is set.
// Results are ordered by filter.SortBy (default symbol) with symbol as the tie breaker,
// so equal prices or yields always come back in the same order.
func (r *InstrumentRepository) Search(ctx context.Context, filter model.InstrumentFilter) ([]model.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instrument WHERE 1=1`
	var args []any

	if !filter.IncludeInactive {
		query += ` AND status = ?`
		args = append(args, model.InstrumentStatusActive)
	}
	if filter.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *filter.MaxPrice)
	}
	if filter.MaxInvestment != nil {
		query += ` AND price * required_shares <= ?`
		args = append(args, *filter.MaxInvestment)
	}
	if filter.MinYield != nil {
		query += ` AND dividend_yield >= ?`
		args = append(args, *filter.MinYield)
	}
	if filter.Sector != "" && !strings.EqualFold(filter.Sector, "any") {
		query += ` AND LOWER(sector) = LOWER(?)`
		args = append(args, filter.Sector)
	}
	switch filter.Volatility {
	case model.VolatilityLow:
		query += ` AND volatility < ?`
		args = append(args, model.VolatilityLowMax)
	case model.VolatilityMedium:
		query += ` AND volatility >= ? AND volatility <= ?`
		args = append(args, model.VolatilityLowMax, model.VolatilityMediumMax)
	case model.VolatilityHigh:
		query += ` AND volatility > ?`
		args = append(args, model.VolatilityMediumMax)
	}
	if filter.Frequency != "" {
		query += ` AND dividend_frequency = ?`
		args = append(args, filter.Frequency)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Query != "" {
		like := containsPattern(filter.Query)
		query += ` AND (LOWER(symbol) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\' OR LOWER(sector) LIKE ? ESCAPE '\')`
		args = append(args, like, like, like)
	}

	sortColumn, ok := instrumentSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "symbol"
	}
	direction := "ASC"
	if filter.Order == model.OrderDesc {
		direction = "DESC"
	}
	query += ` ORDER BY ` + sortColumn + ` ` + direction + `, symbol ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument table: %w", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}
	for rows.Next() {
		in, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, in)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument table: %w", err)
	}

	return instruments, nil
}

// GetBySymbol retrieves a single instrument, active or not.
// Symbols are matched case-insensitively. Returns apperrors.ErrInstrumentNotFound if none exists.
func (r *InstrumentRepository) GetBySymbol(ctx context.Context, symbol string) (model.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instrument WHERE UPPER(symbol) = UPPER(?)`

	in, err := scanInstrument(r.getQuerier().QueryRowContext(ctx, query, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, apperrors.ErrInstrumentNotFound
	}
	if err != nil {
		return model.Instrument{}, err
	}
	return in, nil
}

// Sectors returns the distinct sectors of active instruments in alphabetical order.
func (r *InstrumentRepository) Sectors(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT sector FROM instrument WHERE status = ? ORDER BY sector ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, model.InstrumentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer rows.Close()

	sectors := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sectors: %w", err)
	}

	return sectors, nil
}

// InsertInstrument stores a new instrument. An empty ID is replaced with a fresh UUID.
// Returns apperrors.ErrDuplicateEntry when the symbol already exists.
func (r *InstrumentRepository) InsertInstrument(ctx context.Context, in *model.Instrument) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}

	query := `INSERT INTO instrument (` + instrumentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := append([]any{in.ID}, instrumentValues(in)...)
	_, err := r.getQuerier().ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert instrument: %w", err)
	}

	return nil
}

// UpdateInstrument overwrites every column of the instrument identified by in.ID.
func (r *InstrumentRepository) UpdateInstrument(ctx context.Context, in *model.Instrument) error {
	query := `
		UPDATE instrument SET
			symbol = ?, name = ?, type = ?, sector = ?, industry = ?, exchange = ?, currency = ?,
			description = ?, market_cap = ?, price = ?, dividend_yield = ?, dividend_amount = ?,
			dividend_frequency = ?, dividend_growth_rate = ?, next_payment_date = ?, required_shares = ?,
			drip_discount = ?, fractional_shares = ?, beta = ?, volatility = ?, holdings = ?, mer = ?,
			status = ?, last_updated = ?
		WHERE id = ?`

	args := append(instrumentValues(in), in.ID)
	result, err := r.getQuerier().ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to update instrument: %w", err)
	}

	return requireAffected(result, apperrors.ErrInstrumentNotFound)
}

// UpdatePrice sets a new quote and stamps last_updated.
func (r *InstrumentRepository) UpdatePrice(ctx context.Context, id string, price float64, at time.Time) error {
	query := `UPDATE instrument SET price = ?, last_updated = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, price, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to update instrument price: %w", err)
	}

	return requireAffected(result, apperrors.ErrInstrumentNotFound)
}

// DeleteInstrument removes an instrument. Watchlist entries and featured
// candidates referencing it are removed by the foreign key cascade.
func (r *InstrumentRepository) DeleteInstrument(ctx context.Context, id string) error {
	query := `DELETE FROM instrument WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete instrument: %w", err)
	}

	return requireAffected(result, apperrors.ErrInstrumentNotFound)
}

// instrumentValues returns the column values after id, in instrumentColumns order.
func instrumentValues(in *model.Instrument) []any {
	var nextPayment, holdings, mer any
	if in.NextPaymentDate != nil {
		nextPayment = in.NextPaymentDate.Format("2006-01-02")
	}
	if in.Holdings > 0 {
		holdings = in.Holdings
	}
	if in.MER > 0 {
		mer = in.MER
	}

	return []any{
		in.Symbol, in.Name, in.Type, in.Sector, nullString(in.Industry), in.Exchange, in.Currency,
		nullString(in.Description), nullString(in.MarketCap),
		in.Price, in.DividendYield, in.DividendAmount, in.DividendFrequency, in.DividendGrowthRate, nextPayment,
		in.RequiredShares, in.DripDiscount, in.FractionalShares, in.Beta, in.Volatility, holdings, mer,
		in.Status, formatTime(in.LastUpdated),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstrument(row rowScanner) (model.Instrument, error) {
	var (
		in                               model.Instrument
		industry, description, marketCap sql.NullString
		nextPayment                      sql.NullString
		holdings                         sql.NullInt64
		mer                              sql.NullFloat64
		lastUpdated                      string
	)

	err := row.Scan(
		&in.ID,
		&in.Symbol,
		&in.Name,
		&in.Type,
		&in.Sector,
		&industry,
		&in.Exchange,
		&in.Currency,
		&description,
		&marketCap,
		&in.Price,
		&in.DividendYield,
		&in.DividendAmount,
		&in.DividendFrequency,
		&in.DividendGrowthRate,
		&nextPayment,
		&in.RequiredShares,
		&in.DripDiscount,
		&in.FractionalShares,
		&in.Beta,
		&in.Volatility,
		&holdings,
		&mer,
		&in.Status,
		&lastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, err
	}
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to scan instrument: %w", err)
	}

	in.Industry = industry.String
	in.Description = description.String
	in.MarketCap = marketCap.String
	in.Holdings = holdings.Int64
	in.MER = mer.Float64

	if nextPayment.Valid && nextPayment.String != "" {
		t, err := ParseTime(nextPayment.String)
		if err != nil {
			return model.Instrument{}, fmt.Errorf("failed to parse next_payment_date for %s: %w", in.Symbol, err)
		}
		in.NextPaymentDate = &t
	}

	in.LastUpdated, err = ParseTime(lastUpdated)
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to parse last_updated for %s: %w", in.Symbol, err)
	}

	return in, nil
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
