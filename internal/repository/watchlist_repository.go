package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

var watchlistSortColumns = map[string]string{
	model.WatchlistSortName:   "i.name",
	model.WatchlistSortPrice:  "i.price",
	model.WatchlistSortYield:  "i.dividend_yield",
	model.WatchlistSortShares: "i.required_shares",
}

// WatchlistRepository provides data access methods for the watchlist_item table.
type WatchlistRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) WithTx(tx *sql.Tx) *WatchlistRepository {
	return &WatchlistRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *WatchlistRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// AddItem puts an instrument on a user's watchlist.
// Returns apperrors.ErrDuplicateEntry if it is already there.
func (r *WatchlistRepository) AddItem(ctx context.Context, userID, instrumentID string, at time.Time) error {
	query := `INSERT INTO watchlist_item (user_id, instrument_id, added_at) VALUES (?, ?, ?)`

	_, err := r.getQuerier().ExecContext(ctx, query, userID, instrumentID, formatTime(at))
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert watchlist_item: %w", err)
	}

	return nil
}

// RemoveItem takes an instrument off a user's watchlist.
// Returns apperrors.ErrWatchlistItemNotFound if it was not there.
func (r *WatchlistRepository) RemoveItem(ctx context.Context, userID, instrumentID string) error {
	query := `DELETE FROM watchlist_item WHERE user_id = ? AND instrument_id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, userID, instrumentID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist_item: %w", err)
	}

	return requireAffected(result, apperrors.ErrWatchlistItemNotFound)
}

// GetItems retrieves a user's watchlist joined with the catalog.
//
// Parameters:
//   - userID: identity provider ID of the owner
//   - sortField: one of name, price, yield or shares; anything else sorts by name
//   - ascending: sort direction for sortField
//
// Ties are broken by symbol. Returns an empty slice for an empty watchlist.
func (r *WatchlistRepository) GetItems(ctx context.Context, userID, sortField string, ascending bool) ([]model.WatchlistItem, error) {
	column, ok := watchlistSortColumns[sortField]
	if !ok {
		column = "i.name"
	}
	direction := "ASC"
	if !ascending {
		direction = "DESC"
	}

	query := `
		SELECT i.symbol, i.name, i.price, i.dividend_yield, i.dividend_frequency, i.required_shares,
			i.last_updated, w.added_at
		FROM watchlist_item w
		INNER JOIN instrument i ON i.id = w.instrument_id
		WHERE w.user_id = ?
		ORDER BY ` + column + ` ` + direction + `, i.symbol ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist_item table: %w", err)
	}
	defer rows.Close()

	items := []model.WatchlistItem{}
	for rows.Next() {
		var (
			item                 model.WatchlistItem
			lastUpdated, addedAt string
		)
		err := rows.Scan(
			&item.Symbol,
			&item.Name,
			&item.Price,
			&item.DividendYield,
			&item.Frequency,
			&item.SharesRequired,
			&lastUpdated,
			&addedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist_item table results: %w", err)
		}
		if item.LastUpdated, err = ParseTime(lastUpdated); err != nil {
			return nil, err
		}
		if item.AddedAt, err = ParseTime(addedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist_item table: %w", err)
	}

	return items, nil
}
