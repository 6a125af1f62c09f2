package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

const tokenTransactionColumns = `
	t.id, t.user_id, u.email, t.type, t.tokens, t.amount, t.status,
	t.package_id, t.payment_ref, t.feature, t.stock_symbol, t.created_at`

// TokenRepository provides data access methods for the token ledger
// (token_transaction) and the purchasable token packages (token_package).
type TokenRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTokenRepository creates a new TokenRepository with the provided database connection.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) WithTx(tx *sql.Tx) *TokenRepository {
	return &TokenRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TokenRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetBalance sums the completed ledger rows of a user.
// Pending and failed purchases do not count. A user without rows has a balance of 0.
func (r *TokenRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(tokens), 0)
		FROM token_transaction
		WHERE user_id = ? AND status = ?
	`

	var balance int64
	err := r.getQuerier().QueryRowContext(ctx, query, userID, model.TokenStatusCompleted).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to query token balance: %w", err)
	}
	return balance, nil
}

// InsertTransaction appends a row to the ledger. An empty ID is replaced with a fresh UUID.
func (r *TokenRepository) InsertTransaction(ctx context.Context, t *model.TokenTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	query := `
		INSERT INTO token_transaction (
			id, user_id, type, tokens, amount, status, package_id, payment_ref, feature, stock_symbol, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var amount any
	if t.Amount != nil {
		amount = *t.Amount
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Type,
		t.Tokens,
		amount,
		t.Status,
		nullString(t.PackageID),
		nullString(t.PaymentRef),
		nullString(t.Feature),
		nullString(t.StockSymbol),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert token_transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a ledger row by ID.
// Returns apperrors.ErrTokenTransactionNotFound if it does not exist.
func (r *TokenRepository) GetTransaction(ctx context.Context, id string) (model.TokenTransaction, error) {
	query := `SELECT ` + tokenTransactionColumns + `
		FROM token_transaction t
		INNER JOIN app_user u ON u.id = t.user_id
		WHERE t.id = ?`

	t, err := scanTokenTransaction(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenTransaction{}, apperrors.ErrTokenTransactionNotFound
	}
	if err != nil {
		return model.TokenTransaction{}, err
	}
	return t, nil
}

// SettleTransaction moves a pending purchase to its final status.
// It only touches rows that are still pending and reports whether one was updated,
// so two concurrent confirmations cannot both credit the same purchase.
func (r *TokenRepository) SettleTransaction(ctx context.Context, id, status, paymentRef string) (bool, error) {
	query := `
		UPDATE token_transaction
		SET status = ?, payment_ref = COALESCE(?, payment_ref)
		WHERE id = ? AND status = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, status, nullString(paymentRef), id, model.TokenStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update token_transaction status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetTransactions retrieves ledger rows matching the filter, newest first.
// An empty filter returns the ledger of every user.
func (r *TokenRepository) GetTransactions(ctx context.Context, filter model.TokenTransactionFilter) ([]model.TokenTransaction, error) {
	query := `SELECT ` + tokenTransactionColumns + `
		FROM token_transaction t
		INNER JOIN app_user u ON u.id = t.user_id
		WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		query += ` AND t.user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.Type != "" {
		query += ` AND t.type = ?`
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		query += ` AND t.status = ?`
		args = append(args, filter.Status)
	}
	if filter.StartDate != nil {
		query += ` AND t.created_at >= ?`
		args = append(args, formatTime(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += ` AND t.created_at < ?`
		args = append(args, formatTime(filter.EndDate.AddDate(0, 0, 1)))
	}

	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query token_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.TokenTransaction{}
	for rows.Next() {
		t, err := scanTokenTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token_transaction table: %w", err)
	}

	return transactions, nil
}

// GetPackages retrieves the token packages in display order.
func (r *TokenRepository) GetPackages(ctx context.Context) ([]model.TokenPackage, error) {
	query := `
		SELECT id, name, tokens, price, description, best_value
		FROM token_package
		ORDER BY position ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query token_package table: %w", err)
	}
	defer rows.Close()

	packages := []model.TokenPackage{}
	for rows.Next() {
		p, err := scanTokenPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token_package table: %w", err)
	}

	return packages, nil
}

// GetPackage retrieves a single token package.
// Returns apperrors.ErrTokenPackageNotFound for an unknown ID.
func (r *TokenRepository) GetPackage(ctx context.Context, id string) (model.TokenPackage, error) {
	query := `
		SELECT id, name, tokens, price, description, best_value
		FROM token_package
		WHERE id = ?
	`

	p, err := scanTokenPackage(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenPackage{}, apperrors.ErrTokenPackageNotFound
	}
	if err != nil {
		return model.TokenPackage{}, err
	}
	return p, nil
}

func scanTokenPackage(row rowScanner) (model.TokenPackage, error) {
	var (
		p           model.TokenPackage
		description sql.NullString
	)

	err := row.Scan(&p.ID, &p.Name, &p.Tokens, &p.Price, &description, &p.BestValue)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenPackage{}, err
	}
	if err != nil {
		return model.TokenPackage{}, fmt.Errorf("failed to scan token_package: %w", err)
	}
	p.Description = description.String
	return p, nil
}

func scanTokenTransaction(row rowScanner) (model.TokenTransaction, error) {
	var (
		t                                      model.TokenTransaction
		amount                                 sql.NullFloat64
		packageID, paymentRef, feature, symbol sql.NullString
		createdAt                              string
	)

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.UserEmail,
		&t.Type,
		&t.Tokens,
		&amount,
		&t.Status,
		&packageID,
		&paymentRef,
		&feature,
		&symbol,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenTransaction{}, err
	}
	if err != nil {
		return model.TokenTransaction{}, fmt.Errorf("failed to scan token_transaction: %w", err)
	}

	if amount.Valid {
		a := amount.Float64
		t.Amount = &a
	}
	t.PackageID = packageID.String
	t.PaymentRef = paymentRef.String
	t.Feature = feature.String
	t.StockSymbol = symbol.String

	t.CreatedAt, err = ParseTime(createdAt)
	if err != nil {
		return model.TokenTransaction{}, err
	}

	return t, nil
}
