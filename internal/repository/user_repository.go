package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

// UserRepository provides data access methods for the app_user table.
type UserRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *UserRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetUser retrieves a user by identity provider ID.
// Returns apperrors.ErrUserNotFound if the user has never signed in.
func (r *UserRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	query := `
		SELECT id, email, display_name, status, created_at, last_login
		FROM app_user
		WHERE id = ?
	`

	u, err := scanUser(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// InsertUser stores a first-time user.
func (r *UserRepository) InsertUser(ctx context.Context, u model.User) error {
	query := `
		INSERT INTO app_user (id, email, display_name, status, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		u.ID,
		u.Email,
		nullString(u.DisplayName),
		u.Status,
		formatTime(u.CreatedAt),
		formatTime(u.LastLogin),
	)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// TouchLogin records a sign-in. Email and display name follow the identity
// provider; an empty value keeps what is stored.
func (r *UserRepository) TouchLogin(ctx context.Context, id, email, displayName string, at time.Time) error {
	query := `
		UPDATE app_user SET
			email = COALESCE(NULLIF(?, ''), email),
			display_name = COALESCE(NULLIF(?, ''), display_name),
			last_login = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, email, displayName, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to update user login: %w", err)
	}

	return requireAffected(result, apperrors.ErrUserNotFound)
}

// SetStatus changes a user's status.
func (r *UserRepository) SetStatus(ctx context.Context, id, status string) error {
	query := `UPDATE app_user SET status = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	return requireAffected(result, apperrors.ErrUserNotFound)
}

// GetUsersWithBalance retrieves every user with their completed token balance,
// most recent sign-in first.
func (r *UserRepository) GetUsersWithBalance(ctx context.Context) ([]model.UserWithBalance, error) {
	query := `
		SELECT u.id, u.email, u.display_name, u.status, u.created_at, u.last_login,
			COALESCE((
				SELECT SUM(t.tokens) FROM token_transaction t
				WHERE t.user_id = u.id AND t.status = ?
			), 0) AS balance
		FROM app_user u
		ORDER BY u.last_login DESC, u.id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, model.TokenStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query app_user table: %w", err)
	}
	defer rows.Close()

	users := []model.UserWithBalance{}
	for rows.Next() {
		var (
			u                    model.UserWithBalance
			displayName          sql.NullString
			createdAt, lastLogin string
		)
		err := rows.Scan(
			&u.ID,
			&u.Email,
			&displayName,
			&u.Status,
			&createdAt,
			&lastLogin,
			&u.TokenBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app_user table results: %w", err)
		}
		u.DisplayName = displayName.String
		if u.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		if u.LastLogin, err = ParseTime(lastLogin); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating app_user table: %w", err)
	}

	return users, nil
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u                    model.User
		displayName          sql.NullString
		createdAt, lastLogin string
	)

	err := row.Scan(&u.ID, &u.Email, &displayName, &u.Status, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}

	u.DisplayName = displayName.String
	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, err
	}
	if u.LastLogin, err = ParseTime(lastLogin); err != nil {
		return model.User{}, err
	}

	return u, nil
}
