package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"go.uber.org/zap"
)

// loginTouchInterval limits how often a returning user's last_login is rewritten.
const loginTouchInterval = time.Minute

// UserService keeps the local record of users authenticated by the external
// identity provider and lets administrators block them.
type UserService struct {
	db           *sql.DB
	userRepo     *repository.UserRepository
	tokenService *TokenService
	signupGrant  int64
	logger       *zap.Logger
	now          func() time.Time
}

// NewUserService creates a new UserService. New users receive signupGrant tokens.
func NewUserService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	tokenService *TokenService,
	signupGrant int64,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		db:           db,
		userRepo:     userRepo,
		tokenService: tokenService,
		signupGrant:  signupGrant,
		logger:       logger,
		now:          time.Now,
	}
}

// Touch records a request from an authenticated user.
//
// A first-time user is created together with the signup token grant in one
// transaction. A returning user has LastLogin refreshed (at most once per
// minute) and email or display name updated when the identity provider sends new ones.
//
// Returns:
//   - apperrors.ErrInvalidUserID when id is empty
//   - apperrors.ErrUserBlocked, together with the stored user, when an administrator blocked the user
func (s *UserService) Touch(ctx context.Context, id, email, displayName string) (model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.User{}, apperrors.ErrInvalidUserID
	}
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	now := s.now().UTC()

	u, err := s.userRepo.GetUser(ctx, id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		u, err = s.register(ctx, id, email, displayName, now)
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			return u, err
		}
		// Registered concurrently by another request; continue as returning user.
		u, err = s.userRepo.GetUser(ctx, id)
	}
	if err != nil {
		return model.User{}, err
	}

	if u.Status == model.UserStatusBlocked {
		return u, apperrors.ErrUserBlocked
	}

	changed := (email != "" && email != u.Email) || (displayName != "" && displayName != u.DisplayName)
	if changed || now.Sub(u.LastLogin) >= loginTouchInterval {
		if err := s.userRepo.TouchLogin(ctx, id, email, displayName, now); err != nil {
			return model.User{}, err
		}
		u.LastLogin = now
		if email != "" {
			u.Email = email
		}
		if displayName != "" {
			u.DisplayName = displayName
		}
	}

	return u, nil
}

func (s *UserService) register(ctx context.Context, id, email, displayName string, now time.Time) (model.User, error) {
	u := model.User{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		Status:      model.UserStatusActive,
		CreatedAt:   now,
		LastLogin:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.userRepo.WithTx(tx).InsertUser(ctx, u); err != nil {
		return model.User{}, err
	}
	if err := s.tokenService.Grant(ctx, tx, id, model.FeatureSignupGrant, s.signupGrant); err != nil {
		return model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("user registered", zap.String("user", id), zap.Int64("signupGrant", s.signupGrant))
	return u, nil
}

// List returns every user with their token balance, for the admin panel.
func (s *UserService) List(ctx context.Context) ([]model.UserWithBalance, error) {
	return s.userRepo.GetUsersWithBalance(ctx)
}

// SetStatus blocks or unblocks a user. The status must already be validated.
func (s *UserService) SetStatus(ctx context.Context, id, status string) (model.User, error) {
	if err := s.userRepo.SetStatus(ctx, id, status); err != nil {
		return model.User{}, err
	}

	s.logger.Info("user status changed", zap.String("user", id), zap.String("status", status))
	return s.userRepo.GetUser(ctx, id)
}
