package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/payment"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"go.uber.org/zap"
)

// TokenService handles the token ledger: balances, purchases through the
// stub checkout and spending on token-priced features.
//
// The balance is never stored; it is the sum of completed ledger rows, so
// every credit and debit is an append to token_transaction.
type TokenService struct {
	db        *sql.DB
	tokenRepo *repository.TokenRepository
	sealer    *payment.Sealer
	logger    *zap.Logger
	now       func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(
	db *sql.DB,
	tokenRepo *repository.TokenRepository,
	sealer *payment.Sealer,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		db:        db,
		tokenRepo: tokenRepo,
		sealer:    sealer,
		logger:    logger,
		now:       time.Now,
	}
}

// Balance returns the user's spendable token balance.
func (s *TokenService) Balance(ctx context.Context, userID string) (int64, error) {
	return s.tokenRepo.GetBalance(ctx, userID)
}

// Packages returns the purchasable token packages in display order.
func (s *TokenService) Packages(ctx context.Context) ([]model.TokenPackage, error) {
	return s.tokenRepo.GetPackages(ctx)
}

// History returns the user's ledger, newest first. filter.UserID is overwritten with userID.
func (s *TokenService) History(ctx context.Context, userID string, filter model.TokenTransactionFilter) ([]model.TokenTransaction, error) {
	filter.UserID = userID
	return s.tokenRepo.GetTransactions(ctx, filter)
}

// Transactions returns ledger rows across all users for the admin panel.
func (s *TokenService) Transactions(ctx context.Context, filter model.TokenTransactionFilter) ([]model.TokenTransaction, error) {
	return s.tokenRepo.GetTransactions(ctx, filter)
}

// GetTransaction returns a single ledger row.
func (s *TokenService) GetTransaction(ctx context.Context, id string) (model.TokenTransaction, error) {
	return s.tokenRepo.GetTransaction(ctx, id)
}

// Grant credits tokens to a user outside of a purchase, e.g. the signup grant.
// When tx is non-nil the row is written inside it.
func (s *TokenService) Grant(ctx context.Context, tx *sql.Tx, userID, feature string, tokens int64) error {
	if tokens <= 0 {
		return nil
	}

	repo := s.tokenRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	return repo.InsertTransaction(ctx, &model.TokenTransaction{
		UserID:    userID,
		Type:      model.TokenTypeGrant,
		Tokens:    tokens,
		Status:    model.TokenStatusCompleted,
		Feature:   feature,
		CreatedAt: s.now().UTC(),
	})
}

// Spend debits cost tokens for a feature and returns the remaining balance.
//
// The balance check and the usage row are written in one transaction. A cost
// of zero records nothing and returns the current balance.
//
// Returns apperrors.ErrInsufficientTokens when the balance is below cost.
func (s *TokenService) Spend(ctx context.Context, userID, feature, symbol string, cost int64) (int64, error) {
	if cost <= 0 {
		return s.Balance(ctx, userID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.tokenRepo.WithTx(tx)

	balance, err := repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if balance < cost {
		return balance, apperrors.ErrInsufficientTokens
	}

	err = repo.InsertTransaction(ctx, &model.TokenTransaction{
		UserID:      userID,
		Type:        model.TokenTypeUsage,
		Tokens:      -cost,
		Status:      model.TokenStatusCompleted,
		Feature:     feature,
		StockSymbol: symbol,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balance - cost, nil
}

// StartCheckout records a pending purchase of packageID and returns a checkout
// token binding it to the user. The purchase is not credited until confirmed.
//
// Returns apperrors.ErrTokenPackageNotFound for an unknown package.
func (s *TokenService) StartCheckout(ctx context.Context, userID, packageID string) (model.Checkout, error) {
	pkg, err := s.tokenRepo.GetPackage(ctx, packageID)
	if err != nil {
		return model.Checkout{}, err
	}

	amount := pkg.Price
	purchase := &model.TokenTransaction{
		UserID:    userID,
		Type:      model.TokenTypePurchase,
		Tokens:    pkg.Tokens,
		Amount:    &amount,
		Status:    model.TokenStatusPending,
		PackageID: pkg.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tokenRepo.InsertTransaction(ctx, purchase); err != nil {
		return model.Checkout{}, err
	}

	token, claims, err := s.sealer.Seal(payment.Claims{
		TransactionID: purchase.ID,
		UserID:        userID,
		PackageID:     pkg.ID,
		Tokens:        pkg.Tokens,
		Amount:        pkg.Price,
	})
	if err != nil {
		return model.Checkout{}, err
	}

	s.logger.Info("checkout started",
		zap.String("user", userID),
		zap.String("transaction", purchase.ID),
		zap.String("package", pkg.ID),
	)

	return model.Checkout{
		TransactionID: purchase.ID,
		CheckoutToken: token,
		PackageID:     pkg.ID,
		Tokens:        pkg.Tokens,
		Amount:        pkg.Price,
		ExpiresAt:     claims.ExpiresAt,
	}, nil
}

// ConfirmCheckout completes the purchase behind a checkout token and credits the tokens.
//
// Returns:
//   - apperrors.ErrCheckoutInvalid for forged or expired tokens, or tokens issued to another user
//   - apperrors.ErrCheckoutSettled when the purchase was already confirmed or cancelled
func (s *TokenService) ConfirmCheckout(ctx context.Context, userID, checkoutToken string) (model.CheckoutResult, error) {
	return s.settle(ctx, userID, checkoutToken, model.TokenStatusCompleted, payment.NewPaymentRef())
}

// CancelCheckout marks the purchase behind a checkout token as failed. No tokens are credited.
// Errors match ConfirmCheckout.
func (s *TokenService) CancelCheckout(ctx context.Context, userID, checkoutToken string) (model.CheckoutResult, error) {
	return s.settle(ctx, userID, checkoutToken, model.TokenStatusFailed, "")
}

func (s *TokenService) settle(ctx context.Context, userID, checkoutToken, status, paymentRef string) (model.CheckoutResult, error) {
	claims, err := s.sealer.Open(checkoutToken)
	if err != nil || claims.UserID != userID {
		return model.CheckoutResult{}, apperrors.ErrCheckoutInvalid
	}

	purchase, err := s.tokenRepo.GetTransaction(ctx, claims.TransactionID)
	if errors.Is(err, apperrors.ErrTokenTransactionNotFound) {
		return model.CheckoutResult{}, apperrors.ErrCheckoutInvalid
	}
	if err != nil {
		return model.CheckoutResult{}, err
	}
	if purchase.UserID != userID || purchase.Type != model.TokenTypePurchase || purchase.Tokens != claims.Tokens {
		return model.CheckoutResult{}, apperrors.ErrCheckoutInvalid
	}

	settled, err := s.tokenRepo.SettleTransaction(ctx, purchase.ID, status, paymentRef)
	if err != nil {
		return model.CheckoutResult{}, err
	}
	if !settled {
		return model.CheckoutResult{}, apperrors.ErrCheckoutSettled
	}

	purchase, err = s.tokenRepo.GetTransaction(ctx, purchase.ID)
	if err != nil {
		return model.CheckoutResult{}, err
	}
	balance, err := s.tokenRepo.GetBalance(ctx, userID)
	if err != nil {
		return model.CheckoutResult{}, err
	}

	s.logger.Info("checkout settled",
		zap.String("user", userID),
		zap.String("transaction", purchase.ID),
		zap.String("status", status),
	)

	return model.CheckoutResult{Transaction: purchase, TokenBalance: balance}, nil
}
