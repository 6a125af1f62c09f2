package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/payment"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/testutil"
)

func TestTokenService_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("counts only completed rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		testutil.GrantTokens(t, db, user.ID, 10)
		testutil.NewTokenTransaction(user.ID).Usage(3, "TD.TO").Build(t, db)
		testutil.NewTokenTransaction(user.ID).Purchase("starter", 5, 2.99).WithStatus(model.TokenStatusPending).Build(t, db)
		testutil.NewTokenTransaction(user.ID).Purchase("starter", 5, 2.99).WithStatus(model.TokenStatusFailed).Build(t, db)

		balance, err := svc.Balance(ctx, user.ID)
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}
		if balance != 7 {
			t.Errorf("Balance = %d, want 7", balance)
		}
	})

	t.Run("unknown user has zero balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTokenService(t, db)

		balance, err := svc.Balance(ctx, "idp|nobody")
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}
		if balance != 0 {
			t.Errorf("Balance = %d, want 0", balance)
		}
	})
}

func TestTokenService_Packages(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := testutil.NewTestTokenService(t, db)

	got, err := svc.Packages(context.Background())
	if err != nil {
		t.Fatalf("Packages() returned unexpected error: %v", err)
	}

	want := []model.TokenPackage{
		{ID: "starter", Name: "5 Tokens", Tokens: 5, Price: 2.99, Description: "Access advanced features", BestValue: true},
		{ID: "standard", Name: "10 Tokens", Tokens: 10, Price: 5.99, Description: "Refresh quotes for a full watchlist"},
		{ID: "pro", Name: "25 Tokens", Tokens: 25, Price: 12.99, Description: "For active DRIP investors"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenService_History(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTokenService(t, db)
	user := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)

	jan := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)

	grant := testutil.NewTokenTransaction(user.ID).WithTokens(10).WithCreatedAt(jan).Build(t, db)
	usage := testutil.NewTokenTransaction(user.ID).Usage(1, "ENB.TO").WithCreatedAt(feb).Build(t, db)
	purchase := testutil.NewTokenTransaction(user.ID).Purchase("standard", 10, 5.99).WithCreatedAt(mar).Build(t, db)
	testutil.NewTokenTransaction(other.ID).WithCreatedAt(feb).Build(t, db)

	ids := func(rows []model.TokenTransaction) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	t.Run("newest first for the user only", func(t *testing.T) {
		got, err := svc.History(ctx, user.ID, model.TokenTransactionFilter{UserID: other.ID})
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{purchase.ID, usage.ID, grant.ID}, ids(got)); diff != "" {
			t.Errorf("History() mismatch (-want +got):\n%s", diff)
		}
		if got[0].UserEmail != user.Email {
			t.Errorf("UserEmail = %q, want %q", got[0].UserEmail, user.Email)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		got, err := svc.History(ctx, user.ID, model.TokenTransactionFilter{Type: model.TokenTypeUsage})
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{usage.ID}, ids(got)); diff != "" {
			t.Errorf("History() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

		got, err := svc.History(ctx, user.ID, model.TokenTransactionFilter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{purchase.ID, usage.ID}, ids(got)); diff != "" {
			t.Errorf("History() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("admin view spans users", func(t *testing.T) {
		got, err := svc.Transactions(ctx, model.TokenTransactionFilter{})
		if err != nil {
			t.Fatalf("Transactions() returned unexpected error: %v", err)
		}
		if len(got) != 4 {
			t.Errorf("Expected 4 rows, got %d", len(got))
		}
	})
}

// TestTokenService_Spend tests debits for token-priced features.
//
// WHY: The balance must never go negative, even when requests race.
func TestTokenService_Spend(t *testing.T) {
	ctx := context.Background()

	t.Run("debits and returns remaining balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)
		testutil.GrantTokens(t, db, user.ID, 5)

		balance, err := svc.Spend(ctx, user.ID, model.FeatureAdvancedSearch, "", 2)
		if err != nil {
			t.Fatalf("Spend() returned unexpected error: %v", err)
		}
		if balance != 3 {
			t.Errorf("Balance = %d, want 3", balance)
		}
	})

	t.Run("insufficient balance records nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)
		testutil.GrantTokens(t, db, user.ID, 1)

		balance, err := svc.Spend(ctx, user.ID, model.FeatureDataRefresh, "TD.TO", 2)
		if !errors.Is(err, apperrors.ErrInsufficientTokens) {
			t.Fatalf("Expected ErrInsufficientTokens, got %v", err)
		}
		if balance != 1 {
			t.Errorf("Balance = %d, want 1", balance)
		}

		rows, err := svc.History(ctx, user.ID, model.TokenTransactionFilter{Type: model.TokenTypeUsage})
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("Expected no usage rows, got %d", len(rows))
		}
	})

	t.Run("zero cost is free", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		balance, err := svc.Spend(ctx, user.ID, model.FeatureDataRefresh, "TD.TO", 0)
		if err != nil {
			t.Fatalf("Spend() returned unexpected error: %v", err)
		}
		if balance != 0 {
			t.Errorf("Balance = %d, want 0", balance)
		}
	})

	t.Run("concurrent spends never overdraw", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)
		testutil.GrantTokens(t, db, user.ID, 3)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Spend(ctx, user.ID, model.FeatureDataRefresh, "TD.TO", 1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if succeeded != 3 {
			t.Errorf("Expected 3 successful spends, got %d", succeeded)
		}
		balance, err := svc.Balance(ctx, user.ID)
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}
		if balance != 0 {
			t.Errorf("Balance = %d, want 0", balance)
		}
	})
}

// TestTokenService_Checkout tests the stub purchase flow.
//
// WHY: Tokens are only credited once the checkout is confirmed, a checkout can
// be settled exactly once, and a token issued to one user is useless to another.
//
//nolint:gocyclo // Checkout lifecycle scenarios
func TestTokenService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm credits tokens", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		checkout, err := svc.StartCheckout(ctx, user.ID, "standard")
		if err != nil {
			t.Fatalf("StartCheckout() returned unexpected error: %v", err)
		}
		if checkout.Tokens != 10 || checkout.Amount != 5.99 || checkout.CheckoutToken == "" {
			t.Errorf("Unexpected checkout: %+v", checkout)
		}

		balance, err := svc.Balance(ctx, user.ID)
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}
		if balance != 0 {
			t.Errorf("Pending purchase credited early: balance = %d", balance)
		}

		result, err := svc.ConfirmCheckout(ctx, user.ID, checkout.CheckoutToken)
		if err != nil {
			t.Fatalf("ConfirmCheckout() returned unexpected error: %v", err)
		}
		if result.TokenBalance != 10 {
			t.Errorf("TokenBalance = %d, want 10", result.TokenBalance)
		}
		if result.Transaction.ID != checkout.TransactionID || result.Transaction.Status != model.TokenStatusCompleted {
			t.Errorf("Unexpected transaction: %+v", result.Transaction)
		}
		if !strings.HasPrefix(result.Transaction.PaymentRef, "stub_") {
			t.Errorf("PaymentRef = %q, want stub_ prefix", result.Transaction.PaymentRef)
		}
	})

	t.Run("confirm twice", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		checkout, err := svc.StartCheckout(ctx, user.ID, "starter")
		if err != nil {
			t.Fatalf("StartCheckout() returned unexpected error: %v", err)
		}
		if _, err := svc.ConfirmCheckout(ctx, user.ID, checkout.CheckoutToken); err != nil {
			t.Fatalf("ConfirmCheckout() returned unexpected error: %v", err)
		}

		_, err = svc.ConfirmCheckout(ctx, user.ID, checkout.CheckoutToken)
		if !errors.Is(err, apperrors.ErrCheckoutSettled) {
			t.Errorf("Expected ErrCheckoutSettled, got %v", err)
		}

		balance, _ := svc.Balance(ctx, user.ID)
		if balance != 5 {
			t.Errorf("Balance = %d, want 5", balance)
		}
	})

	t.Run("cancel credits nothing", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		checkout, err := svc.StartCheckout(ctx, user.ID, "pro")
		if err != nil {
			t.Fatalf("StartCheckout() returned unexpected error: %v", err)
		}

		result, err := svc.CancelCheckout(ctx, user.ID, checkout.CheckoutToken)
		if err != nil {
			t.Fatalf("CancelCheckout() returned unexpected error: %v", err)
		}
		if result.Transaction.Status != model.TokenStatusFailed || result.TokenBalance != 0 {
			t.Errorf("Unexpected result: %+v", result)
		}

		if _, err := svc.ConfirmCheckout(ctx, user.ID, checkout.CheckoutToken); !errors.Is(err, apperrors.ErrCheckoutSettled) {
			t.Errorf("Expected ErrCheckoutSettled after cancel, got %v", err)
		}
	})

	t.Run("token of another user", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		owner := testutil.CreateUser(t, db)
		thief := testutil.CreateUser(t, db)

		checkout, err := svc.StartCheckout(ctx, owner.ID, "pro")
		if err != nil {
			t.Fatalf("StartCheckout() returned unexpected error: %v", err)
		}

		if _, err := svc.ConfirmCheckout(ctx, thief.ID, checkout.CheckoutToken); !errors.Is(err, apperrors.ErrCheckoutInvalid) {
			t.Errorf("Expected ErrCheckoutInvalid, got %v", err)
		}
	})

	t.Run("forged token", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		if _, err := svc.ConfirmCheckout(ctx, user.ID, "not-a-token"); !errors.Is(err, apperrors.ErrCheckoutInvalid) {
			t.Errorf("Expected ErrCheckoutInvalid, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		now := time.Now()
		sealer := testutil.NewTestSealer(t).WithClock(func() time.Time { return now })
		svc := testutil.NewTestTokenServiceWithSealer(t, db, sealer)
		user := testutil.CreateUser(t, db)

		checkout, err := svc.StartCheckout(ctx, user.ID, "starter")
		if err != nil {
			t.Fatalf("StartCheckout() returned unexpected error: %v", err)
		}

		now = now.Add(testutil.TestCheckoutTTL + time.Minute)

		if _, err := svc.ConfirmCheckout(ctx, user.ID, checkout.CheckoutToken); !errors.Is(err, apperrors.ErrCheckoutInvalid) {
			t.Errorf("Expected ErrCheckoutInvalid, got %v", err)
		}
	})

	t.Run("token sealed with another key", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		checkout, err := svc.StartCheckout(ctx, user.ID, "starter")
		if err != nil {
			t.Fatalf("StartCheckout() returned unexpected error: %v", err)
		}

		foreign, err := payment.NewSealer("", time.Hour)
		if err != nil {
			t.Fatalf("NewSealer() returned unexpected error: %v", err)
		}
		forged, _, err := foreign.Seal(payment.Claims{
			TransactionID: checkout.TransactionID,
			UserID:        user.ID,
			PackageID:     "starter",
			Tokens:        5,
			Amount:        2.99,
		})
		if err != nil {
			t.Fatalf("Seal() returned unexpected error: %v", err)
		}

		if _, err := svc.ConfirmCheckout(ctx, user.ID, forged); !errors.Is(err, apperrors.ErrCheckoutInvalid) {
			t.Errorf("Expected ErrCheckoutInvalid, got %v", err)
		}
	})

	t.Run("unknown package", func(t *testing.T) {
		db := testutil.SetupSeededDB(t)
		svc := testutil.NewTestTokenService(t, db)
		user := testutil.CreateUser(t, db)

		if _, err := svc.StartCheckout(ctx, user.ID, "mega"); !errors.Is(err, apperrors.ErrTokenPackageNotFound) {
			t.Errorf("Expected ErrTokenPackageNotFound, got %v", err)
		}
	})
}
