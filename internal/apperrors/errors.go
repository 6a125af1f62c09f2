package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrInstrumentNotFound indicates that no stock or ETF with the given symbol exists.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrWatchlistItemNotFound indicates that the symbol is not on the user's watchlist.
	ErrWatchlistItemNotFound = errors.New("watchlist item not found")

	// ErrTokenTransactionNotFound indicates that a token transaction does not exist.
	ErrTokenTransactionNotFound = errors.New("token transaction not found")

	// ErrTokenPackageNotFound indicates that a token package ID is unknown.
	ErrTokenPackageNotFound = errors.New("token package not found")

	// ErrFeaturedNotAvailable indicates that there are no featured stock candidates.
	ErrFeaturedNotAvailable = errors.New("no featured stock available")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInsufficientTokens indicates that the user's balance does not cover a token-priced feature.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrUserBlocked indicates that an administrator has blocked the user.
	ErrUserBlocked = errors.New("user is blocked")

	// ErrCheckoutInvalid indicates a checkout token that is forged, expired or owned by another user.
	ErrCheckoutInvalid = errors.New("checkout token is invalid or expired")

	// ErrCheckoutSettled indicates that the purchase behind a checkout token is no longer pending.
	ErrCheckoutSettled = errors.New("checkout already settled")

	// Validation errors for required fields
	ErrInvalidSymbol = errors.New("symbol is required")
	ErrInvalidUserID = errors.New("user ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Catalog operation errors
	ErrFailedToRetrieveInstruments = errors.New("failed to retrieve instruments")
	ErrFailedToRetrieveInstrument  = errors.New("failed to retrieve instrument")
	ErrFailedToRetrieveSectors     = errors.New("failed to retrieve sectors")
	ErrFailedToCreateInstrument    = errors.New("failed to create instrument")
	ErrFailedToUpdateInstrument    = errors.New("failed to update instrument")
	ErrFailedToDeleteInstrument    = errors.New("failed to delete instrument")
	ErrFailedToRefreshInstrument   = errors.New("failed to refresh instrument")

	// Calculator errors
	ErrFailedToCalculate = errors.New("failed to calculate DRIP eligibility")

	// Watchlist operation errors
	ErrFailedToRetrieveWatchlist = errors.New("failed to retrieve watchlist")
	ErrFailedToUpdateWatchlist   = errors.New("failed to update watchlist")

	// Token operation errors
	ErrFailedToRetrieveBalance      = errors.New("failed to retrieve token balance")
	ErrFailedToRetrieveTokenHistory = errors.New("failed to retrieve token history")
	ErrFailedToRetrievePackages     = errors.New("failed to retrieve token packages")
	ErrFailedToStartCheckout        = errors.New("failed to start checkout")
	ErrFailedToSettleCheckout       = errors.New("failed to settle checkout")

	// User operation errors
	ErrFailedToRetrieveUsers = errors.New("failed to retrieve users")
	ErrFailedToUpdateUser    = errors.New("failed to update user")
	ErrFailedToIdentifyUser  = errors.New("failed to identify user")

	// Featured / dashboard errors
	ErrFailedToRetrieveFeatured  = errors.New("failed to retrieve featured stock")
	ErrFailedToRotateFeatured    = errors.New("failed to rotate featured stock")
	ErrFailedToRetrieveDashboard = errors.New("failed to retrieve dashboard")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
