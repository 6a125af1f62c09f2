package service

import (
	"context"
	"errors"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
)

// WatchlistService manages the per-user list of instruments being tracked.
// Sort preferences are supplied on each call and never stored.
type WatchlistService struct {
	watchlistRepo  *repository.WatchlistRepository
	instrumentRepo *repository.InstrumentRepository
	calculator     *CalculatorService
	now            func() time.Time
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(
	watchlistRepo *repository.WatchlistRepository,
	instrumentRepo *repository.InstrumentRepository,
	calculator *CalculatorService,
) *WatchlistService {
	return &WatchlistService{
		watchlistRepo:  watchlistRepo,
		instrumentRepo: instrumentRepo,
		calculator:     calculator,
		now:            time.Now,
	}
}

// List returns the user's watchlist.
//
// Parameters:
//   - sortField: name, price, yield or shares
//   - ascending: sort direction; ties are always broken by symbol ascending
func (s *WatchlistService) List(ctx context.Context, userID, sortField string, ascending bool) ([]model.WatchlistItem, error) {
	items, err := s.watchlistRepo.GetItems(ctx, userID, sortField, ascending)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].RecommendedShares = s.calculator.Recommend(items[i].SharesRequired)
	}
	return items, nil
}

// Add puts an active catalog instrument on the user's watchlist.
//
// Returns apperrors.ErrInstrumentNotFound for unknown or inactive symbols and
// apperrors.ErrDuplicateEntry when the symbol is already on the list.
func (s *WatchlistService) Add(ctx context.Context, userID, symbol string) (model.WatchlistItem, error) {
	in, err := s.instrumentRepo.GetBySymbol(ctx, validation.NormalizeSymbol(symbol))
	if err != nil {
		return model.WatchlistItem{}, err
	}
	if in.Status != model.InstrumentStatusActive {
		return model.WatchlistItem{}, apperrors.ErrInstrumentNotFound
	}

	addedAt := s.now().UTC().Truncate(time.Second)
	if err := s.watchlistRepo.AddItem(ctx, userID, in.ID, addedAt); err != nil {
		return model.WatchlistItem{}, err
	}

	return model.WatchlistItem{
		Symbol:            in.Symbol,
		Name:              in.Name,
		Price:             in.Price,
		DividendYield:     in.DividendYield,
		Frequency:         in.DividendFrequency,
		SharesRequired:    in.RequiredShares,
		RecommendedShares: s.calculator.Recommend(in.RequiredShares),
		LastUpdated:       in.LastUpdated,
		AddedAt:           addedAt,
	}, nil
}

// Remove takes a symbol off the user's watchlist.
// Returns apperrors.ErrWatchlistItemNotFound if it is not on the list.
func (s *WatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	in, err := s.instrumentRepo.GetBySymbol(ctx, validation.NormalizeSymbol(symbol))
	if errors.Is(err, apperrors.ErrInstrumentNotFound) {
		return apperrors.ErrWatchlistItemNotFound
	}
	if err != nil {
		return err
	}

	return s.watchlistRepo.RemoveItem(ctx, userID, in.ID)
}
