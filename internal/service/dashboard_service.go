package service

import (
	"context"
	"errors"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles the signed-in landing view from the other services.
type DashboardService struct {
	instrumentService *InstrumentService
	watchlistService  *WatchlistService
	tokenService      *TokenService
	featuredService   *FeaturedService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	instrumentService *InstrumentService,
	watchlistService *WatchlistService,
	tokenService *TokenService,
	featuredService *FeaturedService,
) *DashboardService {
	return &DashboardService{
		instrumentService: instrumentService,
		watchlistService:  watchlistService,
		tokenService:      tokenService,
		featuredService:   featuredService,
	}
}

// GetDashboard loads the filtered catalog, the user's watchlist, their token
// balance and the featured stock concurrently. The first failure cancels the
// remaining loads. Having no featured stock is not an error; Featured is left nil.
func (s *DashboardService) GetDashboard(ctx context.Context, userID string, filter model.InstrumentFilter) (model.Dashboard, error) {
	var dashboard model.Dashboard

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		instruments, err := s.instrumentService.Search(gctx, filter)
		if err != nil {
			return err
		}
		dashboard.Instruments = instruments
		return nil
	})

	g.Go(func() error {
		items, err := s.watchlistService.List(gctx, userID, model.WatchlistSortName, true)
		if err != nil {
			return err
		}
		dashboard.Watchlist = items
		return nil
	})

	g.Go(func() error {
		balance, err := s.tokenService.Balance(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.TokenBalance = balance
		return nil
	})

	g.Go(func() error {
		featured, err := s.featuredService.Current(gctx)
		if errors.Is(err, apperrors.ErrFeaturedNotAvailable) {
			return nil
		}
		if err != nil {
			return err
		}
		dashboard.Featured = &featured
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return dashboard, nil
}
