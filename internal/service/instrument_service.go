package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
	"go.uber.org/zap"
)

// InstrumentService handles the DRIP catalog: public search and lookup,
// admin maintenance and the token-priced quote refresh.
type InstrumentService struct {
	instrumentRepo *repository.InstrumentRepository
	calculator     *CalculatorService
	tokenService   *TokenService
	refreshCost    int64
	logger         *zap.Logger
	now            func() time.Time
}

// NewInstrumentService creates a new InstrumentService.
//
// Parameters:
//   - instrumentRepo: catalog storage
//   - calculator: supplies recommended shares and minimum investments for catalog rows
//   - tokenService: charges refreshCost tokens per quote refresh
//   - refreshCost: tokens spent by Refresh; zero makes refreshes free
//   - logger: structured logger for admin changes
func NewInstrumentService(
	instrumentRepo *repository.InstrumentRepository,
	calculator *CalculatorService,
	tokenService *TokenService,
	refreshCost int64,
	logger *zap.Logger,
) *InstrumentService {
	return &InstrumentService{
		instrumentRepo: instrumentRepo,
		calculator:     calculator,
		tokenService:   tokenService,
		refreshCost:    refreshCost,
		logger:         logger,
		now:            time.Now,
	}
}

// Search returns the active instruments matching filter, each summarized with
// its recommended share count and minimum investment.
func (s *InstrumentService) Search(ctx context.Context, filter model.InstrumentFilter) ([]model.InstrumentSummary, error) {
	filter.IncludeInactive = false
	return s.search(ctx, filter)
}

// ListAll returns every instrument including inactive ones, for the admin panel.
func (s *InstrumentService) ListAll(ctx context.Context) ([]model.InstrumentSummary, error) {
	return s.search(ctx, model.InstrumentFilter{IncludeInactive: true, SortBy: model.SortBySymbol})
}

func (s *InstrumentService) search(ctx context.Context, filter model.InstrumentFilter) ([]model.InstrumentSummary, error) {
	instruments, err := s.instrumentRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.InstrumentSummary, 0, len(instruments))
	for _, in := range instruments {
		summaries = append(summaries, s.calculator.Summarize(in))
	}
	return summaries, nil
}

// GetBySymbol returns a public catalog instrument.
// Inactive instruments are reported as apperrors.ErrInstrumentNotFound.
func (s *InstrumentService) GetBySymbol(ctx context.Context, symbol string) (model.InstrumentSummary, error) {
	in, err := s.instrumentRepo.GetBySymbol(ctx, validation.NormalizeSymbol(symbol))
	if err != nil {
		return model.InstrumentSummary{}, err
	}
	if in.Status != model.InstrumentStatusActive {
		return model.InstrumentSummary{}, apperrors.ErrInstrumentNotFound
	}
	return s.calculator.Summarize(in), nil
}

// Sectors returns the sectors present in the public catalog.
func (s *InstrumentService) Sectors(ctx context.Context) ([]string, error) {
	return s.instrumentRepo.Sectors(ctx)
}

// CreateInstrument adds an instrument to the catalog. The request must already be validated.
// The symbol is upper-cased and the status defaults to active.
//
// Returns apperrors.ErrDuplicateEntry if the symbol is already listed.
func (s *InstrumentService) CreateInstrument(ctx context.Context, req request.CreateInstrumentRequest) (*model.Instrument, error) {
	in := &model.Instrument{
		Symbol:             validation.NormalizeSymbol(req.Symbol),
		Name:               strings.TrimSpace(req.Name),
		Type:               req.Type,
		Sector:             strings.TrimSpace(req.Sector),
		Industry:           req.Industry,
		Exchange:           strings.ToUpper(strings.TrimSpace(req.Exchange)),
		Currency:           strings.ToUpper(req.Currency),
		Description:        req.Description,
		MarketCap:          req.MarketCap,
		Price:              req.Price,
		DividendYield:      req.DividendYield,
		DividendAmount:     req.DividendAmount,
		DividendFrequency:  req.DividendFrequency,
		DividendGrowthRate: req.DividendGrowthRate,
		DripDiscount:       req.DripDiscount,
		FractionalShares:   req.FractionalShares,
		Beta:               req.Beta,
		Volatility:         req.Volatility,
		Holdings:           req.Holdings,
		Status:             req.Status,
		LastUpdated:        s.now().UTC(),
	}
	if req.RequiredShares != nil {
		in.RequiredShares = *req.RequiredShares
	}
	if req.MER != nil {
		in.MER = *req.MER
	}
	if in.Status == "" {
		in.Status = model.InstrumentStatusActive
	}
	if req.NextPaymentDate != "" {
		next, err := validation.ParseTime(req.NextPaymentDate)
		if err != nil {
			return nil, err
		}
		in.NextPaymentDate = &next
	}

	if err := s.instrumentRepo.InsertInstrument(ctx, in); err != nil {
		return nil, err
	}

	s.logger.Info("instrument created", zap.String("symbol", in.Symbol), zap.String("id", in.ID))
	return in, nil
}

// UpdateInstrument applies a partial update to the instrument listed under symbol.
// Only provided fields in the request are updated; omitted fields remain unchanged.
// A price change stamps LastUpdated.
//
// Returns apperrors.ErrInstrumentNotFound for an unknown symbol, a *validation.Error
// when the merged instrument breaks a cross-field rule, and apperrors.ErrDuplicateEntry
// when renaming onto an existing symbol.
//
//nolint:gocyclo // One branch per optional field
func (s *InstrumentService) UpdateInstrument(ctx context.Context, symbol string, req request.UpdateInstrumentRequest) (*model.Instrument, error) {
	in, err := s.instrumentRepo.GetBySymbol(ctx, validation.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}

	if req.Symbol != nil {
		in.Symbol = validation.NormalizeSymbol(*req.Symbol)
	}
	if req.Name != nil {
		in.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		in.Type = *req.Type
	}
	if req.Sector != nil {
		in.Sector = strings.TrimSpace(*req.Sector)
	}
	if req.Industry != nil {
		in.Industry = *req.Industry
	}
	if req.Exchange != nil {
		in.Exchange = strings.ToUpper(strings.TrimSpace(*req.Exchange))
	}
	if req.Currency != nil {
		in.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.MarketCap != nil {
		in.MarketCap = *req.MarketCap
	}
	if req.Price != nil && *req.Price != in.Price {
		in.Price = *req.Price
		in.LastUpdated = s.now().UTC()
	}
	if req.DividendYield != nil {
		in.DividendYield = *req.DividendYield
	}
	if req.DividendAmount != nil {
		in.DividendAmount = *req.DividendAmount
	}
	if req.DividendFrequency != nil {
		in.DividendFrequency = *req.DividendFrequency
	}
	if req.DividendGrowthRate != nil {
		in.DividendGrowthRate = *req.DividendGrowthRate
	}
	if req.NextPaymentDate != nil {
		if *req.NextPaymentDate == "" {
			in.NextPaymentDate = nil
		} else {
			next, err := validation.ParseTime(*req.NextPaymentDate)
			if err != nil {
				return nil, err
			}
			in.NextPaymentDate = &next
		}
	}
	if req.RequiredShares != nil {
		in.RequiredShares = *req.RequiredShares
	}
	if req.DripDiscount != nil {
		in.DripDiscount = *req.DripDiscount
	}
	if req.FractionalShares != nil {
		in.FractionalShares = *req.FractionalShares
	}
	if req.Beta != nil {
		in.Beta = *req.Beta
	}
	if req.Volatility != nil {
		in.Volatility = *req.Volatility
	}
	if req.Holdings != nil {
		in.Holdings = *req.Holdings
	}
	if req.MER != nil {
		in.MER = *req.MER
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	if err := validation.ValidateMergedInstrument(in); err != nil {
		return nil, err
	}

	if err := s.instrumentRepo.UpdateInstrument(ctx, &in); err != nil {
		return nil, err
	}

	s.logger.Info("instrument updated", zap.String("symbol", in.Symbol), zap.String("id", in.ID))
	return &in, nil
}

// DeleteInstrument removes an instrument from the catalog.
// Watchlist entries referencing it disappear with it.
func (s *InstrumentService) DeleteInstrument(ctx context.Context, symbol string) error {
	in, err := s.instrumentRepo.GetBySymbol(ctx, validation.NormalizeSymbol(symbol))
	if err != nil {
		return err
	}

	if err := s.instrumentRepo.DeleteInstrument(ctx, in.ID); err != nil {
		return err
	}

	s.logger.Info("instrument deleted", zap.String("symbol", in.Symbol), zap.String("id", in.ID))
	return nil
}

// Refresh charges the user for a quote refresh and returns the instrument with the new balance.
//
// Quotes are maintained by administrators, so the refresh re-reads the catalog
// rather than calling a market data feed. The charge and the ledger row are
// written in one transaction by TokenService.Spend.
//
// Returns:
//   - apperrors.ErrInstrumentNotFound for unknown or inactive symbols (no tokens are spent)
//   - apperrors.ErrInsufficientTokens when the balance does not cover the refresh
func (s *InstrumentService) Refresh(ctx context.Context, userID, symbol string) (model.RefreshResult, error) {
	in, err := s.GetBySymbol(ctx, symbol)
	if err != nil {
		return model.RefreshResult{}, err
	}

	balance, err := s.tokenService.Spend(ctx, userID, model.FeatureDataRefresh, in.Symbol, s.refreshCost)
	if err != nil {
		return model.RefreshResult{}, err
	}

	current, err := s.instrumentRepo.GetBySymbol(ctx, in.Symbol)
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("failed to reload %s after refresh: %w", in.Symbol, err)
	}

	s.logger.Debug("instrument refreshed",
		zap.String("user", userID),
		zap.String("symbol", in.Symbol),
		zap.Int64("tokens", s.refreshCost),
	)

	return model.RefreshResult{
		Instrument:   current,
		TokensSpent:  s.refreshCost,
		TokenBalance: balance,
	}, nil
}
