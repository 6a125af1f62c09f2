package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/cache"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"go.uber.org/zap"
)

// FeaturedCacheKey is the cache key holding the current featured stock.
const FeaturedCacheKey = "featured:current"

// FeaturedService selects the featured stock of the week from the analyst
// candidates and caches the pick so every request sees the same one.
type FeaturedService struct {
	featuredRepo   *repository.FeaturedRepository
	instrumentRepo *repository.InstrumentRepository
	cache          cache.Cache
	ttl            time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewFeaturedService creates a new FeaturedService. The pick is cached for ttl.
func NewFeaturedService(
	featuredRepo *repository.FeaturedRepository,
	instrumentRepo *repository.InstrumentRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *FeaturedService {
	return &FeaturedService{
		featuredRepo:   featuredRepo,
		instrumentRepo: instrumentRepo,
		cache:          c,
		ttl:            ttl,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock replaces the time source used to pick the ISO week.
func (s *FeaturedService) WithClock(now func() time.Time) *FeaturedService {
	s.now = now
	return s
}

// Current returns the featured stock for this ISO week.
// A cache miss, a cache failure or a pick from an earlier week triggers Rotate.
func (s *FeaturedService) Current(ctx context.Context) (model.FeaturedStock, error) {
	data, ok, err := s.cache.Get(ctx, FeaturedCacheKey)
	if err != nil {
		s.logger.Warn("featured cache unavailable", zap.Error(err))
	}
	if ok {
		var fs model.FeaturedStock
		if err := json.Unmarshal(data, &fs); err != nil {
			s.logger.Warn("discarding unreadable featured cache entry", zap.Error(err))
		} else if fs.Week == isoWeek(s.now()) {
			return fs, nil
		}
	}

	return s.Rotate(ctx)
}

// Rotate picks the candidate at index (ISO week mod number of candidates) and caches it.
// The pick is deterministic for a given week, so concurrent rotations agree.
//
// Returns apperrors.ErrFeaturedNotAvailable when there are no active candidates.
func (s *FeaturedService) Rotate(ctx context.Context) (model.FeaturedStock, error) {
	candidates, err := s.featuredRepo.GetCandidates(ctx)
	if err != nil {
		return model.FeaturedStock{}, err
	}
	if len(candidates) == 0 {
		return model.FeaturedStock{}, apperrors.ErrFeaturedNotAvailable
	}

	now := s.now().UTC()
	_, week := now.ISOWeek()
	pick := candidates[week%len(candidates)]

	in, err := s.instrumentRepo.GetBySymbol(ctx, pick.Symbol)
	if err != nil {
		return model.FeaturedStock{}, fmt.Errorf("failed to load featured instrument %s: %w", pick.Symbol, err)
	}

	fs := model.FeaturedStock{
		Stock:          in,
		Analysis:       pick.Analysis,
		Recommendation: pick.Recommendation,
		TargetPrice:    pick.TargetPrice,
		AnalystName:    pick.AnalystName,
		Week:           isoWeek(now),
		SelectedAt:     now.Truncate(time.Second),
	}

	data, err := json.Marshal(fs)
	if err != nil {
		return model.FeaturedStock{}, fmt.Errorf("failed to encode featured stock: %w", err)
	}
	if err := s.cache.Set(ctx, FeaturedCacheKey, data, s.ttl); err != nil {
		s.logger.Warn("failed to cache featured stock", zap.Error(err))
	}

	s.logger.Info("featured stock rotated", zap.String("symbol", in.Symbol), zap.String("week", fs.Week))
	return fs, nil
}

// RotateJob adapts Rotate to the scheduler's job signature.
func (s *FeaturedService) RotateJob(ctx context.Context) error {
	_, err := s.Rotate(ctx)
	return err
}

func isoWeek(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
