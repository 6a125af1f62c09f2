package drip

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DefaultBufferPercent is the percentage buffer applied when no other policy is configured.
const DefaultBufferPercent = 10

// BufferPolicy decides how many shares above the required threshold to recommend.
//
// buffer = ceil(requiredShares * Percent / 100) + Shares
type BufferPolicy struct {
	Percent decimal.Decimal
	Shares  int64
}

// DefaultPolicy returns a 10% buffer with no fixed share excess.
func DefaultPolicy() BufferPolicy {
	return BufferPolicy{Percent: decimal.NewFromInt(DefaultBufferPercent)}
}

// NewBufferPolicy builds a policy from a percentage and a fixed share excess.
// Both must be non-negative.
func NewBufferPolicy(percent float64, shares int64) (BufferPolicy, error) {
	if percent < 0 {
		return BufferPolicy{}, fmt.Errorf("buffer percent must not be negative: %v", percent)
	}
	if shares < 0 {
		return BufferPolicy{}, fmt.Errorf("buffer shares must not be negative: %d", shares)
	}
	return BufferPolicy{Percent: decimal.NewFromFloat(percent), Shares: shares}, nil
}

var maxShares = decimal.NewFromInt(math.MaxInt64)

// buffer is the exact buffer for requiredShares.
func (p BufferPolicy) buffer(requiredShares int64) decimal.Decimal {
	extra := decimal.NewFromInt(p.Shares)
	if requiredShares <= 0 {
		return extra
	}
	pct := decimal.NewFromInt(requiredShares).Mul(p.Percent).Shift(-2)
	return pct.Ceil().Add(extra)
}

// recommend is the exact requiredShares plus buffer.
func (p BufferPolicy) recommend(requiredShares int64) decimal.Decimal {
	return decimal.NewFromInt(requiredShares).Add(p.buffer(requiredShares))
}

// Buffer returns the number of extra shares to hold above requiredShares,
// saturating at math.MaxInt64.
func (p BufferPolicy) Buffer(requiredShares int64) int64 {
	return saturate(p.buffer(requiredShares))
}

// Recommend returns requiredShares plus the buffer, saturating at math.MaxInt64.
func (p BufferPolicy) Recommend(requiredShares int64) int64 {
	return saturate(p.recommend(requiredShares))
}

func saturate(d decimal.Decimal) int64 {
	if d.GreaterThan(maxShares) {
		return math.MaxInt64
	}
	return d.IntPart()
}
