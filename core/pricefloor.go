package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one observation from a price-reference source: the raw rate value,
// the number of decimal places it carries, and when it was produced.
// A rate of 2000 with 8 decimals arrives as Value=200000000000, Decimals=8.
type Rate struct {
	Value     decimal.Decimal
	Decimals  int32
	UpdatedAt time.Time
}

// RateSource provides the current reference rate. Implementations live in
// the oracle package; tests use static sources.
type RateSource interface {
	LatestRate(ctx context.Context) (Rate, error)
}

// maxRateAge is how old a reference rate may be before the floor rejects it
// as stale.
const maxRateAge = 1 * time.Hour

// PriceFloor converts a seller-declared minimum price into a bid floor in
// settlement units. It runs in one of two modes: oracle mode (default)
// queries the configured RateSource at auction-creation time, and fixed/test
// mode uses a literal rate set by the instance authority, bypassing the
// oracle. Keeping the conversion here lets the state machine treat the
// starting price as a precomputed number.
type PriceFloor struct {
	mu        sync.RWMutex
	authority Identity
	source    RateSource
	testMode  bool
	testRate  Rate
	nowFn     func() time.Time
}

// testRateDecimals is the precision assumed for literal test-mode rates,
// matching the 8-decimal convention of the reference feeds.
const testRateDecimals int32 = 8

// NewPriceFloor returns a floor in oracle mode bound to source. The
// authority is the only identity allowed to toggle test mode.
func NewPriceFloor(authority Identity, source RateSource) *PriceFloor {
	return &PriceFloor{
		authority: authority,
		source:    source,
		nowFn:     time.Now,
	}
}

// SetTestMode toggles fixed/test mode. When enabling, rate is the literal
// reference rate to use (testRateDecimals precision). Only the authority may
// call this.
func (p *PriceFloor) SetTestMode(caller Identity, enabled bool, rate decimal.Decimal) error {
	if caller != p.authority {
		return fmt.Errorf("price floor: caller %q is not the instance authority: %w", caller, ErrNotAuthorized)
	}
	if enabled && rate.Sign() <= 0 {
		return fmt.Errorf("price floor: test rate must be positive, got %s: %w", rate, ErrInvalidArgument)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.testMode = enabled
	if enabled {
		p.testRate = Rate{Value: rate, Decimals: testRateDecimals, UpdatedAt: p.nowFn()}
	}
	return nil
}

// TestMode reports whether fixed/test mode is enabled.
func (p *PriceFloor) TestMode() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.testMode
}

// BidFloor converts the declared price (reference currency) into the bid
// floor (settlement units) using the current rate:
//
//	floor = declared * 10^decimals / rate
//
// rounded to settlement precision. Oracle failures, non-positive rates, and
// rates older than maxRateAge abort with ErrExternalDependency.
func (p *PriceFloor) BidFloor(ctx context.Context, declared decimal.Decimal) (decimal.Decimal, error) {
	if declared.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("price floor: declared price must be positive, got %s: %w", declared, ErrInvalidArgument)
	}

	rate, err := p.currentRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	floor := declared.Shift(rate.Decimals).DivRound(rate.Value, settlementPrecision)
	return floor, nil
}

func (p *PriceFloor) currentRate(ctx context.Context) (Rate, error) {
	p.mu.RLock()
	testMode, testRate := p.testMode, p.testRate
	p.mu.RUnlock()

	// The literal test rate never expires; it stays in force until the
	// authority toggles it off. Staleness only guards oracle observations.
	if testMode {
		return testRate, nil
	}

	if p.source == nil {
		return Rate{}, fmt.Errorf("price floor: no rate source configured: %w", ErrExternalDependency)
	}
	rate, err := p.source.LatestRate(ctx)
	if err != nil {
		return Rate{}, fmt.Errorf("price floor: rate query failed: %w: %w", err, ErrExternalDependency)
	}
	if rate.Value.Sign() <= 0 {
		return Rate{}, fmt.Errorf("price floor: non-positive rate %s: %w", rate.Value, ErrExternalDependency)
	}
	if !rate.UpdatedAt.IsZero() && p.nowFn().Sub(rate.UpdatedAt) > maxRateAge {
		return Rate{}, fmt.Errorf("price floor: rate is stale (updated %s): %w", rate.UpdatedAt, ErrExternalDependency)
	}
	return rate, nil
}
