package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BidPolicy is the validation logic auction instances delegate to. Instances
// hold no policy of their own: they resolve the current implementation
// through a PolicySource on every call, so swapping the policy behind the
// source changes the behavior of every existing and future instance at once
// while leaving their stored records untouched.
type BidPolicy interface {
	// ValidateCreate checks auction creation parameters before any state
	// or custody changes.
	ValidateCreate(seller Identity, asset AssetKey, declaredPrice decimal.Decimal, duration time.Duration) error

	// ValidateBid checks a bid against an active record. The caller has
	// already established that the record exists and is active.
	ValidateBid(rec *AuctionRecord, bidder Identity, amount decimal.Decimal, now time.Time) error

	// ValidateEnd checks that an active record may be finalized.
	ValidateEnd(rec *AuctionRecord, now time.Time) error

	// ValidateCancel checks that the caller may cancel an active record.
	ValidateCancel(rec *AuctionRecord, caller Identity) error
}

// PolicySource resolves the current BidPolicy. The registry's beacon is the
// production implementation; swapping its implementation upgrades every
// instance bound to it.
type PolicySource interface {
	Implementation() BidPolicy
}

// StandardPolicy is the baseline auction logic: strictly-greater bids, no
// self-bidding, deadline enforced by clock comparison, cancellation only by
// the seller and only while no bid exists.
type StandardPolicy struct{}

var _ BidPolicy = StandardPolicy{}

func (StandardPolicy) ValidateCreate(seller Identity, asset AssetKey, declaredPrice decimal.Decimal, duration time.Duration) error {
	if seller == "" {
		return fmt.Errorf("create: empty seller identity: %w", ErrInvalidArgument)
	}
	if asset.Contract == "" {
		return fmt.Errorf("create: empty asset contract: %w", ErrInvalidArgument)
	}
	if declaredPrice.Sign() <= 0 {
		return fmt.Errorf("create: declared price must be positive, got %s: %w", declaredPrice, ErrInvalidArgument)
	}
	if duration <= 0 {
		return fmt.Errorf("create: duration must be positive, got %s: %w", duration, ErrInvalidArgument)
	}
	return nil
}

func (StandardPolicy) ValidateBid(rec *AuctionRecord, bidder Identity, amount decimal.Decimal, now time.Time) error {
	if !now.Before(rec.EndTime) {
		return fmt.Errorf("bid on %s: auction ended at %s: %w", rec.Asset, rec.EndTime.Format(time.RFC3339), ErrDeadlineElapsed)
	}
	if bidder == rec.Seller {
		return fmt.Errorf("bid on %s: seller may not bid on own auction: %w", rec.Asset, ErrNotAuthorized)
	}
	// Strictly-greater comparison: equal bids never displace the current
	// highest bid.
	if amount.Cmp(rec.StartingPrice) <= 0 {
		return fmt.Errorf("bid on %s: %s does not exceed starting price %s: %w", rec.Asset, amount, rec.StartingPrice, ErrInsufficientBid)
	}
	if amount.Cmp(rec.HighestBid) <= 0 {
		return fmt.Errorf("bid on %s: %s does not exceed highest bid %s: %w", rec.Asset, amount, rec.HighestBid, ErrInsufficientBid)
	}
	return nil
}

func (StandardPolicy) ValidateEnd(rec *AuctionRecord, now time.Time) error {
	if now.Before(rec.EndTime) {
		return fmt.Errorf("end %s: deadline %s not reached: %w", rec.Asset, rec.EndTime.Format(time.RFC3339), ErrDeadlineNotReached)
	}
	return nil
}

func (StandardPolicy) ValidateCancel(rec *AuctionRecord, caller Identity) error {
	if caller != rec.Seller {
		return fmt.Errorf("cancel %s: caller %q is not the seller: %w", rec.Asset, caller, ErrNotAuthorized)
	}
	if rec.HasBid() {
		return fmt.Errorf("cancel %s: auction already has a bid: %w", rec.Asset, ErrInvalidState)
	}
	return nil
}

// MinIncrementPolicy extends StandardPolicy with a minimum outbid increment:
// a bid must beat the current highest bid by at least MinIncrement. It is
// the second-generation logic deployed through beacon upgrades.
type MinIncrementPolicy struct {
	StandardPolicy
	MinIncrement decimal.Decimal
}

var _ BidPolicy = MinIncrementPolicy{}

func (p MinIncrementPolicy) ValidateBid(rec *AuctionRecord, bidder Identity, amount decimal.Decimal, now time.Time) error {
	if err := p.StandardPolicy.ValidateBid(rec, bidder, amount, now); err != nil {
		return err
	}
	if rec.HasBid() && amount.Sub(rec.HighestBid).Cmp(p.MinIncrement) < 0 {
		return fmt.Errorf("bid on %s: %s must exceed %s by at least %s: %w",
			rec.Asset, amount, rec.HighestBid, p.MinIncrement, ErrInsufficientBid)
	}
	return nil
}
