package core

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestMinIncrementPolicy(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	policy := MinIncrementPolicy{MinIncrement: dec("10")}

	rec := &AuctionRecord{
		Seller:        seller,
		Asset:         nftKey,
		StartingPrice: dec("100"),
		EndTime:       now.Add(time.Hour),
		HighestBid:    dec("0"),
		Status:        StatusActive,
	}

	// The first bid only needs to clear the starting price.
	check.NoError(t, policy.ValidateBid(rec, bidder1, dec("101"), now))

	rec.HighestBidder = bidder1
	rec.HighestBid = dec("150")

	// An outbid below the increment is rejected even though it is strictly
	// greater than the highest bid.
	err := policy.ValidateBid(rec, bidder2, dec("155"), now)
	check.True(t, errors.Is(err, ErrInsufficientBid))

	check.NoError(t, policy.ValidateBid(rec, bidder2, dec("160"), now))

	// Baseline rules still apply underneath.
	err = policy.ValidateBid(rec, seller, dec("300"), now)
	check.True(t, errors.Is(err, ErrNotAuthorized))
}
