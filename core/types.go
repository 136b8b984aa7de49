package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// settlementPrecision is the number of decimal places carried by settlement
// currency amounts (wei-style 18-decimal precision). Floors computed from
// oracle rates are rounded to this precision before being stored.
const settlementPrecision int32 = 18

// Identity is a string account identifier. The zero value "" is the empty
// identity; an AuctionRecord has HighestBidder == "" until the first valid
// bid lands.
type Identity string

// AssetKey identifies one non-divisible asset: the custody contract it lives
// in plus its token id. Asset ids are scoped per auction instance.
type AssetKey struct {
	Contract string `json:"contract"`
	TokenID  uint64 `json:"token_id"`
}

func (k AssetKey) String() string {
	return fmt.Sprintf("%s/%d", k.Contract, k.TokenID)
}

// AuctionStatus is the lifecycle state of an auction record. "No record" is
// the implicit fourth state: queries for an unknown asset report it as
// inactive rather than storing a placeholder.
type AuctionStatus uint8

const (
	StatusActive AuctionStatus = iota + 1
	StatusEnded
	StatusCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// AuctionRecord is the stored state of one per-asset auction. Seller, asset,
// starting price, and end time are immutable after creation; HighestBid and
// HighestBidder only move upward while the record is active. Terminal
// records are kept for querying, never deleted.
type AuctionRecord struct {
	Seller        Identity        `json:"seller"`
	Asset         AssetKey        `json:"asset"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	EndTime       time.Time       `json:"end_time"`
	HighestBidder Identity        `json:"highest_bidder,omitempty"`
	HighestBid    decimal.Decimal `json:"highest_bid"`
	Status        AuctionStatus   `json:"status"`
}

// HasBid reports whether at least one valid bid has been placed.
func (r *AuctionRecord) HasBid() bool {
	return r.HighestBidder != ""
}
