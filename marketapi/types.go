// Package marketapi defines the JSON wire types exchanged over the auction
// market's HTTP surface. Caller identity arrives in request bodies; the
// wallet/signing layer that authenticates callers sits in front of this
// service and is out of scope here.
package marketapi

import "time"

// CreateInstanceRequest asks the factory for a new auction instance.
// PriceFeedURL selects the instance's reference-rate endpoint; when empty
// the instance relies on fixed/test mode.
type CreateInstanceRequest struct {
	Creator      string `json:"creator"`
	PriceFeedURL string `json:"price_feed_url,omitempty"`
}

// InstanceResponse describes one auction instance.
type InstanceResponse struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
}

// InstanceCountResponse carries the registry's instance count.
type InstanceCountResponse struct {
	Count int `json:"count"`
}

// InstanceValidityResponse answers a membership check.
type InstanceValidityResponse struct {
	Address string `json:"address"`
	Valid   bool   `json:"valid"`
}

// CreateAuctionRequest lists an asset for bidding on an instance. The
// declared price is in reference currency units; duration is in seconds.
type CreateAuctionRequest struct {
	Seller          string `json:"seller"`
	AssetContract   string `json:"asset_contract"`
	AssetTokenID    uint64 `json:"asset_token_id"`
	DeclaredPrice   string `json:"declared_price"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// PlaceBidRequest places a bid; Amount is in settlement units.
type PlaceBidRequest struct {
	Bidder string `json:"bidder"`
	Amount string `json:"amount"`
}

// CancelAuctionRequest cancels an auction; Caller must be the seller.
type CancelAuctionRequest struct {
	Caller string `json:"caller"`
}

// AuctionResponse is the wire snapshot of one auction record. Fingerprint
// identifies the listing; it is stable across bids and settlement.
type AuctionResponse struct {
	Fingerprint   string    `json:"fingerprint"`
	Seller        string    `json:"seller"`
	AssetContract string    `json:"asset_contract"`
	AssetTokenID  uint64    `json:"asset_token_id"`
	StartingPrice string    `json:"starting_price"`
	EndTime       time.Time `json:"end_time"`
	HighestBidder string    `json:"highest_bidder,omitempty"`
	HighestBid    string    `json:"highest_bid"`
	Status        string    `json:"status"`
}

// AuctionActiveResponse answers an is-active query.
type AuctionActiveResponse struct {
	Active bool `json:"active"`
}

// WithdrawRequest drains the caller's pending balance.
type WithdrawRequest struct {
	Caller string `json:"caller"`
}

// WithdrawResponse reports the amount transferred out.
type WithdrawResponse struct {
	Amount string `json:"amount"`
}

// PendingWithdrawalResponse reports an identity's pending balance.
type PendingWithdrawalResponse struct {
	Identity string `json:"identity"`
	Pending  string `json:"pending"`
}

// SetTestModeRequest toggles an instance's price-floor test mode. Rate is
// the literal reference rate (8-decimal precision) used while enabled.
type SetTestModeRequest struct {
	Caller  string `json:"caller"`
	Enabled bool   `json:"enabled"`
	Rate    string `json:"rate,omitempty"`
}

// UpgradeBeaconRequest swaps the beacon's policy implementation to a named,
// registered version.
type UpgradeBeaconRequest struct {
	Caller string `json:"caller"`
	Policy string `json:"policy"`
}

// BeaconResponse reports the beacon's current policy version.
type BeaconResponse struct {
	Policy string `json:"policy"`
}

// MintAssetRequest records a new asset in the custody ledger stand-in.
type MintAssetRequest struct {
	Owner         string `json:"owner"`
	AssetContract string `json:"asset_contract"`
	AssetTokenID  uint64 `json:"asset_token_id"`
}

// ApproveAssetRequest approves an operator (normally an auction instance)
// to move the caller's asset.
type ApproveAssetRequest struct {
	Caller        string `json:"caller"`
	Operator      string `json:"operator"`
	AssetContract string `json:"asset_contract"`
	AssetTokenID  uint64 `json:"asset_token_id"`
}

// AssetOwnerResponse reports an asset's current custody holder.
type AssetOwnerResponse struct {
	AssetContract string `json:"asset_contract"`
	AssetTokenID  uint64 `json:"asset_token_id"`
	Owner         string `json:"owner"`
}

// DepositFundsRequest funds an account in the settlement vault stand-in.
type DepositFundsRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// BalanceResponse reports a settlement account balance.
type BalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
