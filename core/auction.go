package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CustodyRegistry is the external asset-ownership ledger. The instance calls
// it with itself as operator; moving an asset out of the seller's custody
// requires the seller to have pre-approved the instance. A failed transfer
// aborts the enclosing operation with no state committed.
type CustodyRegistry interface {
	TransferCustody(ctx context.Context, operator, from, to Identity, asset AssetKey) error
}

// FundsCustodian is the settlement-currency boundary. Collect moves a bid
// payment from the bidder into the instance's holdings; Disburse pays out of
// the holdings on withdrawal. Failures abort the enclosing operation.
type FundsCustodian interface {
	Collect(ctx context.Context, from Identity, amount decimal.Decimal) error
	Disburse(ctx context.Context, to Identity, amount decimal.Decimal) error
}

// AuctionInstance is one externally addressable auction deployment. It hosts
// any number of per-asset auctions, owns their escrow ledger and price
// floor, and delegates validation to whatever BidPolicy its PolicySource
// currently resolves (the beacon pattern: upgrading the source's
// implementation changes behavior without touching instance storage).
//
// Every state-changing operation runs to completion under a single lock, so
// two concurrent bids can never observe the same stale highest bid.
type AuctionInstance struct {
	address   Identity
	authority Identity

	policies PolicySource
	custody  CustodyRegistry
	funds    FundsCustodian
	floor    *PriceFloor

	mu       sync.Mutex
	auctions map[AssetKey]*AuctionRecord
	ledger   *EscrowLedger

	nowFn func() time.Time
}

// NewAuctionInstance creates an instance. address is the instance's own
// identity in the custody and funds ledgers; authority (the creator) is the
// only identity allowed to toggle the price floor's test mode.
func NewAuctionInstance(address, authority Identity, policies PolicySource, custody CustodyRegistry, funds FundsCustodian, floor *PriceFloor) *AuctionInstance {
	return &AuctionInstance{
		address:   address,
		authority: authority,
		policies:  policies,
		custody:   custody,
		funds:     funds,
		floor:     floor,
		auctions:  make(map[AssetKey]*AuctionRecord),
		ledger:    NewEscrowLedger(),
		nowFn:     time.Now,
	}
}

// Address returns the instance's identity.
func (a *AuctionInstance) Address() Identity { return a.address }

// Authority returns the instance creator's identity.
func (a *AuctionInstance) Authority() Identity { return a.authority }

// CreateAuction lists an asset for bidding. The declared price (reference
// currency) is converted to the settlement-unit floor at creation time, then
// custody of the asset moves from the seller into the instance. Fails if an
// active record already exists for the asset, if the parameters are
// malformed, if the floor conversion fails, or if the custody transfer fails
// (for example because the seller never approved the instance).
func (a *AuctionInstance) CreateAuction(ctx context.Context, seller Identity, asset AssetKey, declaredPrice decimal.Decimal, duration time.Duration) (AuctionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.policies.Implementation().ValidateCreate(seller, asset, declaredPrice, duration); err != nil {
		return AuctionRecord{}, err
	}
	if existing, ok := a.auctions[asset]; ok && existing.Status == StatusActive {
		return AuctionRecord{}, fmt.Errorf("create %s: auction already active: %w", asset, ErrInvalidState)
	}

	floor, err := a.floor.BidFloor(ctx, declaredPrice)
	if err != nil {
		return AuctionRecord{}, fmt.Errorf("create %s: %w", asset, err)
	}

	// Custody moves last so a floor failure never strands the asset.
	if err := a.custody.TransferCustody(ctx, a.address, seller, a.address, asset); err != nil {
		return AuctionRecord{}, fmt.Errorf("create %s: custody transfer failed: %w: %w", asset, err, ErrExternalDependency)
	}

	rec := &AuctionRecord{
		Seller:        seller,
		Asset:         asset,
		StartingPrice: floor,
		EndTime:       a.nowFn().Add(duration),
		HighestBid:    decimal.Zero,
		Status:        StatusActive,
	}
	a.auctions[asset] = rec
	return *rec, nil
}

// PlaceBid places a bid of amount on the asset's active auction. The payment
// is collected into the instance's holdings before any record mutation; the
// previous highest bidder's payment, if any, is credited to the escrow
// ledger for later withdrawal rather than pushed back synchronously.
func (a *AuctionInstance) PlaceBid(ctx context.Context, bidder Identity, asset AssetKey, amount decimal.Decimal) (AuctionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.activeRecord(asset)
	if err != nil {
		return AuctionRecord{}, fmt.Errorf("bid on %s: %w", asset, err)
	}
	if err := a.policies.Implementation().ValidateBid(rec, bidder, amount, a.nowFn()); err != nil {
		return AuctionRecord{}, err
	}

	if err := a.funds.Collect(ctx, bidder, amount); err != nil {
		return AuctionRecord{}, fmt.Errorf("bid on %s: payment collection failed: %w: %w", asset, err, ErrExternalDependency)
	}

	if rec.HasBid() {
		a.ledger.Credit(rec.HighestBidder, rec.HighestBid)
	}
	rec.HighestBidder = bidder
	rec.HighestBid = amount
	return *rec, nil
}

// EndAuction finalizes an active auction once its deadline has passed.
// Anyone may call it. With a winner, the asset moves to the highest bidder
// and the proceeds are credited to the seller's escrow entry; with no bids,
// the asset returns to the seller. A second call fails because the record is
// no longer active.
func (a *AuctionInstance) EndAuction(ctx context.Context, asset AssetKey) (AuctionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.activeRecord(asset)
	if err != nil {
		return AuctionRecord{}, fmt.Errorf("end %s: %w", asset, err)
	}
	if err := a.policies.Implementation().ValidateEnd(rec, a.nowFn()); err != nil {
		return AuctionRecord{}, err
	}

	recipient := rec.Seller
	if rec.HasBid() {
		recipient = rec.HighestBidder
	}
	if err := a.custody.TransferCustody(ctx, a.address, a.address, recipient, asset); err != nil {
		return AuctionRecord{}, fmt.Errorf("end %s: custody transfer failed: %w: %w", asset, err, ErrExternalDependency)
	}

	if rec.HasBid() {
		a.ledger.Credit(rec.Seller, rec.HighestBid)
	}
	rec.Status = StatusEnded
	return *rec, nil
}

// CancelAuction cancels an active auction with zero bids and returns the
// asset to the seller. Only the seller may cancel; a single existing bid
// makes the auction uncancellable so bidders' escrowed capital can never be
// locked behind a pulled item.
func (a *AuctionInstance) CancelAuction(ctx context.Context, caller Identity, asset AssetKey) (AuctionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.activeRecord(asset)
	if err != nil {
		return AuctionRecord{}, fmt.Errorf("cancel %s: %w", asset, err)
	}
	if err := a.policies.Implementation().ValidateCancel(rec, caller); err != nil {
		return AuctionRecord{}, err
	}

	if err := a.custody.TransferCustody(ctx, a.address, a.address, rec.Seller, asset); err != nil {
		return AuctionRecord{}, fmt.Errorf("cancel %s: custody transfer failed: %w: %w", asset, err, ErrExternalDependency)
	}

	rec.Status = StatusCancelled
	return *rec, nil
}

// Withdraw drains the caller's full pending balance. The balance is zeroed
// before the disbursement is attempted so a re-entrant caller cannot drain
// twice; if the disbursement itself fails the balance is restored and the
// operation reports an external dependency failure.
func (a *AuctionInstance) Withdraw(ctx context.Context, caller Identity) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	amount := a.ledger.Take(caller)
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("withdraw for %q: %w", caller, ErrNothingToWithdraw)
	}

	if err := a.funds.Disburse(ctx, caller, amount); err != nil {
		a.ledger.Credit(caller, amount)
		return decimal.Zero, fmt.Errorf("withdraw for %q: disbursement failed: %w: %w", caller, err, ErrExternalDependency)
	}
	return amount, nil
}

// GetAuction returns a snapshot of the asset's auction record.
func (a *AuctionInstance) GetAuction(asset AssetKey) (AuctionRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.auctions[asset]
	if !ok {
		return AuctionRecord{}, false
	}
	return *rec, true
}

// IsAuctionActive reports whether an active record exists for the asset.
// A past-deadline auction that nobody has finalized yet still reports true.
func (a *AuctionInstance) IsAuctionActive(asset AssetKey) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.auctions[asset]
	return ok && rec.Status == StatusActive
}

// PendingWithdrawal returns the identity's pending escrow balance.
func (a *AuctionInstance) PendingWithdrawal(of Identity) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Pending(of)
}

// SetTestMode toggles the price floor's fixed/test mode. Only the instance
// authority may call it.
func (a *AuctionInstance) SetTestMode(caller Identity, enabled bool, rate decimal.Decimal) error {
	return a.floor.SetTestMode(caller, enabled, rate)
}

// activeRecord returns the asset's record if it exists and is active.
// Callers must hold a.mu.
func (a *AuctionInstance) activeRecord(asset AssetKey) (*AuctionRecord, error) {
	rec, ok := a.auctions[asset]
	if !ok {
		return nil, fmt.Errorf("no auction record: %w", ErrInvalidState)
	}
	if rec.Status != StatusActive {
		return nil, fmt.Errorf("auction is %s: %w", rec.Status, ErrInvalidState)
	}
	return rec, nil
}
