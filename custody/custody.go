// Package custody provides the in-memory collaborator stand-ins the auction
// engine settles against: an asset-ownership ledger with pre-authorization
// semantics and a settlement-currency vault. Production deployments would
// replace these with clients for the real registries; local runs and tests
// use them directly, the same way the original system deploys its own NFT
// and price-feed contracts for testing.
package custody

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenfeiyu123456/auctionmarket/core"
)

// AssetLedger tracks exclusive ownership of non-divisible assets and
// per-asset operator approvals. Every asset has exactly one owner at any
// time; an operator may move an asset it does not own only if the current
// owner approved it for that specific asset.
type AssetLedger struct {
	mu        sync.RWMutex
	owners    map[core.AssetKey]core.Identity
	approvals map[core.AssetKey]core.Identity
}

var _ core.CustodyRegistry = (*AssetLedger)(nil)

// NewAssetLedger returns an empty ledger.
func NewAssetLedger() *AssetLedger {
	return &AssetLedger{
		owners:    make(map[core.AssetKey]core.Identity),
		approvals: make(map[core.AssetKey]core.Identity),
	}
}

// Mint records a brand-new asset owned by owner. Fails if the asset already
// exists.
func (l *AssetLedger) Mint(owner core.Identity, asset core.AssetKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.owners[asset]; exists {
		return fmt.Errorf("mint %s: asset already exists", asset)
	}
	l.owners[asset] = owner
	return nil
}

// OwnerOf returns the asset's current owner.
func (l *AssetLedger) OwnerOf(asset core.AssetKey) (core.Identity, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	owner, ok := l.owners[asset]
	return owner, ok
}

// Approve authorizes operator to transfer the asset on the owner's behalf.
// Only the current owner may approve. Approving the empty identity clears
// any existing approval.
func (l *AssetLedger) Approve(caller, operator core.Identity, asset core.AssetKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, ok := l.owners[asset]
	if !ok {
		return fmt.Errorf("approve %s: unknown asset", asset)
	}
	if caller != owner {
		return fmt.Errorf("approve %s: caller %q is not the owner", asset, caller)
	}
	if operator == "" {
		delete(l.approvals, asset)
		return nil
	}
	l.approvals[asset] = operator
	return nil
}

// Approved returns the operator approved for the asset, if any.
func (l *AssetLedger) Approved(asset core.AssetKey) (core.Identity, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	operator, ok := l.approvals[asset]
	return operator, ok
}

// TransferCustody moves the asset from `from` to `to` on behalf of operator.
// The operator must be the current owner or the approved operator, and
// `from` must actually own the asset. A successful transfer clears the
// asset's approval.
func (l *AssetLedger) TransferCustody(ctx context.Context, operator, from, to core.Identity, asset core.AssetKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, ok := l.owners[asset]
	if !ok {
		return fmt.Errorf("transfer %s: unknown asset", asset)
	}
	if owner != from {
		return fmt.Errorf("transfer %s: %q is not the owner", asset, from)
	}
	if operator != owner && l.approvals[asset] != operator {
		return fmt.Errorf("transfer %s: operator %q is not approved", asset, operator)
	}
	if to == "" {
		return fmt.Errorf("transfer %s: empty recipient", asset)
	}

	l.owners[asset] = to
	delete(l.approvals, asset)
	return nil
}
