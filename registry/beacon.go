// Package registry implements the factory that deploys auction instances
// and the beacon holding the single bid-policy implementation every
// instance delegates to.
package registry

import (
	"fmt"
	"sync"

	"github.com/shenfeiyu123456/auctionmarket/core"
)

// Beacon holds the current bid-policy implementation shared by every
// instance created through a registry bound to it. Swapping the
// implementation upgrades all of them at once: instance data lives in the
// instances, not in the policy, so no migration happens and in-flight
// auctions are untouched.
type Beacon struct {
	mu    sync.RWMutex
	owner core.Identity
	impl  core.BidPolicy
}

var _ core.PolicySource = (*Beacon)(nil)

// NewBeacon returns a beacon owned by owner, pointing at impl.
func NewBeacon(owner core.Identity, impl core.BidPolicy) (*Beacon, error) {
	if impl == nil {
		return nil, fmt.Errorf("beacon: nil implementation: %w", core.ErrInvalidArgument)
	}
	return &Beacon{owner: owner, impl: impl}, nil
}

// Owner returns the identity allowed to upgrade the beacon.
func (b *Beacon) Owner() core.Identity {
	return b.owner
}

// Implementation returns the current policy. Instances call this on every
// operation rather than caching the result.
func (b *Beacon) Implementation() core.BidPolicy {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.impl
}

// UpgradeTo atomically replaces the implementation. Only the owner may
// upgrade, and the new implementation must be non-nil.
func (b *Beacon) UpgradeTo(caller core.Identity, impl core.BidPolicy) error {
	if caller != b.owner {
		return fmt.Errorf("beacon upgrade: caller %q is not the owner: %w", caller, core.ErrNotAuthorized)
	}
	if impl == nil {
		return fmt.Errorf("beacon upgrade: nil implementation: %w", core.ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.impl = impl
	return nil
}
