package registry

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shenfeiyu123456/auctionmarket/core"
	"github.com/shenfeiyu123456/auctionmarket/custody"
	"github.com/shenfeiyu123456/auctionmarket/events"
)

// Registry is the factory for auction instances. Every instance it creates
// is bound to the registry's beacon, appended to an ordered, append-only
// sequence, and indexed for O(1) membership checks. An address is in the
// index if and only if it appears exactly once in the sequence.
type Registry struct {
	beacon    *Beacon
	assets    core.CustodyRegistry
	vault     *custody.Vault
	publisher events.Publisher

	mu        sync.RWMutex
	sequence  []core.Identity
	instances map[core.Identity]*core.AuctionInstance
}

// NewRegistry returns a registry deploying instances against the given
// beacon, asset custody registry, and funds vault. publisher receives a
// creation event per instance; it may be nil.
func NewRegistry(beacon *Beacon, assets core.CustodyRegistry, vault *custody.Vault, publisher events.Publisher) *Registry {
	return &Registry{
		beacon:    beacon,
		assets:    assets,
		vault:     vault,
		publisher: publisher,
		instances: make(map[core.Identity]*core.AuctionInstance),
	}
}

// Beacon returns the beacon all created instances delegate to.
func (r *Registry) Beacon() *Beacon {
	return r.beacon
}

// CreateAuction deploys a new auction instance for creator, with rateSource
// feeding the instance's price floor (nil leaves the instance dependent on
// test mode). There is no limit on instances per creator. Creation is
// append-only: it fails only if the instance itself cannot be constructed,
// and a failed event publish is logged, never propagated.
func (r *Registry) CreateAuction(ctx context.Context, creator core.Identity, rateSource core.RateSource) (*core.AuctionInstance, error) {
	if creator == "" {
		return nil, fmt.Errorf("create instance: empty creator identity: %w", core.ErrInvalidArgument)
	}

	address := core.Identity("auction-" + uuid.NewString())
	floor := core.NewPriceFloor(creator, rateSource)
	instance := core.NewAuctionInstance(address, creator, r.beacon, r.assets, r.vault.ForInstance(address), floor)

	r.mu.Lock()
	r.sequence = append(r.sequence, address)
	r.instances[address] = instance
	r.mu.Unlock()

	if r.publisher != nil {
		event := events.InstanceCreated{
			EventID:   uuid.NewString(),
			Instance:  string(address),
			Creator:   string(creator),
			CreatedAt: time.Now().UTC(),
		}
		if err := r.publisher.PublishInstanceCreated(ctx, event); err != nil {
			log.Printf("ERROR: instance creation event publish failed for %s: %v", address, err)
		}
	}

	return instance, nil
}

// InstanceCount returns the number of created instances.
func (r *Registry) InstanceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sequence)
}

// InstanceAt returns the address of the instance at the given creation
// index.
func (r *Registry) InstanceAt(index int) (core.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.sequence) {
		return "", fmt.Errorf("instance index %d out of range [0,%d): %w", index, len(r.sequence), core.ErrInvalidArgument)
	}
	return r.sequence[index], nil
}

// IsValidInstance reports whether the address belongs to an instance created
// by this registry.
func (r *Registry) IsValidInstance(address core.Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.instances[address]
	return ok
}

// Instance returns the instance at the given address.
func (r *Registry) Instance(address core.Identity) (*core.AuctionInstance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.instances[address]
	return instance, ok
}
