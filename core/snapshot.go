package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// SnapshotAuction is one auction record in a snapshot. Monetary amounts are
// decimal strings so the encoding stays independent of the in-memory
// representation.
type SnapshotAuction struct {
	Seller        string    `cbor:"1,keyasint"`
	AssetContract string    `cbor:"2,keyasint"`
	AssetTokenID  uint64    `cbor:"3,keyasint"`
	StartingPrice string    `cbor:"4,keyasint"`
	EndTime       time.Time `cbor:"5,keyasint"`
	HighestBidder string    `cbor:"6,keyasint,omitempty"`
	HighestBid    string    `cbor:"7,keyasint"`
	Status        string    `cbor:"8,keyasint"`
}

// SnapshotEntry is one escrow ledger entry in a snapshot.
type SnapshotEntry struct {
	Identity string `cbor:"1,keyasint"`
	Pending  string `cbor:"2,keyasint"`
}

// InstanceSnapshot is a point-in-time export of one auction instance's
// state: every auction record (active and terminal) and every escrow ledger
// entry, in deterministic order.
type InstanceSnapshot struct {
	Address   string            `cbor:"1,keyasint"`
	Authority string            `cbor:"2,keyasint"`
	TakenAt   time.Time         `cbor:"3,keyasint"`
	TestMode  bool              `cbor:"4,keyasint"`
	Auctions  []SnapshotAuction `cbor:"5,keyasint"`
	Escrow    []SnapshotEntry   `cbor:"6,keyasint"`
}

// Snapshot captures the instance's current state under its lock.
func (a *AuctionInstance) Snapshot() InstanceSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := InstanceSnapshot{
		Address:   string(a.address),
		Authority: string(a.authority),
		TakenAt:   a.nowFn(),
		TestMode:  a.floor.TestMode(),
		Auctions:  make([]SnapshotAuction, 0, len(a.auctions)),
		Escrow:    make([]SnapshotEntry, 0, len(a.ledger.pending)),
	}

	for _, rec := range a.auctions {
		snap.Auctions = append(snap.Auctions, SnapshotAuction{
			Seller:        string(rec.Seller),
			AssetContract: rec.Asset.Contract,
			AssetTokenID:  rec.Asset.TokenID,
			StartingPrice: rec.StartingPrice.String(),
			EndTime:       rec.EndTime,
			HighestBidder: string(rec.HighestBidder),
			HighestBid:    rec.HighestBid.String(),
			Status:        rec.Status.String(),
		})
	}
	sort.Slice(snap.Auctions, func(i, j int) bool {
		if snap.Auctions[i].AssetContract != snap.Auctions[j].AssetContract {
			return snap.Auctions[i].AssetContract < snap.Auctions[j].AssetContract
		}
		return snap.Auctions[i].AssetTokenID < snap.Auctions[j].AssetTokenID
	})

	for identity, pending := range a.ledger.pending {
		snap.Escrow = append(snap.Escrow, SnapshotEntry{
			Identity: string(identity),
			Pending:  pending.String(),
		})
	}
	sort.Slice(snap.Escrow, func(i, j int) bool {
		return snap.Escrow[i].Identity < snap.Escrow[j].Identity
	})

	return snap
}

// EncodeSnapshot returns the CBOR encoding of the instance's current state.
func (a *AuctionInstance) EncodeSnapshot() ([]byte, error) {
	data, err := cbor.Marshal(a.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a CBOR snapshot produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (InstanceSnapshot, error) {
	var snap InstanceSnapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return InstanceSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
