package core

import (
	"github.com/shopspring/decimal"
)

// EscrowLedger tracks per-identity pending withdrawals. It is pure
// bookkeeping: credits are data mutations queued by the state machine, and
// funds only move when the beneficiary explicitly withdraws. Entries are
// created on first credit and persist at zero after withdrawal.
//
// The ledger is not safe for concurrent use on its own; the owning
// AuctionInstance serializes all access behind its lock.
type EscrowLedger struct {
	pending map[Identity]decimal.Decimal
}

// NewEscrowLedger returns an empty ledger.
func NewEscrowLedger() *EscrowLedger {
	return &EscrowLedger{pending: make(map[Identity]decimal.Decimal)}
}

// Credit adds amount to the identity's pending balance. Negative amounts are
// a programmer error and are ignored; the state machine validates amounts
// before crediting.
func (l *EscrowLedger) Credit(to Identity, amount decimal.Decimal) {
	if amount.Sign() < 0 {
		return
	}
	l.pending[to] = l.pending[to].Add(amount)
}

// Take zeroes the identity's pending balance and returns the amount that was
// pending. Zeroing happens before any transfer is attempted so a re-entrant
// caller always observes an empty balance.
func (l *EscrowLedger) Take(from Identity) decimal.Decimal {
	amount := l.pending[from]
	l.pending[from] = decimal.Zero
	return amount
}

// Pending returns the identity's pending balance without mutating it.
func (l *EscrowLedger) Pending(of Identity) decimal.Decimal {
	return l.pending[of]
}

// TotalPending returns the sum of all pending balances. The owning instance
// maintains the invariant that this never exceeds its held funds.
func (l *EscrowLedger) TotalPending() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range l.pending {
		total = total.Add(amount)
	}
	return total
}
