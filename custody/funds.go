package custody

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shenfeiyu123456/auctionmarket/core"
)

// Vault tracks settlement-currency balances for every identity, including
// the auction instances themselves: a bid payment moves from the bidder's
// account into the instance's account and sits there until withdrawal. The
// sum of an instance's escrow ledger can therefore never exceed its vault
// balance.
type Vault struct {
	mu       sync.RWMutex
	balances map[core.Identity]decimal.Decimal
}

// NewVault returns an empty vault.
func NewVault() *Vault {
	return &Vault{balances: make(map[core.Identity]decimal.Decimal)}
}

// Deposit adds funds to an account. It models the external wallet layer
// funding a bidder and is used by local runs and tests.
func (v *Vault) Deposit(account core.Identity, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("deposit for %q: amount must be positive, got %s", account, amount)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.balances[account] = v.balances[account].Add(amount)
	return nil
}

// Balance returns the account's current balance.
func (v *Vault) Balance(account core.Identity) decimal.Decimal {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.balances[account]
}

// transfer moves amount between accounts, failing on insufficient funds.
func (v *Vault) transfer(from, to core.Identity, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("transfer %s -> %s: amount must be positive, got %s", from, to, amount)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.balances[from].Cmp(amount) < 0 {
		return fmt.Errorf("transfer %s -> %s: insufficient funds (%s < %s)", from, to, v.balances[from], amount)
	}
	v.balances[from] = v.balances[from].Sub(amount)
	v.balances[to] = v.balances[to].Add(amount)
	return nil
}

// InstanceFunds binds a vault to one auction instance's account and
// implements core.FundsCustodian for it.
type InstanceFunds struct {
	vault    *Vault
	instance core.Identity
}

var _ core.FundsCustodian = (*InstanceFunds)(nil)

// ForInstance returns the funds custodian for the given instance address.
func (v *Vault) ForInstance(instance core.Identity) *InstanceFunds {
	return &InstanceFunds{vault: v, instance: instance}
}

// Collect moves a bid payment from the bidder into the instance's holdings.
func (f *InstanceFunds) Collect(ctx context.Context, from core.Identity, amount decimal.Decimal) error {
	return f.vault.transfer(from, f.instance, amount)
}

// Disburse pays out of the instance's holdings.
func (f *InstanceFunds) Disburse(ctx context.Context, to core.Identity, amount decimal.Decimal) error {
	return f.vault.transfer(f.instance, to, amount)
}
