package custody

import (
	"context"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/shenfeiyu123456/auctionmarket/core"
)

var testAsset = core.AssetKey{Contract: "mynft", TokenID: 1}

func TestAssetLedgerMint(t *testing.T) {
	ledger := NewAssetLedger()

	assert.NoError(t, ledger.Mint("alice", testAsset))

	owner, ok := ledger.OwnerOf(testAsset)
	assert.True(t, ok)
	check.Equal(t, core.Identity("alice"), owner)

	// Minting the same asset twice fails.
	check.Error(t, ledger.Mint("bob", testAsset))
}

func TestAssetLedgerApprove(t *testing.T) {
	ledger := NewAssetLedger()
	assert.NoError(t, ledger.Mint("alice", testAsset))

	// Only the owner may approve.
	check.Error(t, ledger.Approve("bob", "instance-1", testAsset))
	check.Error(t, ledger.Approve("alice", "instance-1", core.AssetKey{Contract: "mynft", TokenID: 9}))

	assert.NoError(t, ledger.Approve("alice", "instance-1", testAsset))
	operator, ok := ledger.Approved(testAsset)
	assert.True(t, ok)
	check.Equal(t, core.Identity("instance-1"), operator)

	// Approving the empty identity clears the approval.
	assert.NoError(t, ledger.Approve("alice", "", testAsset))
	_, ok = ledger.Approved(testAsset)
	check.False(t, ok)
}

func TestAssetLedgerTransferCustody(t *testing.T) {
	ctx := context.Background()
	ledger := NewAssetLedger()
	assert.NoError(t, ledger.Mint("alice", testAsset))

	// An unapproved operator cannot move someone else's asset.
	check.Error(t, ledger.TransferCustody(ctx, "instance-1", "alice", "instance-1", testAsset))

	// The owner can always move their own asset.
	assert.NoError(t, ledger.TransferCustody(ctx, "alice", "alice", "bob", testAsset))
	owner, _ := ledger.OwnerOf(testAsset)
	check.Equal(t, core.Identity("bob"), owner)

	// Pre-authorized transfer: bob approves the instance, which then pulls
	// the asset in. The approval is consumed by the transfer.
	assert.NoError(t, ledger.Approve("bob", "instance-1", testAsset))
	assert.NoError(t, ledger.TransferCustody(ctx, "instance-1", "bob", "instance-1", testAsset))
	owner, _ = ledger.OwnerOf(testAsset)
	check.Equal(t, core.Identity("instance-1"), owner)
	_, ok := ledger.Approved(testAsset)
	check.False(t, ok)

	// Transfers from a non-owner fail even for the new owner's operator.
	check.Error(t, ledger.TransferCustody(ctx, "instance-1", "bob", "alice", testAsset))
	check.Error(t, ledger.TransferCustody(ctx, "instance-1", "instance-1", "", testAsset))
}

func TestVaultDepositAndBalance(t *testing.T) {
	vault := NewVault()

	check.True(t, vault.Balance("alice").IsZero())
	assert.NoError(t, vault.Deposit("alice", decimal.NewFromInt(500)))
	check.True(t, vault.Balance("alice").Equal(decimal.NewFromInt(500)))

	check.Error(t, vault.Deposit("alice", decimal.Zero))
	check.Error(t, vault.Deposit("alice", decimal.NewFromInt(-5)))
}

func TestInstanceFundsCollectAndDisburse(t *testing.T) {
	ctx := context.Background()
	vault := NewVault()
	assert.NoError(t, vault.Deposit("bidder", decimal.NewFromInt(300)))

	funds := vault.ForInstance("instance-1")

	// Collect moves bidder funds into the instance's holdings.
	assert.NoError(t, funds.Collect(ctx, "bidder", decimal.NewFromInt(200)))
	check.True(t, vault.Balance("bidder").Equal(decimal.NewFromInt(100)))
	check.True(t, vault.Balance("instance-1").Equal(decimal.NewFromInt(200)))

	// Collecting beyond the bidder's balance fails without mutation.
	check.Error(t, funds.Collect(ctx, "bidder", decimal.NewFromInt(150)))
	check.True(t, vault.Balance("bidder").Equal(decimal.NewFromInt(100)))

	// Disburse pays out of the holdings, and never beyond them.
	assert.NoError(t, funds.Disburse(ctx, "seller", decimal.NewFromInt(200)))
	check.True(t, vault.Balance("seller").Equal(decimal.NewFromInt(200)))
	check.Error(t, funds.Disburse(ctx, "seller", decimal.NewFromInt(1)))
}
