package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestEscrowLedgerCreditAndTake(t *testing.T) {
	ledger := NewEscrowLedger()

	check.True(t, ledger.Pending("alice").IsZero())

	ledger.Credit("alice", dec("150"))
	ledger.Credit("alice", dec("50"))
	ledger.Credit("bob", dec("25"))

	check.True(t, ledger.Pending("alice").Equal(dec("200")))
	check.True(t, ledger.Pending("bob").Equal(dec("25")))
	check.True(t, ledger.TotalPending().Equal(dec("225")))

	// Take drains the full balance and leaves the entry at zero.
	amount := ledger.Take("alice")
	check.True(t, amount.Equal(dec("200")))
	check.True(t, ledger.Pending("alice").IsZero())

	// A second take yields zero: nothing left to drain.
	check.True(t, ledger.Take("alice").IsZero())
	check.True(t, ledger.TotalPending().Equal(dec("25")))
}

func TestEscrowLedgerZeroEntryPersists(t *testing.T) {
	ledger := NewEscrowLedger()
	ledger.Credit("alice", dec("10"))
	ledger.Take("alice")

	// The entry survives at zero and can be credited again.
	_, exists := ledger.pending["alice"]
	check.True(t, exists)

	ledger.Credit("alice", dec("5"))
	check.True(t, ledger.Pending("alice").Equal(dec("5")))
}

func TestEscrowLedgerIgnoresNegativeCredit(t *testing.T) {
	ledger := NewEscrowLedger()
	ledger.Credit("alice", dec("-10"))
	check.True(t, ledger.Pending("alice").IsZero())
}
