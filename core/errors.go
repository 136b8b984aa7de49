// Package core implements the auction engine: per-asset auction state
// machines, the pull-based escrow/withdrawal ledger, the price floor, and
// the swappable bid policy that auction instances delegate validation to.
package core

import "errors"

// Sentinel errors classifying every failure the engine can report. Callers
// distinguish them with errors.Is; operations wrap them with context via
// fmt.Errorf("...: %w", ...).
var (
	// ErrNotAuthorized is returned when the caller lacks the required role,
	// such as a non-seller cancelling an auction or a non-owner upgrading
	// the beacon.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidState is returned when an operation targets a record that
	// does not exist or is not in the required status, such as bidding on
	// an ended auction or ending one twice.
	ErrInvalidState = errors.New("invalid auction state")

	// ErrInsufficientBid is returned when a bid is not strictly greater
	// than both the starting price and the current highest bid.
	ErrInsufficientBid = errors.New("insufficient bid")

	// ErrDeadlineNotReached is returned when finalization is attempted
	// before the auction deadline.
	ErrDeadlineNotReached = errors.New("deadline not reached")

	// ErrDeadlineElapsed is returned when a bid arrives at or after the
	// auction deadline.
	ErrDeadlineElapsed = errors.New("deadline elapsed")

	// ErrExternalDependency is returned when a custody, funds, or oracle
	// call fails. The enclosing operation aborts without partial mutation.
	ErrExternalDependency = errors.New("external dependency failure")

	// ErrNothingToWithdraw is returned by Withdraw when the caller has no
	// pending balance.
	ErrNothingToWithdraw = errors.New("nothing to withdraw")

	// ErrInvalidArgument is returned for malformed inputs: non-positive
	// durations, prices, or rates, and nil policy implementations.
	ErrInvalidArgument = errors.New("invalid argument")
)
