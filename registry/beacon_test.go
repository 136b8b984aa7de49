package registry

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/shenfeiyu123456/auctionmarket/core"
)

func TestNewBeaconRequiresImplementation(t *testing.T) {
	_, err := NewBeacon("owner", nil)
	check.True(t, errors.Is(err, core.ErrInvalidArgument))
}

func TestBeaconUpgrade(t *testing.T) {
	beacon, err := NewBeacon("owner", core.StandardPolicy{})
	assert.NoError(t, err)
	check.Equal(t, core.Identity("owner"), beacon.Owner())

	v2 := core.MinIncrementPolicy{MinIncrement: decimal.NewFromInt(10)}

	// Only the owner may upgrade.
	err = beacon.UpgradeTo("intruder", v2)
	check.True(t, errors.Is(err, core.ErrNotAuthorized))
	_, isV1 := beacon.Implementation().(core.StandardPolicy)
	check.True(t, isV1)

	// Upgrading to nil is rejected.
	err = beacon.UpgradeTo("owner", nil)
	check.True(t, errors.Is(err, core.ErrInvalidArgument))

	assert.NoError(t, beacon.UpgradeTo("owner", v2))
	got, isV2 := beacon.Implementation().(core.MinIncrementPolicy)
	assert.True(t, isV2)
	check.True(t, got.MinIncrement.Equal(decimal.NewFromInt(10)))
}
