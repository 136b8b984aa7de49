package core

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestSnapshotDigest(t *testing.T) {
	a := SnapshotDigest([]byte("payload"))
	b := SnapshotDigest([]byte("payload"))
	c := SnapshotDigest([]byte("other"))

	check.Equal(t, a, b)
	check.NotEqual(t, a, c)
	check.Equal(t, 64, len(a))
}

func TestRecordFingerprintStableAcrossBids(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := AuctionRecord{
		Seller:        seller,
		Asset:         nftKey,
		StartingPrice: dec("100"),
		EndTime:       end,
		HighestBid:    dec("0"),
		Status:        StatusActive,
	}
	before := RecordFingerprint(rec)

	rec.HighestBidder = bidder1
	rec.HighestBid = dec("150")
	rec.Status = StatusEnded
	check.Equal(t, before, RecordFingerprint(rec))

	// A different listing fingerprints differently.
	other := rec
	other.Asset.TokenID = 2
	check.NotEqual(t, before, RecordFingerprint(other))
}
