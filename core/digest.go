package core

import (
	"crypto/sha256"
	"fmt"
)

// SnapshotDigest returns the hex SHA-256 of an encoded snapshot. Consumers
// polling the snapshot surface compare digests to skip unchanged state.
func SnapshotDigest(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// RecordFingerprint computes a stable identifier for an auction record.
//
// Formula: SHA256(seller + "|" + contract + "|" + token_id + "|" +
// starting_price + "|" + end_time_unix)
//
// The fields are fixed at listing time, so the fingerprint names the listing
// itself and stays constant across bids and settlement.
func RecordFingerprint(rec AuctionRecord) string {
	data := fmt.Sprintf("%s|%s|%d|%s|%d",
		rec.Seller, rec.Asset.Contract, rec.Asset.TokenID,
		rec.StartingPrice.String(), rec.EndTime.Unix())
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
