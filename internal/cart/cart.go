// Package cart reconciles locally-stored (pre-login) cart and wishlist items
// with the server-stored copy kept on the customer profile.
package cart

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is one saved cart item: a reference into live inventory plus a
// quantity, never a copy of the item.
type Entry struct {
	ItemID int64 `json:"item_id,string"`
	Qty    int   `json:"qty"`
}

// WishEntry is one saved wishlist item.
type WishEntry struct {
	ItemID  int64     `json:"item_id,string"`
	AddedAt time.Time `json:"added_at"`
}

// MergeCart merges a local cart into the server cart keyed by item id.
// Local entries are inserted first, then server entries overwrite duplicate
// keys: server wins on conflict, and no quantity summation is performed. A
// local quantity change made while logged out is discarded for items the
// server already holds.
func MergeCart(local, server []Entry) []Entry {
	merged := make([]Entry, 0, len(local)+len(server))
	index := make(map[int64]int, len(local)+len(server))

	for _, e := range local {
		if pos, seen := index[e.ItemID]; seen {
			merged[pos] = e
			continue
		}
		index[e.ItemID] = len(merged)
		merged = append(merged, e)
	}
	for _, e := range server {
		if pos, seen := index[e.ItemID]; seen {
			merged[pos] = e
			continue
		}
		index[e.ItemID] = len(merged)
		merged = append(merged, e)
	}
	return merged
}

// MergeWishlist applies the same server-wins merge to wishlist entries, so a
// duplicate item keeps the server's added-at timestamp.
func MergeWishlist(local, server []WishEntry) []WishEntry {
	merged := make([]WishEntry, 0, len(local)+len(server))
	index := make(map[int64]int, len(local)+len(server))

	for _, e := range local {
		if pos, seen := index[e.ItemID]; seen {
			merged[pos] = e
			continue
		}
		index[e.ItemID] = len(merged)
		merged = append(merged, e)
	}
	for _, e := range server {
		if pos, seen := index[e.ItemID]; seen {
			merged[pos] = e
			continue
		}
		index[e.ItemID] = len(merged)
		merged = append(merged, e)
	}
	return merged
}

// DecodeCart parses the JSON blob stored on the customer profile. An empty
// or malformed blob decodes to an empty cart.
func DecodeCart(blob string) []Entry {
	if blob == "" {
		return nil
	}
	var entries []Entry
	if err := json.UnmarshalFromString(blob, &entries); err != nil {
		return nil
	}
	return entries
}

// EncodeCart serializes cart entries for profile storage.
func EncodeCart(entries []Entry) string {
	if entries == nil {
		entries = []Entry{}
	}
	s, _ := json.MarshalToString(entries)
	return s
}

// DecodeWishlist parses the stored wishlist blob.
func DecodeWishlist(blob string) []WishEntry {
	if blob == "" {
		return nil
	}
	var entries []WishEntry
	if err := json.UnmarshalFromString(blob, &entries); err != nil {
		return nil
	}
	return entries
}

// EncodeWishlist serializes wishlist entries for profile storage.
func EncodeWishlist(entries []WishEntry) string {
	if entries == nil {
		entries = []WishEntry{}
	}
	s, _ := json.MarshalToString(entries)
	return s
}
