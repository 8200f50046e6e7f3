package cache

import (
	"fmt"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "inventory"

// CacheKey identifies one cached inventory result.
type CacheKey struct {
	// SteamID64 is the normalized owner identifier.
	SteamID64 string

	// AppID is the Steam application ID (e.g. 730).
	AppID uint32

	// ContextID is the inventory context within the app (e.g. 2).
	ContextID uint64

	// Language of the descriptions (e.g. "english").
	Language string

	// TradableOnly marks results filtered to tradable items.
	TradableOnly bool
}

// String generates a deterministic cache key string.
// Format: inventory:<steamid64>:<appid>:<contextid>:l=<language>:tradable=<bool>
//
// Example:
//
//	inventory:76561197993496553:730:2:l=english:tradable=true
func (k CacheKey) String() string {
	parts := []string{
		KeyPrefix,
		k.SteamID64,
		fmt.Sprintf("%d", k.AppID),
		fmt.Sprintf("%d", k.ContextID),
		"l=" + strings.ToLower(strings.TrimSpace(k.Language)),
		fmt.Sprintf("tradable=%t", k.TradableOnly),
	}
	return strings.Join(parts, ":")
}

// OwnerPattern returns a SCAN pattern matching every key of one owner.
func OwnerPattern(steamID64 string) string {
	return KeyPrefix + ":" + steamID64 + ":*"
}
