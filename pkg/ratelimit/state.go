// Package ratelimit shares Steam's 429 throttling across client instances.
// When a route (a proxy, or the direct connection) receives 429 Too Many
// Requests it is put into a cooldown stored in Redis; further requests on that
// route wait until the cooldown expires.
package ratelimit

import (
	"time"

	"github.com/Sternrassler/steam-inventory-client/pkg/client"
)

// Redis key prefix for route cooldowns.
const RedisKeyCooldownPrefix = "steam:rate_limit:cooldown:"

// DirectRoute names requests made without a proxy.
const DirectRoute = "direct"

const (
	// DefaultCooldown is how long a route rests after a 429.
	DefaultCooldown = 60 * time.Second

	// DefaultMaxWait caps a single wait so one throttled route cannot stall a fetch indefinitely.
	DefaultMaxWait = 30 * time.Second
)

// RouteState represents the cooldown state of one route.
type RouteState struct {
	// Route is the proxy host:port or DirectRoute.
	Route string `json:"route"`

	// CoolingDown is true while Steam's 429 penalty is assumed active.
	CoolingDown bool `json:"cooling_down"`

	// ResetAt is when the cooldown ends. Zero when not cooling down.
	ResetAt time.Time `json:"reset_at"`
}

// TimeUntilReset returns the duration until the cooldown ends.
// Returns 0 if the reset time has already passed.
func (s *RouteState) TimeUntilReset() time.Duration {
	if !s.CoolingDown {
		return 0
	}
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// RouteName normalizes a proxy URL to the route name used in Redis keys.
// Credentials never end up in keys or logs.
func RouteName(proxy string) string {
	if proxy == "" {
		return DirectRoute
	}
	u, err := client.ParseProxyURL(proxy)
	if err != nil {
		return proxy
	}
	return u.Host
}

func cooldownKey(route string) string {
	return RedisKeyCooldownPrefix + RouteName(route)
}
