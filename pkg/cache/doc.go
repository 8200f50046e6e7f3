// Package cache provides an optional Redis-backed cache for complete inventory results.
//
// A fetch touches the remote endpoint once per page; caching the joined result
// for a short TTL keeps repeated lookups of the same inventory off the endpoint.
// Per-fetch description indexes are never cached here, only finished results.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		SteamID64:    "76561197993496553",
//		AppID:        730,
//		ContextID:    2,
//		Language:     "english",
//		TradableOnly: true,
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch and then
//		_ = manager.Set(ctx, key, cache.NewEntry(data, 5*time.Minute))
//	}
//
// # Invalidation
//
//	// Drop every cached result of one owner (after a trade, for example)
//	n, err := manager.InvalidateOwner(ctx, "76561197993496553")
//
// # Metrics
//
//   - inventory_cache_hits_total{layer="redis"} - Cache hits
//   - inventory_cache_misses_total - Cache misses
//   - inventory_cache_written_bytes_total{layer="redis"} - Bytes written
//   - inventory_cache_errors_total{operation} - Cache operation errors
package cache
