// Package inventory fetches complete Steam community inventories.
//
// The community endpoint returns an inventory in pages of up to 5000 assets
// together with the descriptions those assets reference. API.Get follows the
// last_assetid cursor until the endpoint reports no more items, joins every
// asset with its description and splits the result into items and currencies.
//
// Basic usage:
//
//	api, err := inventory.New(inventory.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := api.Get(ctx, inventory.Request{
//	    SteamID:      "76561198000000000",
//	    AppID:        730,
//	    ContextID:    2,
//	    TradableOnly: true,
//	    Retries:      3,
//	})
//
// Failed page requests are retried with the same cursor after Config.RetryDelay.
// Private (403) and unknown (404) profiles fail immediately with
// ErrPrivateProfile and ErrProfileNotFound.
//
// Progress can be observed with OnLog:
//
//	api.OnLog(func(ev inventory.Event) {
//	    fmt.Println(ev.Level, ev.Message)
//	})
//
// When Config.Cache is set, complete results are stored in Redis and served
// until Config.CacheTTL expires.
package inventory
