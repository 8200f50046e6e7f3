// Package batch fetches the inventories of many owners in parallel.
//
// Each inventory is still fetched page by page by inventory.API; this package
// only spreads independent owners across a bounded worker pool so that a large
// list does not open an unbounded number of connections at once.
//
// Example usage:
//
//	fetcher := batch.NewBatchFetcher(api, batch.DefaultConfig())
//	outcomes := fetcher.FetchAll(ctx, []inventory.Request{
//	    {SteamID: "76561198000000001", AppID: 730, ContextID: 2},
//	    {SteamID: "76561198000000002", AppID: 730, ContextID: 2},
//	})
//
// The batch fetcher:
//   - Spawns a worker pool (default 4 workers)
//   - Bounds every fetch with Config.Timeout
//   - Returns one Outcome per request, in request order
//   - Keeps going when single owners fail
package batch
