package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/steam-inventory-client/pkg/cache"
	"github.com/Sternrassler/steam-inventory-client/pkg/client"
	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
	"github.com/Sternrassler/steam-inventory-client/pkg/proxy"
	"github.com/Sternrassler/steam-inventory-client/pkg/steamid"
)

// API fetches Steam community inventories. It is safe for concurrent use;
// every Get owns its own accumulator and description index.
type API struct {
	config    Config
	transport client.Getter
	proxies   *proxy.Rotator
	observers observers
	logger    zerolog.Logger
	wait      waitFunc
}

// New creates an inventory API.
func New(cfg Config) (*API, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	transport := cfg.Transport
	if transport == nil {
		c, err := client.New(client.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("create transport: %w", err)
		}
		transport = c
	}

	return &API{
		config:    cfg,
		transport: transport,
		proxies:   proxy.NewRotator(cfg.Proxies, cfg.ProxyRepeat),
		logger:    logging.NewLogger("inventory"),
		wait:      sleep,
	}, nil
}

// UsesProxy reports whether requests are routed through the configured proxies.
func (a *API) UsesProxy() bool {
	return a.proxies.Len() > 0
}

// Get fetches the complete inventory described by req.
//
// Pages are requested one after another following the last_assetid cursor.
// A failed page is retried with the same cursor until req.Retries attempts
// are used up; 403 and 404 responses end the fetch immediately.
func (a *API) Get(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	defer func() {
		fetchDuration.Observe(time.Since(startTime).Seconds())
	}()

	req = req.withDefaults()

	id, err := parseOwner(req.SteamID)
	if err != nil {
		fetchesTotal.WithLabelValues(outcomeInvalidID).Inc()
		return nil, err
	}

	fetchID := uuid.NewString()
	logger := a.logger.With().
		Str(logging.FieldFetchID, fetchID).
		Str(logging.FieldSteamID, id.SteamID64()).
		Uint32(logging.FieldAppID, req.AppID).
		Uint64(logging.FieldContextID, req.ContextID).
		Logger()

	if res, ok := a.fromCache(ctx, logger, id, req); ok {
		fetchesTotal.WithLabelValues(outcomeCached).Inc()
		return res, nil
	}

	res, outcome, err := a.fetch(ctx, logger, id, fetchID, req)
	fetchesTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		return nil, err
	}

	itemsTotal.WithLabelValues("item").Add(float64(len(res.Inventory)))
	itemsTotal.WithLabelValues("currency").Add(float64(len(res.Currency)))
	a.toCache(ctx, logger, id, req, res)

	logger.Info().
		Int("items", len(res.Inventory)).
		Int("currencies", len(res.Currency)).
		Int("total_inventory_count", res.TotalInventoryCount).
		Dur("duration", time.Since(startTime)).
		Msg("Inventory fetched")

	return res, nil
}

// fetch runs the page loop and reports the outcome label for metrics.
func (a *API) fetch(ctx context.Context, logger zerolog.Logger, id steamid.ID, fetchID string, req Request) (*Result, string, error) {
	acc := newAccumulator()
	contextID := strconv.FormatUint(req.ContextID, 10)
	retries := req.Retries
	cursor := ""

	for {
		proxyURL := ""
		if a.UsesProxy() {
			proxyURL = a.proxies.Next()
		}

		start := cursor
		if start == "" {
			start = "0"
		}
		a.emit(logger, Event{
			Level:   LevelDebug,
			Message: fmt.Sprintf("Requesting. Start %s, Retries %d, Items %d", start, retries, acc.count()),
			SteamID: id,
			FetchID: fetchID,
		})

		if err := a.throttle(ctx, logger, proxyURL); err != nil {
			return nil, outcomeCancelled, err
		}

		var page Page
		err := a.transport.GetJSON(ctx, a.pageRequest(id, req, cursor, proxyURL), &page)
		if err != nil {
			a.emit(logger, Event{Level: LevelStack, Message: err.Error(), SteamID: id, FetchID: fetchID})

			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, outcomeCancelled, ctxErr
			}

			switch client.StatusCode(err) {
			case http.StatusForbidden:
				return nil, outcomePrivate, ErrPrivateProfile.wrap(err)
			case http.StatusNotFound:
				return nil, outcomeNotFound, ErrProfileNotFound.wrap(err)
			}

			if client.StatusCode(err) == http.StatusTooManyRequests && a.config.Throttle != nil {
				if perr := a.config.Throttle.Penalize(ctx, proxyURL); perr != nil {
					logger.Warn().Err(perr).Msg("Failed to record rate limit")
				}
			}

			msg := "Request failed"
			if proxyURL != "" {
				msg += " on proxy: " + proxyURL
			}
			a.emit(logger, Event{Level: LevelError, Message: msg, SteamID: id, FetchID: fetchID})

			if retries <= 1 {
				retryExhaustedTotal.Inc()
				return nil, outcomeTransportError, err
			}

			retries--
			retriesTotal.Inc()
			if err := a.wait(ctx, a.config.RetryDelay); err != nil {
				return nil, outcomeCancelled, err
			}
			continue
		}

		pagesTotal.Inc()

		if page.isEmptyInventory() {
			return emptyResult(), outcomeEmpty, nil
		}

		if err := page.validate(); err != nil {
			return nil, outcomeMalformed, err
		}

		acc.addPage(&page, req.TradableOnly, contextID)

		logger.Debug().
			Str(logging.FieldStartAssetID, start).
			Int("assets", len(page.Assets)).
			Int("descriptions", acc.descriptions.len()).
			Int("items", acc.count()).
			Bool("more_items", bool(page.MoreItems)).
			Msg("Page processed")

		if !page.MoreItems {
			return acc.result(page.total()), outcomeSuccess, nil
		}

		if page.LastAssetID == "" || page.LastAssetID == cursor {
			return nil, outcomeMalformed, &MalformedResponseError{
				Message: fmt.Sprintf("more_items set without a new last_assetid (cursor %q)", cursor),
			}
		}
		cursor = page.LastAssetID
	}
}

// throttle waits out a route cooldown. Only context errors are returned;
// an unavailable tracker lets the request through.
func (a *API) throttle(ctx context.Context, logger zerolog.Logger, route string) error {
	if a.config.Throttle == nil {
		return nil
	}
	if err := a.config.Throttle.Wait(ctx, route); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Warn().Err(err).Msg("Rate limit check failed")
	}
	return nil
}

func parseOwner(raw string) (steamid.ID, error) {
	id, err := steamid.Parse(raw)
	if err != nil {
		return steamid.ID{}, fmt.Errorf("%w: %v", ErrInvalidSteamID, err)
	}
	if !id.IsValid() {
		return steamid.ID{}, fmt.Errorf("%w: %q", ErrInvalidSteamID, raw)
	}
	return id, nil
}

func (a *API) fromCache(ctx context.Context, logger zerolog.Logger, id steamid.ID, req Request) (*Result, bool) {
	if a.config.Cache == nil {
		return nil, false
	}

	entry, err := a.config.Cache.Get(ctx, req.cacheKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache get error")
		}
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(entry.Data, &res); err != nil {
		logger.Warn().Err(err).Msg("Cached result is corrupted")
		return nil, false
	}

	logger.Debug().Dur("age", entry.Age()).Msg("Serving inventory from cache")
	return &res, true
}

func (a *API) toCache(ctx context.Context, logger zerolog.Logger, id steamid.ID, req Request, res *Result) {
	if a.config.Cache == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode result for cache")
		return
	}

	if err := a.config.Cache.Set(ctx, req.cacheKey(id), cache.NewEntry(data, a.config.CacheTTL)); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache result")
		return
	}

	logger.Debug().Dur("ttl", a.config.CacheTTL).Msg("Cached result")
}
