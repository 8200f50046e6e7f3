package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/steam-inventory-client/pkg/cache"
	"github.com/Sternrassler/steam-inventory-client/pkg/client"
	"github.com/Sternrassler/steam-inventory-client/pkg/steamid"
)

const (
	// DefaultRequestTimeout bounds every page request.
	DefaultRequestTimeout = 9 * time.Second

	// DefaultLanguage is used when a request does not name one.
	DefaultLanguage = "english"

	// PageSize is the maximum number of assets the endpoint returns per page.
	PageSize = 5000

	defaultEndpoint = "https://steamcommunity.com/inventory"
)

// URLFunc builds the inventory URL for one owner/app/context triple.
type URLFunc func(steamID64 string, appID uint32, contextID uint64) string

// RequestOptions override parts of every inventory HTTP request. They are
// useful when fetching through a third-party mirror of the endpoint.
type RequestOptions struct {
	// URL replaces the default steamcommunity.com URL template.
	URL URLFunc

	// Header values override the default User-Agent/Referer per key.
	Header http.Header

	// Query adds parameters such as an API key. The language, page size and
	// cursor parameters are always re-applied on top.
	Query url.Values
}

// ResultCache stores complete fetch results. *cache.Manager satisfies it.
type ResultCache interface {
	Get(ctx context.Context, key cache.CacheKey) (*cache.CacheEntry, error)
	Set(ctx context.Context, key cache.CacheKey, entry *cache.CacheEntry) error
}

// Throttle delays requests on routes Steam recently answered with 429.
// *ratelimit.Tracker satisfies it. The route is the proxy URL, or "" for direct requests.
type Throttle interface {
	Wait(ctx context.Context, route string) error
	Penalize(ctx context.Context, route string) error
}

// Config holds the API configuration.
type Config struct {
	// Proxies are cycled across requests. Empty disables proxying.
	Proxies []string

	// ProxyRepeat is how many consecutive requests use the same proxy.
	ProxyRepeat int

	// RetryDelay is the wait before retrying a failed page request.
	RetryDelay time.Duration

	// RequestTimeout bounds each page request.
	RequestTimeout time.Duration

	// Options override URL, headers and query parameters.
	Options RequestOptions

	// Transport performs the HTTP requests. Nil creates a default *client.Client.
	Transport client.Getter

	// Throttle optionally shares 429 cooldowns between instances.
	Throttle Throttle

	// Cache optionally stores complete results for CacheTTL.
	Cache    ResultCache
	CacheTTL time.Duration
}

// DefaultConfig returns a configuration matching the endpoint's usual limits.
func DefaultConfig() Config {
	return Config{
		ProxyRepeat:    1,
		RetryDelay:     0,
		RequestTimeout: DefaultRequestTimeout,
		CacheTTL:       5 * time.Minute,
	}
}

func (c Config) validate() error {
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0 (got %s)", c.RetryDelay)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be >= 0 (got %s)", c.RequestTimeout)
	}
	if c.ProxyRepeat < 0 {
		return fmt.Errorf("proxy_repeat must be >= 0 (got %d)", c.ProxyRepeat)
	}
	if c.Cache != nil && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be > 0 when a cache is configured")
	}
	return nil
}

// Request identifies one inventory to fetch.
type Request struct {
	// SteamID of the owner in any textual form (SteamID64, Steam2, Steam3).
	SteamID string

	// AppID is the Steam application ID (e.g. 730 for CS2).
	AppID uint32

	// ContextID is the inventory context within the app (e.g. 2).
	ContextID uint64

	// TradableOnly drops assets without a tradable description.
	TradableOnly bool

	// Retries is the number of attempts across the whole fetch, shared by
	// every page. Values below 1 mean a single attempt. Private and missing
	// profiles are never retried.
	Retries int

	// Language of item descriptions. Defaults to english.
	Language string
}

func (r Request) withDefaults() Request {
	if r.Retries < 1 {
		r.Retries = 1
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

func (r Request) cacheKey(id steamid.ID) cache.CacheKey {
	return cache.CacheKey{
		SteamID64:    id.SteamID64(),
		AppID:        r.AppID,
		ContextID:    r.ContextID,
		Language:     r.Language,
		TradableOnly: r.TradableOnly,
	}
}

// DefaultURL is the steamcommunity.com inventory URL template.
func DefaultURL(steamID64 string, appID uint32, contextID uint64) string {
	return fmt.Sprintf("%s/%s/%d/%d", defaultEndpoint, steamID64, appID, contextID)
}

// pageRequest builds the transport request for one page attempt.
func (a *API) pageRequest(id steamid.ID, req Request, cursor, proxy string) client.Request {
	id64 := id.SteamID64()

	urlFn := a.config.Options.URL
	if urlFn == nil {
		urlFn = DefaultURL
	}

	header := http.Header{}
	header.Set("User-Agent", client.DefaultConfig().UserAgent)
	header.Set("Referer", fmt.Sprintf("https://steamcommunity.com/profiles/%s/inventory", id64))
	for key, values := range a.config.Options.Header {
		header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	query := url.Values{}
	for key, values := range a.config.Options.Query {
		query[key] = append([]string(nil), values...)
	}
	query.Set("l", req.Language)
	query.Set("count", strconv.Itoa(PageSize))
	if cursor != "" {
		query.Set("start_assetid", cursor)
	} else {
		query.Del("start_assetid")
	}

	return client.Request{
		URL:     urlFn(id64, req.AppID, req.ContextID),
		Header:  header,
		Query:   query,
		Proxy:   proxy,
		Timeout: a.config.RequestTimeout,
	}
}
