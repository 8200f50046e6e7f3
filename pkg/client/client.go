// Package client provides the HTTP transport used to talk to the Steam community
// inventory endpoint: per-request proxies, timeouts, JSON decoding and error
// classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
)

// Prometheus metrics for transport operations.
var (
	steamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steam_inventory_requests_total",
		Help: "Total inventory HTTP requests by status",
	}, []string{"status"})

	steamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "steam_inventory_request_duration_seconds",
		Help:    "Inventory HTTP request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	steamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steam_inventory_errors_total",
		Help: "Total inventory transport errors by class",
	}, []string{"class"})
)

// maxErrorBody caps how much of a failed response body is kept in an HTTPError.
const maxErrorBody = 512

// Getter is the transport contract the inventory fetch loop depends on.
type Getter interface {
	GetJSON(ctx context.Context, req Request, v any) error
}

// Request describes a single GET.
type Request struct {
	// URL is the absolute target URL. Query parameters already present are kept.
	URL string

	// Header values are set on the request, overriding client defaults.
	Header http.Header

	// Query values are added to the URL query.
	Query url.Values

	// Proxy is an optional proxy URL. Bare hosts ("10.0.0.1:3128") are treated as http://.
	Proxy string

	// Timeout bounds the whole request including body decoding. Zero uses the client default.
	Timeout time.Duration
}

// Config holds the client configuration.
type Config struct {
	// UserAgent is sent when the request does not set its own.
	UserAgent string

	// Timeout is the default per-request timeout.
	Timeout time.Duration

	// MaxIdleConnsPerHost for every underlying transport.
	MaxIdleConnsPerHost int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/79.0.3945.130 Safari/537.36",
		Timeout:             9 * time.Second,
		MaxIdleConnsPerHost: 4,
	}
}

// Client performs inventory HTTP requests.
type Client struct {
	config Config
	logger zerolog.Logger

	direct *http.Client

	mu      sync.Mutex
	proxied map[string]*http.Client
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	c := &Client{
		config:  cfg,
		logger:  logging.NewLogger("steam-client"),
		proxied: make(map[string]*http.Client),
	}
	c.direct = &http.Client{Transport: c.newTransport(nil)}

	return c, nil
}

func (c *Client) newTransport(proxy *url.URL) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = c.config.MaxIdleConnsPerHost
	if proxy != nil {
		t.Proxy = http.ProxyURL(proxy)
	} else {
		t.Proxy = nil
	}
	return t
}

// httpClientFor returns the cached *http.Client routed through proxy.
func (c *Client) httpClientFor(proxy string) (*http.Client, error) {
	if proxy == "" {
		return c.direct, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if hc, ok := c.proxied[proxy]; ok {
		return hc, nil
	}

	u, err := ParseProxyURL(proxy)
	if err != nil {
		return nil, err
	}

	hc := &http.Client{Transport: c.newTransport(u)}
	c.proxied[proxy] = hc
	return hc, nil
}

// ParseProxyURL normalizes a proxy string into a URL.
func ParseProxyURL(proxy string) (*url.URL, error) {
	if !strings.Contains(proxy, "://") {
		proxy = "http://" + proxy
	}
	u, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", proxy, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse proxy %q: missing host", proxy)
	}
	return u, nil
}

// GetJSON performs a GET and decodes the JSON body into v.
// Non-2xx responses, network failures and decode failures are returned as *HTTPError.
func (c *Client) GetJSON(ctx context.Context, req Request, v any) error {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return err
	}

	hc, err := c.httpClientFor(req.Proxy)
	if err != nil {
		return err
	}

	startTime := time.Now()
	defer func() {
		steamRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("url", httpReq.URL.Redacted()).
		Str(logging.FieldProxy, req.Proxy).
		Msg("Executing inventory request")

	resp, err := hc.Do(httpReq)
	if err != nil {
		steamRequestsTotal.WithLabelValues("network_error").Inc()
		return c.fail(&HTTPError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		})
	}
	defer resp.Body.Close()

	steamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.fail(&HTTPError{
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Message:    resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		class := ErrorClassDecode
		if isTimeout(err) {
			class = ErrorClassNetwork
		}
		return c.fail(&HTTPError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    "decode response body",
			Err:        err,
		})
	}

	return nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for key, values := range req.Query {
			q.Del(key)
			for _, value := range values {
				q.Add(key, value)
			}
		}
		u.RawQuery = q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	return httpReq, nil
}

func (c *Client) fail(err *HTTPError) error {
	steamErrorsTotal.WithLabelValues(string(err.ErrorClass)).Inc()
	c.logger.Debug().
		Int(logging.FieldStatusCode, err.StatusCode).
		Str(logging.FieldErrorClass, string(err.ErrorClass)).
		Err(err.Err).
		Msg("Inventory request error")
	return err
}

// classifyStatus categorizes a non-2xx status code.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.direct.CloseIdleConnections()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, hc := range c.proxied {
		hc.CloseIdleConnections()
	}
	return nil
}
