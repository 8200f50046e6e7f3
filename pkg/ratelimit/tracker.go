package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	steamRateLimitPenaltiesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steam_rate_limit_penalties_total",
		Help: "Total number of 429 responses that put a route into cooldown",
	})

	steamRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steam_rate_limit_waits_total",
		Help: "Total number of requests delayed by a route cooldown",
	})

	steamRateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "steam_rate_limit_wait_seconds",
		Help:    "Time requests spent waiting for a route cooldown",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// Config holds tracker configuration.
type Config struct {
	// Cooldown is how long a route rests after a 429.
	Cooldown time.Duration

	// MaxWait caps a single wait.
	MaxWait time.Duration
}

// DefaultConfig returns the default cooldown settings.
func DefaultConfig() Config {
	return Config{
		Cooldown: DefaultCooldown,
		MaxWait:  DefaultMaxWait,
	}
}

// Tracker stores route cooldowns in Redis and gates requests on them.
type Tracker struct {
	redis  *redis.Client
	config Config
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewTracker creates a new rate limit tracker.
func NewTracker(redisClient *redis.Client, cfg Config, logger zerolog.Logger) *Tracker {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	return &Tracker{
		redis:  redisClient,
		config: cfg,
		logger: logger,
		sleep:  sleepContext,
	}
}

// GetState retrieves the cooldown state of a route from Redis.
func (t *Tracker) GetState(ctx context.Context, route string) (*RouteState, error) {
	ttl, err := t.redis.PTTL(ctx, cooldownKey(route)).Result()
	if err != nil {
		return nil, fmt.Errorf("get cooldown ttl: %w", err)
	}

	state := &RouteState{Route: RouteName(route)}
	// Missing keys report a negative TTL.
	if ttl > 0 {
		state.CoolingDown = true
		state.ResetAt = time.Now().Add(ttl)
	}
	return state, nil
}

// Penalize puts a route into cooldown. A running cooldown is extended.
func (t *Tracker) Penalize(ctx context.Context, route string) error {
	if err := t.redis.Set(ctx, cooldownKey(route), time.Now().Unix(), t.config.Cooldown).Err(); err != nil {
		return fmt.Errorf("store cooldown in redis: %w", err)
	}

	steamRateLimitPenaltiesTotal.Inc()
	t.logger.Warn().
		Str("route", RouteName(route)).
		Dur("cooldown", t.config.Cooldown).
		Msg("Steam rate limit hit - route cooling down")
	return nil
}

// Wait blocks while the route is cooling down, for at most MaxWait.
// It returns ctx.Err() when the context ends first.
func (t *Tracker) Wait(ctx context.Context, route string) error {
	state, err := t.GetState(ctx, route)
	if err != nil {
		return err
	}

	wait := state.TimeUntilReset()
	if wait <= 0 {
		return nil
	}
	if wait > t.config.MaxWait {
		wait = t.config.MaxWait
	}

	t.logger.Debug().
		Str("route", state.Route).
		Dur("wait_duration", wait).
		Msg("Route cooling down - delaying request")

	steamRateLimitWaitsTotal.Inc()
	steamRateLimitWaitSeconds.Observe(wait.Seconds())
	return t.sleep(ctx, wait)
}

// Reset clears the cooldown of a route.
func (t *Tracker) Reset(ctx context.Context, route string) error {
	if err := t.redis.Del(ctx, cooldownKey(route)).Err(); err != nil {
		return fmt.Errorf("delete cooldown: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
