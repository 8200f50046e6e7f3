// Command inventory-proxy serves Steam community inventories over HTTP.
//
// Every inventory is fetched page by page through the configured proxies,
// joined with its descriptions and returned as one JSON document. Results are
// cached in Redis when REDIS_URL is set.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/steam-inventory-client/pkg/batch"
	"github.com/Sternrassler/steam-inventory-client/pkg/cache"
	"github.com/Sternrassler/steam-inventory-client/pkg/client"
	"github.com/Sternrassler/steam-inventory-client/pkg/inventory"
	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
	"github.com/Sternrassler/steam-inventory-client/pkg/ratelimit"
)

// config is the environment configuration of the proxy.
type config struct {
	Port           string
	RedisURL       string
	LogLevel       string
	LogPretty      bool
	UserAgent      string
	Proxies        []string
	ProxyRepeat    int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	Cooldown       time.Duration
	Retries        int
	BatchWorkers   int
}

func loadConfig() config {
	return config{
		Port:           getEnv("PORT", "8080"),
		RedisURL:       getEnv("REDIS_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvBool("LOG_PRETTY", false),
		UserAgent:      getEnv("USER_AGENT", client.DefaultConfig().UserAgent),
		Proxies:        splitList(getEnv("PROXIES", "")),
		ProxyRepeat:    getEnvInt("PROXY_REPEAT", 1),
		RetryDelay:     getEnvDuration("RETRY_DELAY", time.Second),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", inventory.DefaultRequestTimeout),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		Cooldown:       getEnvDuration("RATE_LIMIT_COOLDOWN", ratelimit.DefaultCooldown),
		Retries:        getEnvInt("DEFAULT_RETRIES", 3),
		BatchWorkers:   getEnvInt("BATCH_WORKERS", batch.DefaultConfig().MaxConcurrency),
	}
}

func main() {
	cfg := loadConfig()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("inventory-proxy")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport, err := client.New(client.Config{UserAgent: cfg.UserAgent, Timeout: cfg.RequestTimeout})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create HTTP transport")
	}
	defer transport.Close()

	invCfg := inventory.DefaultConfig()
	invCfg.Proxies = cfg.Proxies
	invCfg.ProxyRepeat = cfg.ProxyRepeat
	invCfg.RetryDelay = cfg.RetryDelay
	invCfg.RequestTimeout = cfg.RequestTimeout
	invCfg.Transport = transport

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = newRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
		}
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis_url", cfg.RedisURL).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("redis_url", cfg.RedisURL).Msg("Connected to Redis")

		invCfg.Cache = cache.NewManager(redisClient)
		invCfg.CacheTTL = cfg.CacheTTL
		invCfg.Throttle = ratelimit.NewTracker(redisClient, ratelimit.Config{Cooldown: cfg.Cooldown}, logging.NewLogger("ratelimit"))
	}

	api, err := inventory.New(invCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create inventory API")
	}

	srv := newServer(api, redisClient, serverConfig{
		DefaultRetries: cfg.Retries,
		BatchWorkers:   cfg.BatchWorkers,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", httpServer.Addr).
		Int("proxies", len(cfg.Proxies)).
		Bool("cache", invCfg.Cache != nil).
		Msg("Starting inventory proxy server")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server stopped")
}

// newRedisClient accepts redis:// URLs as well as plain host:port addresses.
func newRedisClient(raw string) (*redis.Client, error) {
	if strings.Contains(raw, "://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: raw}), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go durations ("1.5s") and plain milliseconds ("1500").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
