// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Context field names shared by every component.
const (
	FieldFetchID      = "fetch_id"
	FieldSteamID      = "steam_id"
	FieldAppID        = "app_id"
	FieldContextID    = "context_id"
	FieldStartAssetID = "start_assetid"
	FieldProxy        = "proxy"
	FieldStatusCode   = "status_code"
	FieldErrorClass   = "error_class"
)

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Page progress (cursor, assets per page, items kept so far)
//   - Fetch events mirrored from observers (Requesting. Start ...)
//   - Cache operations (hit/miss, age, TTL)
//
// Info: Normal operation events
//   - Completed inventory fetches with item counts
//   - Batch progress
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Failed page attempts that will be retried
//   - Cache errors (fallback to a live fetch)
//   - Single inventories failing inside a batch
//
// Error: Error conditions requiring attention
//   - Panicking log observers
//   - Service unavailability
//   - Configuration errors
//
// Context Fields:
//   - fetch_id: Correlates every line of one inventory fetch
//   - steam_id: Owner as SteamID64
//   - app_id, context_id: Inventory being fetched
//   - start_assetid: Page cursor ("0" for the first page)
//   - proxy: Proxy URL of the attempt, when proxies are configured
//   - status_code: HTTP status code
//   - error_class: Error classification (client, server, rate_limit, network, decode)
//   - duration: Request or fetch duration
