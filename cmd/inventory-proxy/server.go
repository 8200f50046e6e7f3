package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/steam-inventory-client/pkg/batch"
	"github.com/Sternrassler/steam-inventory-client/pkg/inventory"
	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
	"github.com/Sternrassler/steam-inventory-client/pkg/metrics"
)

// maxBatchSize bounds POST /inventory/batch.
const maxBatchSize = 100

type serverConfig struct {
	DefaultRetries int
	BatchWorkers   int
}

type server struct {
	api    batch.Fetcher
	batch  *batch.BatchFetcher
	redis  *redis.Client
	config serverConfig
	logger zerolog.Logger
}

func newServer(api batch.Fetcher, redisClient *redis.Client, cfg serverConfig) *server {
	if cfg.DefaultRetries < 1 {
		cfg.DefaultRetries = 1
	}
	return &server{
		api:    api,
		batch:  batch.NewBatchFetcher(api, batch.Config{MaxConcurrency: cfg.BatchWorkers}),
		redis:  redisClient,
		config: cfg,
		logger: logging.NewLogger("http"),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/ready", s.readyHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/inventory/{steamid}/{appid}/{contextid}", s.inventoryHandler)
	r.Post("/inventory/batch", s.batchHandler)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func (s *server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// inventoryHandler serves GET /inventory/{steamid}/{appid}/{contextid}.
// Query parameters: tradable (bool), retries (int), l (language).
func (s *server) inventoryHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(
		chi.URLParam(r, "steamid"),
		chi.URLParam(r, "appid"),
		chi.URLParam(r, "contextid"),
		r.URL.Query().Get("tradable"),
		r.URL.Query().Get("retries"),
		r.URL.Query().Get("l"),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.api.Get(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn().
			Err(err).
			Str(logging.FieldSteamID, req.SteamID).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int(logging.FieldStatusCode, status).
			Msg("Inventory request failed")
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type batchItem struct {
	SteamID   string `json:"steamid"`
	AppID     uint32 `json:"appid"`
	ContextID uint64 `json:"contextid"`
	Tradable  bool   `json:"tradable"`
	Retries   int    `json:"retries"`
	Language  string `json:"l"`
}

type batchOutcome struct {
	SteamID string            `json:"steamid"`
	Status  int               `json:"status"`
	Result  *inventory.Result `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// batchHandler serves POST /inventory/batch with a JSON array of requests.
func (s *server) batchHandler(w http.ResponseWriter, r *http.Request) {
	var items []batchItem
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(items) == 0 || len(items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch must contain 1 to %d requests", maxBatchSize))
		return
	}

	reqs := make([]inventory.Request, len(items))
	for i, item := range items {
		retries := item.Retries
		if retries < 1 {
			retries = s.config.DefaultRetries
		}
		reqs[i] = inventory.Request{
			SteamID:      item.SteamID,
			AppID:        item.AppID,
			ContextID:    item.ContextID,
			TradableOnly: item.Tradable,
			Retries:      retries,
			Language:     item.Language,
		}
	}

	outcomes := s.batch.FetchAll(r.Context(), reqs)
	resp := make([]batchOutcome, len(outcomes))
	for i, o := range outcomes {
		resp[i] = batchOutcome{SteamID: o.Request.SteamID, Status: http.StatusOK, Result: o.Result}
		if o.Err != nil {
			resp[i].Status = statusFor(o.Err)
			resp[i].Error = o.Err.Error()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) parseRequest(steamID, appID, contextID, tradable, retries, language string) (inventory.Request, error) {
	app, err := strconv.ParseUint(appID, 10, 32)
	if err != nil {
		return inventory.Request{}, fmt.Errorf("invalid appid %q", appID)
	}
	ctxID, err := strconv.ParseUint(contextID, 10, 64)
	if err != nil {
		return inventory.Request{}, fmt.Errorf("invalid contextid %q", contextID)
	}

	req := inventory.Request{
		SteamID:   steamID,
		AppID:     uint32(app),
		ContextID: ctxID,
		Retries:   s.config.DefaultRetries,
		Language:  language,
	}

	if tradable != "" {
		req.TradableOnly, err = strconv.ParseBool(tradable)
		if err != nil {
			return inventory.Request{}, fmt.Errorf("invalid tradable %q", tradable)
		}
	}
	if retries != "" {
		req.Retries, err = strconv.Atoi(retries)
		if err != nil || req.Retries < 1 {
			return inventory.Request{}, fmt.Errorf("invalid retries %q", retries)
		}
	}
	return req, nil
}

// statusFor maps fetch errors to the proxy's HTTP status codes.
func statusFor(err error) int {
	var fetchErr *inventory.FetchError
	switch {
	case errors.Is(err, inventory.ErrInvalidSteamID):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return fetchErr.StatusCode()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}
