package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
)

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, status int) APIError {
	return APIError{Message: message, Status: status}
}

// translateError maps client errors onto HTTP statuses: bad inputs become
// 400, upstream API failures keep their original status, anything else is a
// 500. The API key never appears in any of these messages.
func translateError(err error) APIError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewAPIError(validationErr.Error(), http.StatusBadRequest)
	}

	var apiErr *APIRequestError
	if errors.As(err, &apiErr) {
		return NewAPIError(apiErr.Error(), apiErr.StatusCode)
	}

	return NewAPIError("Internal server error", http.StatusInternalServerError)
}

func writeError(w http.ResponseWriter, err error, logger *Logger, r *http.Request) {
	var apiErr APIError
	if e, ok := err.(APIError); ok {
		apiErr = e
	} else {
		apiErr = translateError(err)
	}

	requestID := GetRequestID(r.Context())

	logger.Error("api_error").
		Component("http").
		Operation("write_error").
		HTTP(r.Method, r.URL.Path, apiErr.Status).
		Request(r.UserAgent(), r.RemoteAddr, requestID).
		Err(err).
		ErrorCode(strconv.Itoa(apiErr.Status)).
		Log()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":     apiErr.Message,
		"status":    apiErr.Status,
		"timestamp": time.Now().Unix(),
		"requestId": requestID,
	})
}

func writeJSON(w http.ResponseWriter, data interface{}, logger *Logger, r *http.Request) {
	requestID := GetRequestID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("json_encode_failed").
			Component("http").
			Operation("write_json").
			Request("", "", requestID).
			Err(err).
			Log()
	}
}

func WithCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func WithRateLimit(rateLimiter RateLimiterInterface, key string, logger *Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			allowed, err := rateLimiter.Allow(r.Context(), key)
			if err != nil {
				writeError(w, NewAPIError("Rate limiter error", http.StatusInternalServerError), logger, r)
				return
			}

			if !allowed {
				writeError(w, NewAPIError("Rate limit exceeded", http.StatusTooManyRequests), logger, r)
				return
			}

			next(w, r)
		}
	}
}

// matchCacheTTL bounds Redis growth. Matches are immutable, so the TTL is
// retention only; expired entries are re-fetched or served from Postgres.
const matchCacheTTL = 24 * time.Hour

// Handlers is the HTTP surface over the Riot client. Responses are cached in
// Redis per endpoint; the client below stays cache-free.
type Handlers struct {
	riot    RiotAPI
	cache   Cache
	store   Store
	nats    *NATSClient
	logger  *Logger
	metrics *MetricsCollector
	cfg     *Config
}

func NewHandlers(riot RiotAPI, cache Cache, store Store, natsClient *NATSClient, logger *Logger, metrics *MetricsCollector, cfg *Config) *Handlers {
	return &Handlers{
		riot:    riot,
		cache:   cache,
		store:   store,
		nats:    natsClient,
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
}

func (h *Handlers) routing(r *http.Request) string {
	if region := r.URL.Query().Get("region"); region != "" {
		return region
	}
	return h.cfg.RoutingRegion
}

// Account resolves gameName+tagLine to an account.
func (h *Handlers) Account(w http.ResponseWriter, r *http.Request) {
	gameName := r.URL.Query().Get("gameName")
	tagLine := r.URL.Query().Get("tagLine")
	region := h.routing(r)

	cacheKey := h.cache.Key("account", region, gameName, tagLine)
	var cached Account
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		h.metrics.RecordCacheHit(cacheKey)
		writeJSON(w, &cached, h.logger, r)
		return
	}
	h.metrics.RecordCacheMiss(cacheKey)

	account, err := h.riot.GetAccountByRiotID(r.Context(), region, gameName, tagLine)
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	h.cache.Set(r.Context(), cacheKey, account, 6*time.Hour)
	writeJSON(w, account, h.logger, r)
}

// AccountByPUUID resolves a PUUID to its display identity.
func (h *Handlers) AccountByPUUID(w http.ResponseWriter, r *http.Request) {
	puuid := r.URL.Query().Get("puuid")
	region := h.routing(r)

	cacheKey := h.cache.Key("account_puuid", region, puuid)
	var cached Account
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		h.metrics.RecordCacheHit(cacheKey)
		writeJSON(w, &cached, h.logger, r)
		return
	}
	h.metrics.RecordCacheMiss(cacheKey)

	account, err := h.riot.GetAccountByPUUID(r.Context(), region, puuid)
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	h.cache.Set(r.Context(), cacheKey, account, 6*time.Hour)
	writeJSON(w, account, h.logger, r)
}

// Shard reports which platform region holds the player's data.
func (h *Handlers) Shard(w http.ResponseWriter, r *http.Request) {
	puuid := r.URL.Query().Get("puuid")
	game := r.URL.Query().Get("game")
	if game == "" {
		game = string(GameTFT)
	}
	region := h.routing(r)

	cacheKey := h.cache.Key("shard", region, game, puuid)
	var cached ActiveShard
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		h.metrics.RecordCacheHit(cacheKey)
		writeJSON(w, &cached, h.logger, r)
		return
	}
	h.metrics.RecordCacheMiss(cacheKey)

	shard, err := h.riot.GetActiveShard(r.Context(), region, game, puuid)
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	h.cache.Set(r.Context(), cacheKey, shard, 6*time.Hour)
	writeJSON(w, shard, h.logger, r)
}

// Summoner fetches TFT summoner data from a platform shard.
func (h *Handlers) Summoner(w http.ResponseWriter, r *http.Request) {
	puuid := r.URL.Query().Get("puuid")
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		platform = h.cfg.PlatformRegion
	}

	cacheKey := h.cache.Key("summoner", platform, puuid)
	var cached Summoner
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		h.metrics.RecordCacheHit(cacheKey)
		writeJSON(w, &cached, h.logger, r)
		return
	}
	h.metrics.RecordCacheMiss(cacheKey)

	summoner, err := h.riot.GetSummonerByPUUID(r.Context(), platform, puuid)
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	h.cache.Set(r.Context(), cacheKey, summoner, time.Hour)
	writeJSON(w, summoner, h.logger, r)
}

// MatchIDs lists a player's match IDs with optional pagination and time
// window. Parameters are passed through untouched; range checks live in the
// client.
func (h *Handlers) MatchIDs(w http.ResponseWriter, r *http.Request) {
	puuid := r.URL.Query().Get("puuid")
	region := h.routing(r)

	opts := &MatchIDsOptions{}
	query := r.URL.Query()
	for _, intParam := range []struct {
		name string
		dest **int
	}{
		{"start", &opts.Start},
		{"count", &opts.Count},
	} {
		if raw := query.Get(intParam.name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, newValidationError(intParam.name, "must be an integer"), h.logger, r)
				return
			}
			*intParam.dest = &v
		}
	}
	for _, timeParam := range []struct {
		name string
		dest **int64
	}{
		{"startTime", &opts.StartTime},
		{"endTime", &opts.EndTime},
	} {
		if raw := query.Get(timeParam.name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, newValidationError(timeParam.name, "must be an integer"), h.logger, r)
				return
			}
			*timeParam.dest = &v
		}
	}

	ids, err := h.riot.GetMatchIDs(r.Context(), region, puuid, opts)
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	writeJSON(w, ids, h.logger, r)
}

// MatchByID returns one match, normalized into the four record sets by
// default or as the raw nested document with ?raw=true. Normalized fetches
// are also queued for background ingestion into Postgres.
func (h *Handlers) MatchByID(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("id")
	region := h.routing(r)
	raw := r.URL.Query().Get("raw") == "true"

	if raw {
		match, err := h.riot.GetMatch(r.Context(), region, matchID)
		if err != nil {
			writeError(w, err, h.logger, r)
			return
		}
		writeJSON(w, match, h.logger, r)
		return
	}

	cacheKey := h.cache.Key("match", region, matchID)
	var cached NormalizedMatch
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		h.metrics.RecordCacheHit(cacheKey)
		h.logger.Debug("match_cache_hit").
			Component("http").
			Operation("match_by_id").
			Cache(true, cacheKey).
			Log()
		writeJSON(w, &cached, h.logger, r)
		return
	}
	h.metrics.RecordCacheMiss(cacheKey)

	normalized, err := h.riot.GetMatchNormalized(r.Context(), region, matchID)
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	h.cache.Set(r.Context(), cacheKey, normalized, matchCacheTTL)

	if h.nats != nil {
		task := MatchIngestTask{MatchID: matchID, Region: region}
		if err := h.nats.PublishMatchIngestTask(task); err != nil {
			h.logger.Warn("ingest_publish_failed").
				Component("http").
				Operation("match_by_id").
				Match("", region, matchID).
				Err(err).
				Log()
		}
	}

	writeJSON(w, normalized, h.logger, r)
}

// CacheFlush drops cached entries for one key scope (account, shard,
// summoner, match), or everything when no scope is given.
func (h *Handlers) CacheFlush(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")

	pattern := h.cache.Key("*")
	if scope != "" {
		pattern = h.cache.Key(scope) + ":*"
	}

	if err := h.cache.DeletePattern(r.Context(), pattern); err != nil {
		writeError(w, err, h.logger, r)
		return
	}

	h.logger.Info("cache_flushed").
		Component("http").
		Operation("cache_flush").
		Meta("pattern", pattern).
		Log()

	writeJSON(w, map[string]string{"status": "flushed", "pattern": pattern}, h.logger, r)
}

// Stats reports row counts of the four match tables.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, err, h.logger, r)
		return
	}
	writeJSON(w, stats, h.logger, r)
}

// Metrics exposes the in-process counters.
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.metrics.GetMetrics(), h.logger, r)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
