package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RiotClient calls the Riot account, summoner and TFT match APIs. It keeps no
// state between calls: every method validates its inputs, builds one request
// descriptor, performs a single attempt and classifies the response. Caching,
// retries and persistence are the concern of the layers above.
type RiotClient struct {
	apiKey  string
	client  *http.Client
	logger  *Logger
	metrics *MetricsCollector

	// baseURL, when set, replaces scheme and host of every request. Tests
	// point it at an httptest server.
	baseURL string
}

func NewRiotClient(cfg *Config, logger *Logger, metrics *MetricsCollector) *RiotClient {
	return &RiotClient{
		apiKey:  cfg.RiotAPIKey,
		logger:  logger,
		metrics: metrics,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// riotErrorEnvelope is the provider's structured error body.
type riotErrorEnvelope struct {
	Status struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"status"`
}

// classifyResponse turns a non-200 status and body into an APIRequestError.
// A body that is not the expected envelope falls back to a generic message;
// an envelope without a message falls back to "Unknown API error". 404 and
// 429 surface identically, only the embedded code differs.
func classifyResponse(statusCode int, body []byte) *APIRequestError {
	var envelope riotErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &APIRequestError{
			StatusCode: statusCode,
			Message:    "could not parse error body, status=" + strconv.Itoa(statusCode),
		}
	}
	if envelope.Status.Message == "" {
		return &APIRequestError{StatusCode: statusCode, Message: "Unknown API error"}
	}
	return &APIRequestError{StatusCode: statusCode, Message: envelope.Status.Message}
}

// doRequest performs one attempt. Transport errors propagate unwrapped; any
// non-200 status becomes an APIRequestError. Metrics are keyed by the fixed
// endpoint label, not the concrete path, so per-player URLs cannot grow the
// counter maps without bound.
func (c *RiotClient) doRequest(ctx context.Context, endpoint string, r apiRequest) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header = r.header

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordRequest(endpoint, duration, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := classifyResponse(resp.StatusCode, body)
		if c.logger != nil {
			c.logger.Warn("riot_request_failed").
				Component("riot_api").
				Operation("do_request").
				HTTP(http.MethodGet, req.URL.Path, resp.StatusCode).
				Duration(duration).
				Err(apiErr).
				Log()
		}
		return nil, apiErr
	}

	return body, nil
}

func (c *RiotClient) getJSON(ctx context.Context, endpoint string, r apiRequest, out interface{}) error {
	body, err := c.doRequest(ctx, endpoint, r)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// GetAccountByRiotID resolves a gameName#tagLine pair to an account.
func (c *RiotClient) GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (*Account, error) {
	region, err := ParseRoutingRegion(routing)
	if err != nil {
		return nil, err
	}
	if err := requireNonEmpty("gameName", gameName); err != nil {
		return nil, err
	}
	if err := requireNonEmpty("tagLine", tagLine); err != nil {
		return nil, err
	}

	req := buildRequest(c.baseURL, routingHost(region),
		[]string{"riot", "account", "v1", "accounts", "by-riot-id", gameName, tagLine},
		nil, c.apiKey)

	var account Account
	if err := c.getJSON(ctx, "get_account_by_riot_id", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByPUUID resolves a PUUID to its display identity.
func (c *RiotClient) GetAccountByPUUID(ctx context.Context, routing, puuid string) (*Account, error) {
	region, err := ParseRoutingRegion(routing)
	if err != nil {
		return nil, err
	}
	if err := requireNonEmpty("puuid", puuid); err != nil {
		return nil, err
	}

	req := buildRequest(c.baseURL, routingHost(region),
		[]string{"riot", "account", "v1", "accounts", "by-puuid", puuid},
		nil, c.apiKey)

	var account Account
	if err := c.getJSON(ctx, "get_account_by_puuid", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetActiveShard looks up which platform shard holds a player's data for the
// given game.
func (c *RiotClient) GetActiveShard(ctx context.Context, routing, game, puuid string) (*ActiveShard, error) {
	region, err := ParseRoutingRegion(routing)
	if err != nil {
		return nil, err
	}
	g, err := ParseGame(game)
	if err != nil {
		return nil, err
	}
	if err := requireNonEmpty("puuid", puuid); err != nil {
		return nil, err
	}

	req := buildRequest(c.baseURL, routingHost(region),
		[]string{"riot", "account", "v1", "region", "by-game", string(g), "by-puuid", puuid},
		nil, c.apiKey)

	var shard ActiveShard
	if err := c.getJSON(ctx, "get_active_shard", req, &shard); err != nil {
		return nil, err
	}
	return &shard, nil
}

// GetSummonerByPUUID fetches TFT summoner data from a platform shard.
func (c *RiotClient) GetSummonerByPUUID(ctx context.Context, platform, puuid string) (*Summoner, error) {
	p, err := ParsePlatformRegion(platform)
	if err != nil {
		return nil, err
	}
	if err := requireNonEmpty("puuid", puuid); err != nil {
		return nil, err
	}

	req := buildRequest(c.baseURL, platformHost(p),
		[]string{"tft", "summoner", "v1", "summoners", "by-puuid", puuid},
		nil, c.apiKey)

	var summoner Summoner
	if err := c.getJSON(ctx, "get_summoner", req, &summoner); err != nil {
		return nil, err
	}
	return &summoner, nil
}

// MatchIDsOptions are the optional pagination and time-window parameters of
// the match-ID listing. Nil fields are omitted from the query entirely.
type MatchIDsOptions struct {
	Start     *int
	Count     *int
	StartTime *int64
	EndTime   *int64
}

// GetMatchIDs lists match IDs for a player, newest first, in the provider's
// stable order.
func (c *RiotClient) GetMatchIDs(ctx context.Context, routing, puuid string, opts *MatchIDsOptions) ([]string, error) {
	region, err := ParseRoutingRegion(routing)
	if err != nil {
		return nil, err
	}
	if err := requireNonEmpty("puuid", puuid); err != nil {
		return nil, err
	}

	query := url.Values{}
	if opts != nil {
		if opts.Start != nil {
			if err := validateStart(*opts.Start); err != nil {
				return nil, err
			}
			query.Set("start", strconv.Itoa(*opts.Start))
		}
		if opts.Count != nil {
			if err := validateCount(*opts.Count); err != nil {
				return nil, err
			}
			query.Set("count", strconv.Itoa(*opts.Count))
		}
		if opts.StartTime != nil {
			query.Set("startTime", strconv.FormatInt(*opts.StartTime, 10))
		}
		if opts.EndTime != nil {
			query.Set("endTime", strconv.FormatInt(*opts.EndTime, 10))
		}
	}

	req := buildRequest(c.baseURL, routingHost(region),
		[]string{"tft", "match", "v1", "matches", "by-puuid", puuid, "ids"},
		query, c.apiKey)

	var ids []string
	if err := c.getJSON(ctx, "get_match_ids", req, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatch fetches one match as the raw nested document, unflattened.
func (c *RiotClient) GetMatch(ctx context.Context, routing, matchID string) (*Match, error) {
	region, err := ParseRoutingRegion(routing)
	if err != nil {
		return nil, err
	}
	if err := requireNonEmpty("matchId", matchID); err != nil {
		return nil, err
	}

	req := buildRequest(c.baseURL, routingHost(region),
		[]string{"tft", "match", "v1", "matches", matchID},
		nil, c.apiKey)

	var match Match
	if err := c.getJSON(ctx, "get_match", req, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatchNormalized fetches one match and flattens it into the four related
// record sets. Raw vs normalized is an explicit choice between this method
// and GetMatch, never an inspection of the response shape.
func (c *RiotClient) GetMatchNormalized(ctx context.Context, routing, matchID string) (*NormalizedMatch, error) {
	match, err := c.GetMatch(ctx, routing, matchID)
	if err != nil {
		return nil, err
	}
	return NormalizeMatch(match), nil
}
