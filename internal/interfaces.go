package internal

import (
	"context"
	"time"
)

// RiotAPI is the client surface the handlers and workers depend on, kept as
// an interface so tests can substitute fixtures.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (*Account, error)
	GetAccountByPUUID(ctx context.Context, routing, puuid string) (*Account, error)
	GetActiveShard(ctx context.Context, routing, game, puuid string) (*ActiveShard, error)
	GetSummonerByPUUID(ctx context.Context, platform, puuid string) (*Summoner, error)
	GetMatchIDs(ctx context.Context, routing, puuid string, opts *MatchIDsOptions) ([]string, error)
	GetMatch(ctx context.Context, routing, matchID string) (*Match, error)
	GetMatchNormalized(ctx context.Context, routing, matchID string) (*NormalizedMatch, error)
}

type Cache interface {
	Get(ctx context.Context, key string, result interface{}) error
	Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
	Key(parts ...string) string
}

type Store interface {
	SaveMatch(ctx context.Context, nm *NormalizedMatch) error
	HasMatch(ctx context.Context, matchID string) (bool, error)
	Stats(ctx context.Context) (map[string]int64, error)
	Close()
}

type RateLimiterInterface interface {
	Allow(ctx context.Context, key string) (bool, error)
}
