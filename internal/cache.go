package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheManager caches service responses in Redis. The Riot client itself
// never caches; only the HTTP handlers and the ingest worker go through here.
type CacheManager struct {
	client  *redis.Client
	enabled bool
}

func NewCacheManager(cfg *Config) *CacheManager {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &CacheManager{
		client:  client,
		enabled: cfg.CacheEnabled,
	}
}

func (cm *CacheManager) Get(ctx context.Context, key string, result interface{}) error {
	if !cm.enabled {
		return redis.Nil
	}

	data, err := cm.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), result)
}

func (cm *CacheManager) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if !cm.enabled {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return cm.client.Set(ctx, key, jsonData, ttl).Err()
}

func (cm *CacheManager) Key(parts ...string) string {
	key := "tftfetch"
	for _, part := range parts {
		key = key + ":" + part
	}
	return key
}

func (cm *CacheManager) DeletePattern(ctx context.Context, pattern string) error {
	if !cm.enabled {
		return nil
	}

	keys, err := cm.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return cm.client.Del(ctx, keys...).Err()
	}

	return nil
}
