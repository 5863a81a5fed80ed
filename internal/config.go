package internal

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	RiotAPIKey     string
	RoutingRegion  string
	PlatformRegion string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDb       string
	PostgresSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	NATSUrl      string
	NATSClientID string

	RateLimitRedisPrefix string
	RateLimitBurst       int
	RateLimitSustained   int

	AppPort  string
	AppEnv   string
	LogLevel string

	CacheEnabled    bool
	DatabaseEnabled bool
}

// LoadConfig reads configuration from the environment, with a best-effort
// .env load first. RIOT_API_KEY is the only required variable.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	rateLimitBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be an integer: %w", err)
	}
	rateLimitSustained, err := strconv.Atoi(getEnv("RATE_LIMIT_SUSTAINED", "100"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_SUSTAINED must be an integer: %w", err)
	}

	return &Config{
		RiotAPIKey:     apiKey,
		RoutingRegion:  getEnv("ROUTING_REGION", "americas"),
		PlatformRegion: getEnv("PLATFORM_REGION", "na1"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDb:       os.Getenv("POSTGRES_DB"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		NATSUrl:      os.Getenv("NATS_URL"),
		NATSClientID: getEnv("NATS_CLIENT_ID", "tftfetch"),

		RateLimitRedisPrefix: getEnv("RATE_LIMIT_REDIS_PREFIX", "tftfetch:ratelimit"),
		RateLimitBurst:       rateLimitBurst,
		RateLimitSustained:   rateLimitSustained,

		AppPort:  getEnv("APP_PORT", "8000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CacheEnabled:    os.Getenv("CACHE_ENABLED") != "false",
		DatabaseEnabled: os.Getenv("DATABASE_ENABLED") != "false",
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
