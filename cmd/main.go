package main

import (
	"log"
	"net/http"

	"github.com/matchscope/tftfetch/internal"
)

func main() {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := internal.NewLogger(cfg)
	metrics := internal.NewMetricsCollector(logger)

	cacheManager := internal.NewCacheManager(cfg)
	store := internal.NewMatchStore(cfg, logger)
	defer store.Close()

	riotClient := internal.NewRiotClient(cfg, logger, metrics)

	rateLimiter := internal.NewRateLimiter(cfg, logger)

	profiler := internal.NewProfiler(logger)
	profiler.StartPeriodicMemoryLogging()

	var natsClient *internal.NATSClient
	if cfg.NATSUrl != "" {
		natsClient, err = internal.NewNATSClient(cfg, logger)
		if err != nil {
			log.Fatalf("Error connecting to NATS: %v", err)
		}
		defer natsClient.Conn.Close()

		if _, err := natsClient.StartMatchIngestWorker(riotClient, store, cacheManager, metrics, profiler); err != nil {
			log.Fatalf("Error starting match ingest worker: %v", err)
		}
	}

	handlers := internal.NewHandlers(riotClient, cacheManager, store, natsClient, logger, metrics, cfg)
	lm := internal.NewLoggingMiddleware(logger, metrics)

	route := func(h http.HandlerFunc) http.HandlerFunc {
		return lm.Handler(internal.WithCORS(internal.WithRateLimit(rateLimiter, "api", logger)(h)))
	}

	http.HandleFunc("/healthz", lm.Handler(internal.Healthz))
	http.HandleFunc("/account", route(handlers.Account))
	http.HandleFunc("/account/by-puuid", route(handlers.AccountByPUUID))
	http.HandleFunc("/shard", route(handlers.Shard))
	http.HandleFunc("/summoner", route(handlers.Summoner))
	http.HandleFunc("/matches", route(handlers.MatchIDs))
	http.HandleFunc("/match", route(handlers.MatchByID))
	http.HandleFunc("/stats", route(handlers.Stats))
	http.HandleFunc("/cache/flush", route(handlers.CacheFlush))
	http.HandleFunc("/metrics", lm.Handler(handlers.Metrics))

	logger.Info("server_started").
		Component("main").
		Operation("listen").
		Meta("port", cfg.AppPort).
		Log()

	if err := http.ListenAndServe(":"+cfg.AppPort, nil); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
