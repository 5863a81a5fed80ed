package internal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

const matchIngestSubject = "tftfetch.match.ingest"

type NATSClient struct {
	Conn   *nats.Conn
	logger *Logger
}

func NewNATSClient(cfg *Config, logger *Logger) (*NATSClient, error) {
	conn, err := nats.Connect(cfg.NATSUrl,
		nats.Name(cfg.NATSClientID),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSClient{Conn: conn, logger: logger}, nil
}

func (nc *NATSClient) PublishMatchIngestTask(task MatchIngestTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return nc.Conn.Publish(matchIngestSubject, data)
}

// StartMatchIngestWorker queue-subscribes to ingest tasks. Each task fetches
// one match through the client, flattens it and writes the four record sets
// to Postgres. Already-stored matches are skipped.
func (nc *NATSClient) StartMatchIngestWorker(riot RiotAPI, store Store, cache Cache, metrics *MetricsCollector, profiler *Profiler) (*nats.Subscription, error) {
	handler := func(msg *nats.Msg) {
		nc.processMatchIngestTask(msg, riot, store, cache, metrics, profiler)
	}

	sub, err := nc.Conn.QueueSubscribe(matchIngestSubject, "ingest-workers", handler)
	if err != nil {
		return nil, err
	}

	nc.logger.Info("ingest_worker_started").
		Component("nats").
		Operation("start_worker").
		Worker("ingest", "match_ingest").
		Log()
	return sub, nil
}

func (nc *NATSClient) processMatchIngestTask(msg *nats.Msg, riot RiotAPI, store Store, cache Cache, metrics *MetricsCollector, profiler *Profiler) {
	var task MatchIngestTask
	if err := json.Unmarshal(msg.Data, &task); err != nil {
		nc.logger.Error("ingest_task_unmarshal_failed").
			Component("nats").
			Operation("process_task").
			Err(err).
			Log()
		return
	}

	ctx := context.Background()

	exists, err := store.HasMatch(ctx, task.MatchID)
	if err != nil {
		nc.logger.Error("ingest_store_check_failed").
			Component("nats").
			Operation("process_task").
			Match("", task.Region, task.MatchID).
			Err(err).
			Log()
		return
	}
	if exists {
		nc.logger.Debug("ingest_task_skipped").
			Component("nats").
			Operation("process_task").
			Match("", task.Region, task.MatchID).
			Log()
		return
	}

	normalized, err := riot.GetMatchNormalized(ctx, task.Region, task.MatchID)
	if err != nil {
		nc.logger.Error("ingest_fetch_failed").
			Component("nats").
			Operation("process_task").
			Match("", task.Region, task.MatchID).
			Err(err).
			Log()
		return
	}

	saveMatch := func() error {
		return store.SaveMatch(ctx, normalized)
	}
	if profiler != nil {
		inner := saveMatch
		saveMatch = func() error {
			return profiler.ProfileFunction("save_match", inner)
		}
	}
	if err := saveMatch(); err != nil {
		nc.logger.Error("ingest_save_failed").
			Component("nats").
			Operation("process_task").
			Match("", task.Region, task.MatchID).
			Err(err).
			Log()
		return
	}

	cacheKey := cache.Key("match", task.Region, task.MatchID)
	if err := cache.Set(ctx, cacheKey, normalized, matchCacheTTL); err != nil {
		nc.logger.Warn("ingest_cache_failed").
			Component("nats").
			Operation("process_task").
			Match("", task.Region, task.MatchID).
			Err(err).
			Log()
	}

	if metrics != nil {
		metrics.RecordMatchIngested(task.MatchID)
	}
}
