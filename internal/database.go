package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// MatchStore persists normalized matches into four relational tables:
// matches, participants, traits and units. The flat rows carry the
// match_id/puuid foreign keys, so the tables need no positional coupling.
type MatchStore struct {
	db      *sql.DB
	enabled bool
	logger  *Logger
}

func NewMatchStore(cfg *Config, logger *Logger) *MatchStore {
	if !cfg.DatabaseEnabled {
		logger.Info("database_disabled").
			Component("store").
			Operation("init").
			Log()
		return &MatchStore{enabled: false, logger: logger}
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDb,
		cfg.PostgresSSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Error("database_open_failed").
			Component("store").
			Operation("init").
			Err(err).
			Log()
		return &MatchStore{enabled: false, logger: logger}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		logger.Error("database_ping_failed").
			Component("store").
			Operation("init").
			Err(err).
			Log()
		return &MatchStore{enabled: false, logger: logger}
	}

	logger.Info("database_connected").
		Component("store").
		Operation("init").
		Log()
	return &MatchStore{
		db:      db,
		enabled: true,
		logger:  logger,
	}
}

// SaveMatch writes the four record sets in one transaction. Re-ingesting the
// same match replaces its child rows, so the operation is idempotent.
func (ms *MatchStore) SaveMatch(ctx context.Context, nm *NormalizedMatch) error {
	if !ms.enabled {
		return nil
	}

	tx, err := ms.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	matchID := nm.Match.MatchID

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, data_version, game_id, game_datetime, game_length,
			game_version, set_number, set_core_name, game_type, queue_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id) DO UPDATE SET
			data_version = $2,
			game_id = $3,
			game_datetime = $4,
			game_length = $5,
			game_version = $6,
			set_number = $7,
			set_core_name = $8,
			game_type = $9,
			queue_id = $10
	`, matchID, nm.Match.DataVersion, nm.Match.GameID, nm.Match.GameDatetime,
		nm.Match.GameLength, nm.Match.GameVersion, nm.Match.SetNumber,
		nm.Match.SetCoreName, nm.Match.GameType, nm.Match.QueueID)
	if err != nil {
		return err
	}

	for _, table := range []string{"participants", "traits", "units"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE match_id = $1", table), matchID); err != nil {
			return err
		}
	}

	for _, p := range nm.Participants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO participants (match_id, puuid, riot_id_game_name, riot_id_tagline,
				gold_left, last_round, level, placement, players_eliminated,
				time_eliminated, total_damage_to_players, win)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, p.MatchID, p.PUUID, p.RiotIDGameName, p.RiotIDTagline, p.GoldLeft,
			p.LastRound, p.Level, p.Placement, p.PlayersEliminated,
			p.TimeEliminated, p.TotalDamageToPlayers, p.Win)
		if err != nil {
			return err
		}
	}

	for _, t := range nm.Traits {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO traits (match_id, puuid, name, num_units, style, tier_current, tier_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, t.MatchID, t.PUUID, t.Name, t.NumUnits, t.Style, t.TierCurrent, t.TierTotal)
		if err != nil {
			return err
		}
	}

	for _, u := range nm.Units {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO units (match_id, puuid, character_id, name, chosen, item_names, rarity, tier)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, u.MatchID, u.PUUID, u.CharacterID, u.Name, u.Chosen, u.ItemNames, u.Rarity, u.Tier)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	ms.logger.Info("match_saved").
		Component("store").
		Operation("save_match").
		Match("", "", matchID).
		Meta("participants", len(nm.Participants)).
		Meta("traits", len(nm.Traits)).
		Meta("units", len(nm.Units)).
		Log()
	return nil
}

func (ms *MatchStore) HasMatch(ctx context.Context, matchID string) (bool, error) {
	if !ms.enabled {
		return false, nil
	}

	var exists bool
	err := ms.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = $1)", matchID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (ms *MatchStore) Stats(ctx context.Context) (map[string]int64, error) {
	stats := map[string]int64{}
	if !ms.enabled {
		return stats, nil
	}

	for _, table := range []string{"matches", "participants", "traits", "units"} {
		var count int64
		if err := ms.db.QueryRowContext(ctx,
			fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return nil, err
		}
		stats[table] = count
	}

	return stats, nil
}

func (ms *MatchStore) Close() {
	if ms.enabled && ms.db != nil {
		ms.db.Close()
	}
}
