package internal

// Account is the response of both account endpoints. PUUID is the stable
// unique key for a player across games and regions.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// ActiveShard is the answer of the region-by-game lookup. The provider sends
// the shard under the activeShard JSON key; Region is the canonical name in
// this codebase and activeShard is only the wire-level alias.
type ActiveShard struct {
	PUUID  string `json:"puuid"`
	Game   string `json:"game"`
	Region string `json:"activeShard"`
}

type Summoner struct {
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Match is the raw nested document of the match-detail endpoint.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	DataVersion  string   `json:"data_version"`
	MatchID      string   `json:"match_id"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	EndOfGameResult string        `json:"endOfGameResult,omitempty"`
	GameID          int64         `json:"gameId"`
	GameDatetime    int64         `json:"game_datetime"`
	GameLength      float64       `json:"game_length"`
	GameVersion     string        `json:"game_version"`
	QueueID         int           `json:"queue_id"`
	TFTGameType     string        `json:"tft_game_type"`
	TFTSetCoreName  string        `json:"tft_set_core_name"`
	TFTSetNumber    int           `json:"tft_set_number"`
	Participants    []Participant `json:"participants"`
}

type Participant struct {
	PUUID                string             `json:"puuid"`
	RiotIDGameName       string             `json:"riotIdGameName,omitempty"`
	RiotIDTagline        string             `json:"riotIdTagline,omitempty"`
	GoldLeft             int                `json:"gold_left"`
	LastRound            int                `json:"last_round"`
	Level                int                `json:"level"`
	Placement            int                `json:"placement"`
	PlayersEliminated    int                `json:"players_eliminated"`
	TimeEliminated       float64            `json:"time_eliminated"`
	TotalDamageToPlayers int                `json:"total_damage_to_players"`
	Win                  bool               `json:"win"`
	Companion            Companion          `json:"companion"`
	Missions             map[string]float64 `json:"missions,omitempty"`
	Traits               []Trait            `json:"traits"`
	Units                []Unit             `json:"units"`
}

type Companion struct {
	ContentID string `json:"content_ID"`
	ItemID    int    `json:"item_ID"`
	SkinID    int    `json:"skin_ID"`
	Species   string `json:"species"`
}

type Trait struct {
	Name        string `json:"name"`
	NumUnits    int    `json:"num_units"`
	Style       int    `json:"style"`
	TierCurrent int    `json:"tier_current"`
	TierTotal   int    `json:"tier_total"`
}

type Unit struct {
	CharacterID string   `json:"character_id"`
	ItemNames   []string `json:"itemNames"`
	Chosen      string   `json:"chosen,omitempty"`
	Name        string   `json:"name"`
	Rarity      int      `json:"rarity"`
	Tier        int      `json:"tier"`
}

// Flattened row types. The source nesting carries match and player identity
// implicitly through position; these rows carry them explicitly as the
// match_id and puuid foreign keys.

type MatchRow struct {
	MatchID      string  `json:"match_id"`
	DataVersion  string  `json:"data_version"`
	GameID       int64   `json:"game_id"`
	GameDatetime int64   `json:"game_datetime"`
	GameLength   float64 `json:"game_length"`
	GameVersion  string  `json:"game_version"`
	SetNumber    int     `json:"set_number"`
	SetCoreName  string  `json:"set_core_name"`
	GameType     string  `json:"game_type"`
	QueueID      int     `json:"queue_id"`
}

type ParticipantRow struct {
	MatchID              string  `json:"match_id"`
	PUUID                string  `json:"puuid"`
	RiotIDGameName       string  `json:"riot_id_game_name"`
	RiotIDTagline        string  `json:"riot_id_tagline"`
	GoldLeft             int     `json:"gold_left"`
	LastRound            int     `json:"last_round"`
	Level                int     `json:"level"`
	Placement            int     `json:"placement"`
	PlayersEliminated    int     `json:"players_eliminated"`
	TimeEliminated       float64 `json:"time_eliminated"`
	TotalDamageToPlayers int     `json:"total_damage_to_players"`
	Win                  bool    `json:"win"`
}

type TraitRow struct {
	MatchID     string `json:"match_id"`
	PUUID       string `json:"puuid"`
	Name        string `json:"name"`
	NumUnits    int    `json:"num_units"`
	Style       int    `json:"style"`
	TierCurrent int    `json:"tier_current"`
	TierTotal   int    `json:"tier_total"`
}

type UnitRow struct {
	MatchID     string `json:"match_id"`
	PUUID       string `json:"puuid"`
	CharacterID string `json:"character_id"`
	Name        string `json:"name"`
	Chosen      string `json:"chosen"`
	ItemNames   string `json:"item_names"`
	Rarity      int    `json:"rarity"`
	Tier        int    `json:"tier"`
}

// NormalizedMatch holds the four related record sets produced from one match
// document. The collections are independently sized and related only through
// the match_id/puuid keys, never by row position.
type NormalizedMatch struct {
	Match        MatchRow         `json:"match"`
	Participants []ParticipantRow `json:"participants"`
	Traits       []TraitRow       `json:"traits"`
	Units        []UnitRow        `json:"units"`
}

// MatchIngestTask is published to NATS to request background ingestion of a
// single match into Postgres.
type MatchIngestTask struct {
	MatchID string `json:"matchId"`
	Region  string `json:"region"`
}
