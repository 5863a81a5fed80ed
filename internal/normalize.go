package internal

import "strings"

// itemSeparator collapses a unit's item-name list into one flat string field.
const itemSeparator = ","

// NormalizeMatch flattens one nested match document into four related record
// sets: one match row, one participant row per player, and one row per trait
// and per unit owned by each player. Participant order follows the source
// document. A participant with no traits or no units contributes nothing to
// those collections.
func NormalizeMatch(m *Match) *NormalizedMatch {
	matchID := m.Metadata.MatchID

	out := &NormalizedMatch{
		Match: MatchRow{
			MatchID:      matchID,
			DataVersion:  m.Metadata.DataVersion,
			GameID:       m.Info.GameID,
			GameDatetime: m.Info.GameDatetime,
			GameLength:   m.Info.GameLength,
			GameVersion:  m.Info.GameVersion,
			SetNumber:    m.Info.TFTSetNumber,
			SetCoreName:  m.Info.TFTSetCoreName,
			GameType:     m.Info.TFTGameType,
			QueueID:      m.Info.QueueID,
		},
		Participants: make([]ParticipantRow, 0, len(m.Info.Participants)),
		Traits:       make([]TraitRow, 0),
		Units:        make([]UnitRow, 0),
	}

	for _, p := range m.Info.Participants {
		out.Participants = append(out.Participants, ParticipantRow{
			MatchID:              matchID,
			PUUID:                p.PUUID,
			RiotIDGameName:       p.RiotIDGameName,
			RiotIDTagline:        p.RiotIDTagline,
			GoldLeft:             p.GoldLeft,
			LastRound:            p.LastRound,
			Level:                p.Level,
			Placement:            p.Placement,
			PlayersEliminated:    p.PlayersEliminated,
			TimeEliminated:       p.TimeEliminated,
			TotalDamageToPlayers: p.TotalDamageToPlayers,
			Win:                  p.Win,
		})

		for _, tr := range p.Traits {
			out.Traits = append(out.Traits, TraitRow{
				MatchID:     matchID,
				PUUID:       p.PUUID,
				Name:        tr.Name,
				NumUnits:    tr.NumUnits,
				Style:       tr.Style,
				TierCurrent: tr.TierCurrent,
				TierTotal:   tr.TierTotal,
			})
		}

		for _, u := range p.Units {
			out.Units = append(out.Units, UnitRow{
				MatchID:     matchID,
				PUUID:       p.PUUID,
				CharacterID: u.CharacterID,
				Name:        u.Name,
				Chosen:      u.Chosen,
				ItemNames:   strings.Join(u.ItemNames, itemSeparator),
				Rarity:      u.Rarity,
				Tier:        u.Tier,
			})
		}
	}

	return out
}
