package matchfetcher

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnrecognizedFormatError means the document is neither a match_v5 payload
// nor a legacy client export. It's never silently coerced.
type UnrecognizedFormatError struct{}

func (e *UnrecognizedFormatError) Error() string {
	return "unrecognized match format: expected match_v5 or legacy client export"
}

// MalformedMatchError means the document parsed but violates the structural
// invariants of a standard game.
type MalformedMatchError struct {
	Reason string
}

func (e *MalformedMatchError) Error() string {
	return fmt.Sprintf("malformed match document: %s", e.Reason)
}

// Legacy client export shape. The identities and the per participant stats
// live in separate lists joined by the participant id.
type legacyMatch struct {
	GameId                int64            `json:"gameId"`
	GameCreation          RiotTime         `json:"gameCreation"`
	GameDuration          int              `json:"gameDuration"`
	QueueId               int              `json:"queueId"`
	ParticipantIdentities []legacyIdentity `json:"participantIdentities"`
	Participants          []legacyPlayer   `json:"participants"`
	Teams                 []legacyTeam     `json:"teams"`
}

type legacyIdentity struct {
	ParticipantId int `json:"participantId"`
	Player        struct {
		Puuid        string `json:"puuid"`
		GameName     string `json:"gameName"`
		TagLine      string `json:"tagLine"`
		SummonerName string `json:"summonerName"`
	} `json:"player"`
}

type legacyPlayer struct {
	ParticipantId int         `json:"participantId"`
	ChampionId    int         `json:"championId"`
	TeamId        int         `json:"teamId"`
	Spell1Id      int         `json:"spell1Id"`
	Spell2Id      int         `json:"spell2Id"`
	Stats         legacyStats `json:"stats"`
	Timeline      struct {
		Lane string `json:"lane"`
		Role string `json:"role"`
	} `json:"timeline"`
}

type legacyStats struct {
	Kills                       int      `json:"kills"`
	Deaths                      int      `json:"deaths"`
	Assists                     int      `json:"assists"`
	TotalMinionsKilled          int      `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int      `json:"neutralMinionsKilled"`
	GoldEarned                  int      `json:"goldEarned"`
	VisionScore                 int      `json:"visionScore"`
	TotalDamageDealtToChampions int      `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int      `json:"totalDamageTaken"`
	Item0                       int      `json:"item0"`
	Item1                       int      `json:"item1"`
	Item2                       int      `json:"item2"`
	Item3                       int      `json:"item3"`
	Item4                       int      `json:"item4"`
	Item5                       int      `json:"item5"`
	Item6                       int      `json:"item6"`
	Win                         flexBool `json:"win"`
	PentaKills                  int      `json:"pentaKills"`
}

type legacyTeam struct {
	TeamId int     `json:"teamId"`
	Win    teamWin `json:"win"`
	Bans   []Ban   `json:"bans"`
}

// Normalize converts a raw match document of unknown shape into the
// canonical representation. Normalizing a already canonical document is a
// no-op beyond the structural validation.
func Normalize(raw json.RawMessage) (*MatchData, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("couldn't parse the match document: %w", err)
	}

	// Modern shape, decodes directly into the canonical struct.
	if _, hasInfo := keys["info"]; hasInfo {
		var match MatchData
		if err := json.Unmarshal(raw, &match); err != nil {
			return nil, fmt.Errorf("couldn't parse the match_v5 document: %w", err)
		}

		for i := range match.Info.Teams {
			match.Info.Teams[i].Bans = filterBans(match.Info.Teams[i].Bans)
		}

		if err := validate(&match); err != nil {
			return nil, err
		}
		return &match, nil
	}

	_, hasIdentities := keys["participantIdentities"]
	_, hasParticipants := keys["participants"]
	if !hasIdentities || !hasParticipants {
		return nil, &UnrecognizedFormatError{}
	}

	var legacy legacyMatch
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("couldn't parse the legacy document: %w", err)
	}

	match := fromLegacy(&legacy)
	if err := validate(match); err != nil {
		return nil, err
	}
	return match, nil
}

// fromLegacy flattens the legacy shape onto the canonical one.
func fromLegacy(legacy *legacyMatch) *MatchData {
	// Identity lookup by participant id.
	identities := make(map[int]legacyIdentity, len(legacy.ParticipantIdentities))
	for _, identity := range legacy.ParticipantIdentities {
		identities[identity.ParticipantId] = identity
	}

	participants := make([]Participant, 0, len(legacy.Participants))
	for _, player := range legacy.Participants {
		identity := identities[player.ParticipantId]

		participants = append(participants, Participant{
			Puuid:          identity.Player.Puuid,
			RiotIdGameName: identity.Player.GameName,
			RiotIdTagline:  identity.Player.TagLine,
			SummonerName:   identity.Player.SummonerName,

			ChampionId:   player.ChampionId,
			TeamId:       player.TeamId,
			TeamPosition: laneRoleToPosition(player.Timeline.Lane, player.Timeline.Role),

			Kills:   player.Stats.Kills,
			Deaths:  player.Stats.Deaths,
			Assists: player.Stats.Assists,

			TotalMinionsKilled:   player.Stats.TotalMinionsKilled,
			NeutralMinionsKilled: player.Stats.NeutralMinionsKilled,
			GoldEarned:           player.Stats.GoldEarned,
			VisionScore:          player.Stats.VisionScore,

			TotalDamageDealtToChampions: player.Stats.TotalDamageDealtToChampions,
			TotalDamageTaken:            player.Stats.TotalDamageTaken,

			Summoner1Id: player.Spell1Id,
			Summoner2Id: player.Spell2Id,

			Item0: player.Stats.Item0,
			Item1: player.Stats.Item1,
			Item2: player.Stats.Item2,
			Item3: player.Stats.Item3,
			Item4: player.Stats.Item4,
			Item5: player.Stats.Item5,
			Item6: player.Stats.Item6,

			Win:        bool(player.Stats.Win),
			PentaKills: player.Stats.PentaKills,
		})
	}

	teams := make([]Team, 0, len(legacy.Teams))
	for _, team := range legacy.Teams {
		teams = append(teams, Team{
			TeamId: team.TeamId,
			Win:    bool(team.Win),
			Bans:   filterBans(team.Bans),
		})
	}

	return &MatchData{
		// Legacy exports carry no native match id.
		Metadata: MatchMetadata{MatchId: fmt.Sprintf("EUW1_%d", legacy.GameId)},
		Info: MatchInfo{
			GameCreation: legacy.GameCreation,
			GameDuration: legacy.GameDuration,
			QueueId:      legacy.QueueId,
			Participants: participants,
			Teams:        teams,
		},
	}
}

// laneRoleToPosition maps the legacy lane/role pair onto the match_v5
// teamPosition values.
func laneRoleToPosition(lane string, role string) string {
	lane = strings.ToUpper(strings.TrimSpace(lane))
	role = strings.ToUpper(strings.TrimSpace(role))

	switch lane {
	case "TOP":
		return "TOP"
	case "JUNGLE":
		return "JUNGLE"
	case "MIDDLE", "MID":
		return "MIDDLE"
	case "BOTTOM":
		if role == "SUPPORT" || role == "DUO_SUPPORT" {
			return "UTILITY"
		}
		return "BOTTOM"
	default:
		return "UNKNOWN"
	}
}

// filterBans drops the zero value entries riot uses for skipped bans.
func filterBans(bans []Ban) []Ban {
	filtered := make([]Ban, 0, len(bans))
	for _, ban := range bans {
		if ban.ChampionId > 0 {
			filtered = append(filtered, ban)
		}
	}
	return filtered
}

// validate enforces the structural invariants of a standard 5v5 game.
// A violating document is rejected, never padded or truncated.
func validate(match *MatchData) error {
	if count := len(match.Info.Participants); count != 10 {
		return &MalformedMatchError{Reason: fmt.Sprintf("expected 10 participants, found %d", count)}
	}
	if count := len(match.Info.Teams); count != 2 {
		return &MalformedMatchError{Reason: fmt.Sprintf("expected 2 teams, found %d", count)}
	}
	return nil
}
