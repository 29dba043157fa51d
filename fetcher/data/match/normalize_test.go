package matchfetcher

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildModernDocument builds a minimal but complete match_v5 document.
func buildModernDocument(queueId int, participants int, teams int) map[string]any {
	participantList := make([]map[string]any, 0, participants)
	for i := 0; i < participants; i++ {
		teamId := 100
		if i >= 5 {
			teamId = 200
		}
		participantList = append(participantList, map[string]any{
			"puuid":              fmt.Sprintf("puuid-%d", i+1),
			"riotIdGameName":     fmt.Sprintf("Player%d", i+1),
			"riotIdTagline":      "EUW",
			"championId":         i + 1,
			"teamId":             teamId,
			"teamPosition":       "MIDDLE",
			"kills":              3,
			"deaths":             2,
			"assists":            5,
			"totalMinionsKilled": 150,
			"goldEarned":         9000,
			"visionScore":        20,
			"win":                teamId == 100,
		})
	}

	teamList := make([]map[string]any, 0, teams)
	for i := 0; i < teams; i++ {
		teamList = append(teamList, map[string]any{
			"teamId": 100 * (i + 1),
			"win":    i == 0,
			"bans": []map[string]any{
				{"championId": 10, "pickTurn": 1},
				{"championId": -1, "pickTurn": 2},
			},
		})
	}

	return map[string]any{
		"metadata": map[string]any{"matchId": "EUW1_1000"},
		"info": map[string]any{
			"gameCreation": 1767960000000,
			"gameDuration": 2100,
			"queueId":      queueId,
			"participants": participantList,
			"teams":        teamList,
		},
	}
}

// buildLegacyDocument builds the equivalent legacy client export.
func buildLegacyDocument() map[string]any {
	identities := make([]map[string]any, 0, 10)
	players := make([]map[string]any, 0, 10)

	for i := 0; i < 10; i++ {
		teamId := 100
		if i >= 5 {
			teamId = 200
		}
		identities = append(identities, map[string]any{
			"participantId": i + 1,
			"player": map[string]any{
				"puuid":    fmt.Sprintf("puuid-%d", i+1),
				"gameName": fmt.Sprintf("Player%d", i+1),
				"tagLine":  "EUW",
			},
		})
		players = append(players, map[string]any{
			"participantId": i + 1,
			"championId":    i + 1,
			"teamId":        teamId,
			"stats": map[string]any{
				"kills":              3,
				"deaths":             2,
				"assists":            5,
				"totalMinionsKilled": 150,
				"goldEarned":         9000,
				"visionScore":        20,
				"win":                teamId == 100,
			},
			"timeline": map[string]any{"lane": "MID", "role": "SOLO"},
		})
	}

	return map[string]any{
		"gameId":       1000,
		"gameCreation": 1767960000000,
		"gameDuration": 2100,
		"queueId":      420,
		"participantIdentities": identities,
		"participants":          players,
		"teams": []map[string]any{
			{"teamId": 100, "win": "Win", "bans": []map[string]any{
				{"championId": 10, "pickTurn": 1},
				{"championId": -1, "pickTurn": 2},
			}},
			{"teamId": 200, "win": "Fail", "bans": []map[string]any{
				{"championId": 10, "pickTurn": 1},
				{"championId": -1, "pickTurn": 2},
			}},
		},
	}
}

func marshal(t *testing.T, doc any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

func TestNormalizeModernDocument(t *testing.T) {
	raw := marshal(t, buildModernDocument(420, 10, 2))

	match, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "EUW1_1000", match.Metadata.MatchId)
	assert.Equal(t, 420, match.Info.QueueId)
	assert.Equal(t, 2100, match.Info.GameDuration)
	assert.Len(t, match.Info.Participants, 10)
	assert.Len(t, match.Info.Teams, 2)

	// Zero value bans are dropped.
	require.Len(t, match.Info.Teams[0].Bans, 1)
	assert.Equal(t, 10, match.Info.Teams[0].Bans[0].ChampionId)
}

func TestNormalizeLegacyEqualsModern(t *testing.T) {
	modern, err := Normalize(marshal(t, buildModernDocument(420, 10, 2)))
	require.NoError(t, err)

	legacy, err := Normalize(marshal(t, buildLegacyDocument()))
	require.NoError(t, err)

	// The same game described in both shapes normalizes identically.
	assert.Equal(t, modern, legacy)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first, err := Normalize(marshal(t, buildLegacyDocument()))
	require.NoError(t, err)

	// Feed the canonical output back through the normalizer.
	second, err := Normalize(marshal(t, first))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeLegacyMatchIdSynthesis(t *testing.T) {
	match, err := Normalize(marshal(t, buildLegacyDocument()))
	require.NoError(t, err)

	assert.Equal(t, "EUW1_1000", match.Metadata.MatchId)
}

func TestNormalizeStructuralInvariants(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		teams        int
	}{
		{name: "tooFewParticipants", participants: 8, teams: 2},
		{name: "tooManyParticipants", participants: 12, teams: 2},
		{name: "wrongTeamCount", participants: 10, teams: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := marshal(t, buildModernDocument(420, tt.participants, tt.teams))

			_, err := Normalize(raw)

			var malformed *MalformedMatchError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestNormalizeUnrecognizedFormat(t *testing.T) {
	_, err := Normalize(json.RawMessage(`{"something":"else"}`))

	var unrecognized *UnrecognizedFormatError
	require.ErrorAs(t, err, &unrecognized)
}

func TestNormalizeLegacyWinStringCoercion(t *testing.T) {
	doc := buildLegacyDocument()
	players := doc["participants"].([]map[string]any)
	players[0]["stats"].(map[string]any)["win"] = "true"
	players[5]["stats"].(map[string]any)["win"] = "false"

	match, err := Normalize(marshal(t, doc))
	require.NoError(t, err)

	assert.True(t, match.Info.Participants[0].Win)
	assert.False(t, match.Info.Participants[5].Win)

	// Team wins come from the "Win"/"Fail" strings.
	assert.True(t, match.Info.Teams[0].Win)
	assert.False(t, match.Info.Teams[1].Win)
}

func TestLaneRoleToPosition(t *testing.T) {
	tests := []struct {
		lane     string
		role     string
		expected string
	}{
		{lane: "TOP", role: "SOLO", expected: "TOP"},
		{lane: "JUNGLE", role: "NONE", expected: "JUNGLE"},
		{lane: "MIDDLE", role: "SOLO", expected: "MIDDLE"},
		{lane: "MID", role: "SOLO", expected: "MIDDLE"},
		{lane: "BOTTOM", role: "CARRY", expected: "BOTTOM"},
		{lane: "BOTTOM", role: "SUPPORT", expected: "UTILITY"},
		{lane: "BOTTOM", role: "DUO_SUPPORT", expected: "UTILITY"},
		{lane: "BOTTOM", role: "DUO", expected: "BOTTOM"},
		{lane: "", role: "", expected: "UNKNOWN"},
		{lane: "AFK", role: "NONE", expected: "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.lane+"_"+tt.role, func(t *testing.T) {
			assert.Equal(t, tt.expected, laneRoleToPosition(tt.lane, tt.role))
		})
	}
}
