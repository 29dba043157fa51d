package metrics

import (
	"math"

	matchfetcher "coachstats/fetcher/data/match"
)

// GameMetrics is the per game performance bundle derived at ingestion time.
// The values are frozen into the stored record and never recomputed.
type GameMetrics struct {
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	Kda float64 `json:"kda"`

	Cs       int     `json:"cs"`
	CsPerMin float64 `json:"cs_per_min"`

	Gold       int     `json:"gold"`
	GoldPerMin float64 `json:"gold_per_min"`

	Vision       int     `json:"vision"`
	VisionPerMin float64 `json:"vision_per_min"`

	KillParticipation float64 `json:"kp"`

	Win bool `json:"win"`
}

// Compute derives the rate and ratio statistics for one participant.
// teamKills is the kill total of the participant's team in this match.
func Compute(participant *matchfetcher.Participant, durationSeconds int, teamKills int) GameMetrics {
	durationMinutes := float64(durationSeconds) / 60

	kills := participant.Kills
	deaths := participant.Deaths
	assists := participant.Assists

	// Zero deaths is a perfect KDA, not a division error.
	kda := float64(kills + assists)
	if deaths > 0 {
		kda = float64(kills+assists) / float64(deaths)
	}

	cs := participant.CS()

	var csPerMin, goldPerMin, visionPerMin float64
	if durationMinutes > 0 {
		csPerMin = float64(cs) / durationMinutes
		goldPerMin = float64(participant.GoldEarned) / durationMinutes
		visionPerMin = float64(participant.VisionScore) / durationMinutes
	}

	var killParticipation float64
	if teamKills > 0 {
		killParticipation = float64(kills+assists) / float64(teamKills) * 100
	}

	return GameMetrics{
		Kills:   kills,
		Deaths:  deaths,
		Assists: assists,

		Kda: round2(kda),

		Cs:       cs,
		CsPerMin: round2(csPerMin),

		Gold:       participant.GoldEarned,
		GoldPerMin: round2(goldPerMin),

		Vision:       participant.VisionScore,
		VisionPerMin: round2(visionPerMin),

		KillParticipation: round2(killParticipation),

		Win: participant.Win,
	}
}

// TeamKills sums the kills of every participant on the given team.
func TeamKills(participants []matchfetcher.Participant, teamId int) int {
	total := 0
	for i := range participants {
		if participants[i].TeamId == teamId {
			total += participants[i].Kills
		}
	}
	return total
}

// round2 rounds to two decimal places before storage.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
