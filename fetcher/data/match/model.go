package matchfetcher

import (
	"encoding/json"
	"strings"
	"time"
)

// RiotTime handles the conversion of the int timestamps from riot.
type RiotTime time.Time

// UnmarshalJSON converts the millisecond epoch into a time.Time.
func (rt *RiotTime) UnmarshalJSON(b []byte) error {
	var timestamp int64
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}

	*rt = RiotTime(time.UnixMilli(timestamp))
	return nil
}

// MarshalJSON writes the timestamp back as millisecond epoch.
func (rt RiotTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(rt).UnixMilli())
}

// Time returns the true time.
func (rt RiotTime) Time() time.Time {
	return time.Time(rt)
}

// MatchData is the canonical match representation.
// The JSON tags mirror the match_v5 endpoint, so a modern document decodes
// straight into it.
type MatchData struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// MatchMetadata only carries the match id.
type MatchMetadata struct {
	MatchId string `json:"matchId"`
}

// MatchInfo is the inner match information.
type MatchInfo struct {
	GameCreation RiotTime      `json:"gameCreation"`
	GameDuration int           `json:"gameDuration"`
	QueueId      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
	Teams        []Team        `json:"teams"`
}

// Participant is one player's line in the match.
type Participant struct {
	Puuid          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	SummonerName   string `json:"summonerName"`

	ChampionId   int    `json:"championId"`
	TeamId       int    `json:"teamId"`
	TeamPosition string `json:"teamPosition"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`
	VisionScore          int `json:"visionScore"`

	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`

	Summoner1Id int `json:"summoner1Id"`
	Summoner2Id int `json:"summoner2Id"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"`

	Win        bool `json:"win"`
	PentaKills int  `json:"pentaKills"`
}

// DisplayName prefers the riot id over the old summoner name.
func (p *Participant) DisplayName() string {
	if p.RiotIdGameName != "" {
		return p.RiotIdGameName
	}
	if p.SummonerName != "" {
		return p.SummonerName
	}
	return "Unknown"
}

// CS is the total creep score, minions plus jungle camps.
func (p *Participant) CS() int {
	return p.TotalMinionsKilled + p.NeutralMinionsKilled
}

// Team is one side of the match.
type Team struct {
	TeamId int   `json:"teamId"`
	Win    bool  `json:"win"`
	Bans   []Ban `json:"bans"`
}

// Ban is a single banned champion.
type Ban struct {
	ChampionId int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

// flexBool accepts a JSON boolean or the strings "true"/"false".
// Old exports are inconsistent about which one they carry.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		*f = flexBool(asBool)
		return nil
	}

	var asString string
	if err := json.Unmarshal(b, &asString); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(asString, "true"))
	return nil
}

// teamWin accepts a JSON boolean or the strings "Win"/"Fail".
type teamWin bool

func (t *teamWin) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		*t = teamWin(asBool)
		return nil
	}

	var asString string
	if err := json.Unmarshal(b, &asString); err != nil {
		return err
	}
	*t = teamWin(strings.EqualFold(asString, "win"))
	return nil
}
