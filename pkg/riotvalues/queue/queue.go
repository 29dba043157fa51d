package queuevalues

// Queue ids as used by the match_v5 endpoint.
const (
	RankedSoloDuo = 420
	RankedFlex    = 440
	NormalDraft   = 400
	NormalBlind   = 430
	Aram          = 450
)

// Names for logging and error messages.
var QueueNames = map[int]string{
	420: "Ranked Solo/Duo",
	440: "Ranked Flex",
	400: "Normal Draft",
	430: "Normal Blind",
	450: "ARAM",
}

// Name returns a human readable queue name.
func Name(queueId int) string {
	if name, ok := QueueNames[queueId]; ok {
		return name
	}
	return "Unknown"
}
