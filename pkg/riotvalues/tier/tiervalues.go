package tiervalues

import (
	"slices"
	"strings"
)

// Each tier spans 4 divisions of 100 LP.
const tierStep = 400

var tierOrdinals = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

// Division IV is the lowest, I the highest.
var divisionOrdinals = map[string]int{
	"IV":  0,
	"III": 1,
	"II":  2,
	"I":   3,
}

var apexTiers = []string{"MASTER", "GRANDMASTER", "CHALLENGER"}

// CalculateRank converts a tier/division/lp triple into a single comparable
// value. Apex tiers carry no division and are ranked purely by LP on top of
// the tier offset, so DIAMOND I 99 LP still sits below MASTER 0 LP.
func CalculateRank(tier string, division *string, lp int) int {
	tier = strings.ToUpper(strings.TrimSpace(tier))

	ordinal, exists := tierOrdinals[tier]
	if !exists {
		return 0
	}

	base := ordinal * tierStep

	// No division value for the apex tiers.
	if IsApex(tier) || division == nil {
		return base + lp
	}

	divisionValue := divisionOrdinals[strings.ToUpper(strings.TrimSpace(*division))] * 100
	return base + divisionValue + lp
}

// IsApex reports whether the tier uses the single undivided ladder.
func IsApex(tier string) bool {
	return slices.Contains(apexTiers, strings.ToUpper(strings.TrimSpace(tier)))
}
