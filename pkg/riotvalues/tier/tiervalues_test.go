package tiervalues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func division(d string) *string {
	return &d
}

func TestCalculateRankOrdering(t *testing.T) {
	diamondOne := CalculateRank("DIAMOND", division("I"), 99)
	masterZero := CalculateRank("MASTER", nil, 0)
	challenger := CalculateRank("CHALLENGER", nil, 500)

	// The apex boundary must hold: DIAMOND I 99 < MASTER 0 < CHALLENGER 500.
	assert.Less(t, diamondOne, masterZero)
	assert.Less(t, masterZero, challenger)
}

func TestCalculateRankDivisions(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		division *string
		lp       int
		expected int
	}{
		{name: "ironFourZero", tier: "IRON", division: division("IV"), lp: 0, expected: 0},
		{name: "ironThree", tier: "IRON", division: division("III"), lp: 50, expected: 150},
		{name: "goldTwo", tier: "GOLD", division: division("II"), lp: 20, expected: 3*400 + 200 + 20},
		{name: "diamondOne", tier: "DIAMOND", division: division("I"), lp: 99, expected: 6*400 + 300 + 99},
		{name: "masterNoDivision", tier: "MASTER", division: nil, lp: 150, expected: 7*400 + 150},
		{name: "grandmaster", tier: "GRANDMASTER", division: nil, lp: 0, expected: 8 * 400},
		{name: "lowercaseInput", tier: "emerald", division: division("iv"), lp: 10, expected: 5*400 + 10},
		{name: "unknownTier", tier: "WOOD", division: division("IV"), lp: 50, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateRank(tt.tier, tt.division, tt.lp))
		})
	}
}

func TestCalculateRankApexIgnoresDivision(t *testing.T) {
	// A stray division on a apex tier must not change the value.
	withDivision := CalculateRank("MASTER", division("I"), 10)
	withoutDivision := CalculateRank("MASTER", nil, 10)

	assert.Equal(t, withoutDivision, withDivision)
}

func TestIsApex(t *testing.T) {
	assert.True(t, IsApex("MASTER"))
	assert.True(t, IsApex("grandmaster"))
	assert.True(t, IsApex("CHALLENGER"))
	assert.False(t, IsApex("DIAMOND"))
}
