package qualify

import (
	"testing"

	"ironman-results/lib/ironman"

	"github.com/stretchr/testify/require"
)

func TestAllocateFromTotals(t *testing.T) {
	var results []ironman.RaceResult
	results = append(results, finishers("M25-29", 2)...)
	results = append(results, dnf("M25-29", "dnf"))
	results = append(results, finishers("M30-34", 5)...)
	results = append(results, dns("M35-39", "never started"))
	results = append(results, finishers("F30-34", 2)...)
	results = append(results, finishers("MPRO", 10)...)

	ageGroups := []string{"M25-29", "M30-34", "M35-39", "F30-34", "F35-39"}
	allocation := AllocateFromTotals(results, Totals{"M": 10, "F": 0}, ageGroups)

	require.Equal(t, Allocation{
		"M25-29": {Starters: 3, Slots: 4},
		"M30-34": {Starters: 5, Slots: 6},
		"M35-39": {Starters: 0, Slots: 0},
		"F30-34": {Starters: 2, Slots: 1},
		"F35-39": {Starters: 0, Slots: 0},
	}, allocation)
}

func TestAllocateFromTotalsRemainder(t *testing.T) {
	var results []ironman.RaceResult
	results = append(results, finishers("F40-44", 1)...)
	results = append(results, finishers("F45-49", 1)...)
	results = append(results, finishers("F50-54", 1)...)

	// 2 slots left after the baseline, all remainders are equal
	allocation := AllocateFromTotals(results, Totals{"F": 5}, []string{"F40-44", "F45-49", "F50-54"})
	require.Equal(t, 2, allocation["F40-44"].Slots)
	require.Equal(t, 2, allocation["F45-49"].Slots)
	require.Equal(t, 1, allocation["F50-54"].Slots)
	require.Equal(t, 5, allocation.Total())
}

func TestFilterAgeGroups(t *testing.T) {
	results := append(finishers("MPRO", 2), finishers("M40-44", 3)...)
	filtered := FilterAgeGroups(results, ironman.DefaultAgeGroups)
	require.Len(t, filtered, 3)
	for _, r := range filtered {
		require.Equal(t, "M40-44", r.AgeGroup)
	}
}
