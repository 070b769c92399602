package qualify

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"ironman-results/lib/ironman"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func finisher(ageGroup string, rank int) ironman.RaceResult {
	return ironman.RaceResult{
		Name:         fmt.Sprintf("%s #%d", ageGroup, rank),
		AgeGroup:     ageGroup,
		Status:       ironman.StatusFinished,
		AgeGroupRank: rank,
	}
}

func dnf(ageGroup, name string) ironman.RaceResult {
	return ironman.RaceResult{
		Name:     name,
		AgeGroup: ageGroup,
		Status:   ironman.StatusDidNotFinish,
	}
}

func dns(ageGroup, name string) ironman.RaceResult {
	return ironman.RaceResult{
		Name:     name,
		AgeGroup: ageGroup,
		Status:   ironman.StatusDidNotStart,
	}
}

func finishers(ageGroup string, n int) []ironman.RaceResult {
	out := make([]ironman.RaceResult, n)
	for i := range out {
		out[i] = finisher(ageGroup, i+1)
	}
	return out
}

func names(results []ironman.RaceResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func mustGroup(t testing.TB, o Outcome, ageGroup string) Group {
	g, ok := o.Group(ageGroup)
	if !ok {
		t.Fatalf("age group %s missing from outcome", ageGroup)
	}
	return g
}

func TestRedistributeScenario(t *testing.T) {
	var results []ironman.RaceResult
	results = append(results, finishers("M25-29", 2)...)
	results = append(results, dnf("M25-29", "dnf athlete"))
	results = append(results, finishers("M30-34", 5)...)
	results = append(results, dnf("M35-39", "another dnf"))

	outcome, err := AllocateAndQualify(results, Allocation{
		"M25-29": {Starters: 3, Slots: 1},
		"M30-34": {Starters: 5, Slots: 2},
		"M35-39": {Starters: 1, Slots: 1},
	}, Options{})
	require.NoError(t, err)

	m25 := mustGroup(t, outcome, "M25-29")
	m30 := mustGroup(t, outcome, "M30-34")
	m35 := mustGroup(t, outcome, "M35-39")

	require.Equal(t, 1, m25.Final)
	require.Equal(t, 0, m25.Received)
	require.Equal(t, 3, m30.Final)
	require.Equal(t, 1, m30.Received)
	require.Equal(t, 0, m35.Final)
	require.Equal(t, 1, m35.Released)

	require.Equal(t, []string{"M25-29 #1"}, names(m25.Qualifiers))
	require.Equal(t, []string{"M30-34 #1", "M30-34 #2", "M30-34 #3"}, names(m30.Qualifiers))
	require.Empty(t, m35.Qualifiers)
	require.Equal(t, 0, m35.Unused)
	require.Equal(t, 4, outcome.QualifierCount())
}

func TestMissingAllocation(t *testing.T) {
	results := append(finishers("M30-34", 2), finisher("F40-44", 1))

	_, err := AllocateAndQualify(results, Allocation{
		"M30-34": {Slots: 1},
	}, Options{})

	var missing *MissingAllocationError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "F40-44", missing.AgeGroup)
}

func TestInvalidRanks(t *testing.T) {
	testCases := []struct {
		name  string
		ranks []int
	}{
		{name: "gap", ranks: []int{1, 2, 4}},
		{name: "duplicate", ranks: []int{1, 1, 2}},
		{name: "not starting at one", ranks: []int{2, 3}},
		{name: "missing rank", ranks: []int{ironman.NoRank, 1}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var results []ironman.RaceResult
			for _, r := range test.ranks {
				results = append(results, finisher("F30-34", r))
			}
			_, err := AllocateAndQualify(results, Allocation{"F30-34": {Slots: 2}}, Options{})

			var invalid *InvalidRankError
			require.True(t, errors.As(err, &invalid), "expected InvalidRankError, got %v", err)
			require.Equal(t, "F30-34", invalid.AgeGroup)
			require.Len(t, invalid.Ranks, len(test.ranks))
		})
	}
}

func TestRanksOutOfInputOrder(t *testing.T) {
	results := []ironman.RaceResult{
		finisher("F30-34", 3),
		finisher("F30-34", 1),
		dnf("F30-34", "dnf"),
		finisher("F30-34", 2),
	}
	outcome, err := AllocateAndQualify(results, Allocation{"F30-34": {Slots: 2}}, Options{})
	require.NoError(t, err)

	g := mustGroup(t, outcome, "F30-34")
	require.Equal(t, []string{"F30-34 #1", "F30-34 #2"}, names(g.Qualifiers))
	require.Equal(t, 4, g.Starters)
	require.Equal(t, 3, g.Finishers)
}

func TestBaselineSlot(t *testing.T) {
	results := append(finishers("F70-74", 1), finishers("F30-34", 3)...)
	results = append(results, dns("F75-79", "no show"))

	outcome, err := AllocateAndQualify(results, Allocation{
		"F30-34": {Slots: 2},
		"F70-74": {Slots: 0},
		"F75-79": {Slots: 0},
	}, Options{})
	require.NoError(t, err)

	f70 := mustGroup(t, outcome, "F70-74")
	require.Equal(t, 0, f70.Allocated)
	require.Equal(t, 1, f70.Baseline)
	require.Equal(t, 1, f70.Final)
	require.Len(t, f70.Qualifiers, 1)

	// only non-starters, so no baseline slot
	f75 := mustGroup(t, outcome, "F75-79")
	require.Equal(t, 0, f75.Baseline)
	require.Equal(t, 0, f75.Final)
}

func TestUnusedSlots(t *testing.T) {
	results := finishers("M60-64", 2)
	outcome, err := AllocateAndQualify(results, Allocation{"M60-64": {Slots: 5}}, Options{})
	require.NoError(t, err)

	g := mustGroup(t, outcome, "M60-64")
	require.Len(t, g.Qualifiers, 2)
	require.Equal(t, 3, g.Unused)
	require.Equal(t, map[string]int{"M60-64": 3}, outcome.Unused())
}

func TestNoRecipients(t *testing.T) {
	results := []ironman.RaceResult{dnf("M80-84", "a"), dnf("M80-84", "b")}
	outcome, err := AllocateAndQualify(results, Allocation{
		"M80-84": {Slots: 1},
		"M85-89": {Slots: 1},
	}, Options{})
	require.NoError(t, err)

	for _, ag := range []string{"M80-84", "M85-89"} {
		g := mustGroup(t, outcome, ag)
		require.Empty(t, g.Qualifiers)
		require.Equal(t, 0, g.Released)
		require.Equal(t, 1, g.Final)
		require.Equal(t, 1, g.Unused)
	}
}

func TestDNFOnlyGroupWithoutSlots(t *testing.T) {
	results := append(finishers("M30-34", 5), dnf("M35-39", "only starter"))
	outcome, err := AllocateAndQualify(results, Allocation{
		"M30-34": {Slots: 2},
		"M35-39": {Slots: 0},
	}, Options{})
	require.NoError(t, err)

	m35 := mustGroup(t, outcome, "M35-39")
	require.Equal(t, 1, m35.Baseline)
	require.Equal(t, 0, m35.Released)
	require.Equal(t, 1, m35.Final)
	require.Equal(t, 1, m35.Unused)
	require.Empty(t, m35.Qualifiers)

	m30 := mustGroup(t, outcome, "M30-34")
	require.Equal(t, 0, m30.Received)
	require.Equal(t, 2, m30.Final)
	require.Equal(t, []string{"M30-34 #1", "M30-34 #2"}, names(m30.Qualifiers))

	require.Equal(t, 2, outcome.QualifierCount())
	require.Equal(t, 3, outcome.FinalSlots())
	require.Equal(t, map[string]int{"M30-34": 0, "M35-39": 1}, outcome.Unused())
}

func TestAllocationOnlyGroupReleases(t *testing.T) {
	results := finishers("M40-44", 4)
	outcome, err := AllocateAndQualify(results, Allocation{
		"M40-44": {Slots: 1},
		"M45-49": {Slots: 2},
	}, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, mustGroup(t, outcome, "M45-49").Released)
	require.Equal(t, 3, mustGroup(t, outcome, "M40-44").Final)
	require.Len(t, mustGroup(t, outcome, "M40-44").Qualifiers, 3)
}

func TestRemainderTies(t *testing.T) {
	testCases := []struct {
		name     string
		m25Slots int
		m30Slots int
		winner   string
	}{
		{name: "larger allocation first", m25Slots: 1, m30Slots: 2, winner: "M30-34"},
		{name: "identifier ascending", m25Slots: 1, m30Slots: 1, winner: "M25-29"},
		// both start the pass with one slot, the allocation table decides
		{name: "baseline slot does not count", m25Slots: 0, m30Slots: 1, winner: "M30-34"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			results := append(finishers("M25-29", 3), finishers("M30-34", 3)...)
			outcome, err := AllocateAndQualify(results, Allocation{
				"M25-29": {Slots: test.m25Slots},
				"M30-34": {Slots: test.m30Slots},
				"M40-44": {Slots: 1},
			}, Options{})
			require.NoError(t, err)
			require.Equal(t, 1, mustGroup(t, outcome, test.winner).Received)
		})
	}
}

func TestSplitByDivision(t *testing.T) {
	results := append(finishers("M30-34", 3), finishers("F30-34", 30)...)
	allocation := Allocation{
		"M30-34": {Slots: 1},
		"M35-39": {Slots: 2},
		"F30-34": {Slots: 1},
	}

	split, err := AllocateAndQualify(results, allocation, Options{SplitByDivision: true})
	require.NoError(t, err)
	require.Equal(t, 2, mustGroup(t, split, "M30-34").Received)
	require.Equal(t, 0, mustGroup(t, split, "F30-34").Received)

	pooled, err := AllocateAndQualify(results, allocation, Options{})
	require.NoError(t, err)
	require.Equal(t, 0, mustGroup(t, pooled, "M30-34").Received)
	require.Equal(t, 2, mustGroup(t, pooled, "F30-34").Received)
}

func randomRace(rng *rand.Rand) ([]ironman.RaceResult, Allocation) {
	var results []ironman.RaceResult
	allocation := Allocation{}
	for _, ag := range ironman.DefaultAgeGroups {
		fin := rng.Intn(6)
		if rng.Intn(4) == 0 {
			fin = 0
		}
		results = append(results, finishers(ag, fin)...)
		for i := 0; i < rng.Intn(3); i++ {
			results = append(results, dnf(ag, fmt.Sprintf("%s dnf %d", ag, i)))
		}
		allocation[ag] = GroupSlots{Slots: rng.Intn(4)}
	}
	rng.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})
	return results, allocation
}

func poolKey(ageGroup string, opts Options) string {
	if !opts.SplitByDivision {
		return ""
	}
	return ironman.Division(ageGroup)
}

func TestProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		results, allocation := randomRace(rng)
		split := i%2 == 0
		opts := Options{SplitByDivision: split}

		outcome, err := AllocateAndQualify(results, allocation, opts)
		require.NoError(t, err)

		again, err := AllocateAndQualify(results, allocation, opts)
		require.NoError(t, err)
		if diff := cmp.Diff(outcome, again); diff != "" {
			t.Fatalf("outcome is not deterministic (-first +second):\n%s", diff)
		}

		require.LessOrEqual(t, outcome.QualifierCount(), outcome.FinalSlots())

		hasRecipients := make(map[string]bool)
		for _, g := range outcome.Groups {
			if g.Finishers > 0 {
				hasRecipients[poolKey(g.AgeGroup, opts)] = true
			}
		}

		released := 0
		received := 0
		for _, g := range outcome.Groups {
			released += g.Released
			received += g.Received
			require.LessOrEqual(t, g.Released, max(g.Allocated, 0))

			if g.Finishers == 0 {
				require.Empty(t, g.Qualifiers)
				if hasRecipients[poolKey(g.AgeGroup, opts)] {
					require.Equal(t, max(g.Allocated, 0), g.Released, g.AgeGroup)
				}
			}
			expected := min(g.Final, g.Finishers)
			require.Len(t, g.Qualifiers, expected)
			for k, q := range g.Qualifiers {
				require.Equal(t, k+1, q.AgeGroupRank)
			}
			require.Equal(t, g.Final-expected, g.Unused)
		}
		require.Equal(t, released, received)
	}
}
