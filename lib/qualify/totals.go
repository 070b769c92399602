package qualify

import (
	"ironman-results/lib/ironman"
)

// Totals are the slots published per division for a race.
type Totals map[string]int

// AllocateFromTotals derives the per age group table from the division
// totals that the qualifying events pages publish. Each valid age group with
// a starter gets one slot, the rest of the division total is split among them
// in proportion to starters. Results outside of ageGroups are ignored.
func AllocateFromTotals(results []ironman.RaceResult, totals Totals, ageGroups []string) Allocation {
	out := make(Allocation, len(ageGroups))
	valid := make(map[string]struct{}, len(ageGroups))
	for _, ag := range ageGroups {
		valid[ag] = struct{}{}
		out[ag] = GroupSlots{}
	}

	for _, r := range results {
		if _, ok := valid[r.AgeGroup]; !ok || !r.Status.Started() {
			continue
		}
		entry := out[r.AgeGroup]
		entry.Starters++
		out[r.AgeGroup] = entry
	}

	remaining := make(map[string]int, len(totals))
	for division, n := range totals {
		remaining[division] = n
	}
	byDivision := make(map[string][]string)
	var divisions []string
	for _, ag := range ageGroups {
		entry := out[ag]
		if entry.Starters == 0 {
			continue
		}
		entry.Slots = 1
		out[ag] = entry

		division := ironman.Division(ag)
		remaining[division]--
		if _, ok := byDivision[division]; !ok {
			divisions = append(divisions, division)
		}
		byDivision[division] = append(byDivision[division], ag)
	}

	for _, division := range divisions {
		members := byDivision[division]
		shares := largestRemainder(
			remaining[division], members,
			func(ag string) int { return out[ag].Starters },
			func(a, b string) bool {
				if out[a].Starters != out[b].Starters {
					return out[a].Starters > out[b].Starters
				}
				return a < b
			},
		)
		for i, ag := range members {
			entry := out[ag]
			entry.Slots += shares[i]
			out[ag] = entry
		}
	}
	return out
}

// FilterAgeGroups drops the results of age groups outside of ageGroups
// (professionals, relays, ...).
func FilterAgeGroups(results []ironman.RaceResult, ageGroups []string) []ironman.RaceResult {
	valid := make(map[string]struct{}, len(ageGroups))
	for _, ag := range ageGroups {
		valid[ag] = struct{}{}
	}
	var out []ironman.RaceResult
	for _, r := range results {
		if _, ok := valid[r.AgeGroup]; ok {
			out = append(out, r)
		}
	}
	return out
}
