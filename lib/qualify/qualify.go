// Package qualify computes world championship qualifiers for a single race.
//
// The computation is a pure function of the race results and the slot
// allocation table, it holds no state and is safe to call concurrently.
package qualify

import (
	"slices"
	"sort"
	"strings"

	"ironman-results/lib/ironman"
)

// GroupSlots is the allocation table entry of an age group.
type GroupSlots struct {
	Starters int `json:"starters"`
	Slots    int `json:"slots"`
}

// Allocation maps age groups to their allotted slots for one race.
type Allocation map[string]GroupSlots

func (a Allocation) Total() int {
	total := 0
	for _, g := range a {
		total += g.Slots
	}
	return total
}

type Options struct {
	// SplitByDivision redistributes released slots only among age groups of
	// the same division (leading letter), men's and women's slots are
	// published as separate pools.
	SplitByDivision bool
}

type Group struct {
	AgeGroup  string
	Starters  int
	Finishers int
	// slots in the allocation table, before the baseline rule
	Allocated int
	// slots after the baseline rule, before redistribution
	Baseline int
	Released int
	Received int
	Final    int
	Unused   int
	// rank ascending
	Qualifiers []ironman.RaceResult
}

type Outcome struct {
	// sorted by age group
	Groups []Group
}

func (o Outcome) Group(ageGroup string) (Group, bool) {
	i, found := slices.BinarySearchFunc(o.Groups, ageGroup, func(g Group, target string) int {
		return strings.Compare(g.AgeGroup, target)
	})
	if !found {
		return Group{}, false
	}
	return o.Groups[i], true
}

func (o Outcome) Qualifiers() map[string][]ironman.RaceResult {
	out := make(map[string][]ironman.RaceResult, len(o.Groups))
	for _, g := range o.Groups {
		out[g.AgeGroup] = g.Qualifiers
	}
	return out
}

func (o Outcome) Unused() map[string]int {
	out := make(map[string]int, len(o.Groups))
	for _, g := range o.Groups {
		out[g.AgeGroup] = g.Unused
	}
	return out
}

// IsQualifier reports whether the result is in the qualifier list of its age group.
func (o Outcome) IsQualifier(r ironman.RaceResult) bool {
	g, ok := o.Group(r.AgeGroup)
	if !ok {
		return false
	}
	key := r.Key()
	for _, q := range g.Qualifiers {
		if q.Key() == key {
			return true
		}
	}
	return false
}

func (o Outcome) QualifierCount() int {
	n := 0
	for _, g := range o.Groups {
		n += len(g.Qualifiers)
	}
	return n
}

func (o Outcome) FinalSlots() int {
	n := 0
	for _, g := range o.Groups {
		n += g.Final
	}
	return n
}

// AllocateAndQualify applies the baseline rule, moves the slots of age groups
// without finishers to the age groups with finishers and picks the top
// finishers of each age group.
func AllocateAndQualify(results []ironman.RaceResult, allocation Allocation, opts Options) (Outcome, error) {
	byGroup := make(map[string]*Group, len(allocation))
	finishers := make(map[string][]ironman.RaceResult)

	for _, r := range results {
		g, ok := byGroup[r.AgeGroup]
		if !ok {
			entry, allocated := allocation[r.AgeGroup]
			if !allocated {
				return Outcome{}, &MissingAllocationError{AgeGroup: r.AgeGroup}
			}
			g = &Group{AgeGroup: r.AgeGroup, Allocated: entry.Slots}
			byGroup[r.AgeGroup] = g
		}
		if r.Status.Started() {
			g.Starters++
		}
		if r.Status == ironman.StatusFinished {
			g.Finishers++
			finishers[r.AgeGroup] = append(finishers[r.AgeGroup], r)
		}
	}
	for ageGroup, entry := range allocation {
		if _, ok := byGroup[ageGroup]; !ok {
			byGroup[ageGroup] = &Group{AgeGroup: ageGroup, Allocated: entry.Slots}
		}
	}

	ranked := make([]string, 0, len(finishers))
	for ageGroup := range finishers {
		ranked = append(ranked, ageGroup)
	}
	sort.Strings(ranked)
	for _, ageGroup := range ranked {
		list := finishers[ageGroup]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].AgeGroupRank < list[j].AgeGroupRank
		})
		if err := checkRanks(ageGroup, list); err != nil {
			return Outcome{}, err
		}
	}

	groups := make([]*Group, 0, len(byGroup))
	for _, g := range byGroup {
		g.Baseline = max(g.Allocated, 0)
		if g.Starters > 0 && g.Baseline == 0 {
			g.Baseline = 1
		}
		g.Final = g.Baseline
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AgeGroup < groups[j].AgeGroup
	})

	for _, pool := range pools(groups, opts) {
		redistribute(pool)
	}

	out := Outcome{Groups: make([]Group, len(groups))}
	for i, g := range groups {
		list := finishers[g.AgeGroup]
		n := min(g.Final, len(list))
		g.Qualifiers = slices.Clone(list[:n])
		g.Unused = g.Final - n
		out.Groups[i] = *g
	}
	return out, nil
}

func checkRanks(ageGroup string, sorted []ironman.RaceResult) error {
	for i, r := range sorted {
		if r.AgeGroupRank != i+1 {
			ranks := make([]int, len(sorted))
			for j, s := range sorted {
				ranks[j] = s.AgeGroupRank
			}
			return &InvalidRankError{AgeGroup: ageGroup, Ranks: ranks}
		}
	}
	return nil
}

// pools partitions the (sorted) groups into redistribution pools.
func pools(groups []*Group, opts Options) [][]*Group {
	if !opts.SplitByDivision {
		return [][]*Group{groups}
	}
	var out [][]*Group
	index := make(map[string]int)
	for _, g := range groups {
		division := ironman.Division(g.AgeGroup)
		i, ok := index[division]
		if !ok {
			i = len(out)
			index[division] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], g)
	}
	return out
}

func redistribute(pool []*Group) {
	var recipients []*Group
	totalStarters := 0
	for _, g := range pool {
		if g.Finishers > 0 {
			recipients = append(recipients, g)
			totalStarters += g.Starters
		}
	}
	// nobody can take the slots, they stay where they are and end up unused
	if len(recipients) == 0 || totalStarters == 0 {
		return
	}

	released := 0
	for _, g := range pool {
		// a baseline slot is not part of the original allocation and is never released
		if g.Finishers == 0 && g.Allocated > 0 {
			g.Released = min(g.Allocated, g.Final)
			g.Final -= g.Released
			released += g.Released
		}
	}
	if released == 0 {
		return
	}

	shares := largestRemainder(released, recipients, func(g *Group) int { return g.Starters }, func(a, b *Group) bool {
		if a.Allocated != b.Allocated {
			return a.Allocated > b.Allocated
		}
		return a.AgeGroup < b.AgeGroup
	})
	for i, g := range recipients {
		g.Received = shares[i]
		g.Final += shares[i]
	}
}

// largestRemainder splits total across items proportionally to weight.
// Every item first gets floor(total*w/W), the leftover units go to the items
// with the largest remainders, ties decided by before. All arithmetic is on
// integers so the split is exact and deterministic.
func largestRemainder[T any](total int, items []T, weight func(T) int, before func(a, b T) bool) []int {
	shares := make([]int, len(items))
	sum := 0
	for _, it := range items {
		sum += weight(it)
	}
	if total <= 0 || sum <= 0 {
		return shares
	}

	remainders := make([]int, len(items))
	given := 0
	for i, it := range items {
		numerator := total * weight(it)
		shares[i] = numerator / sum
		remainders[i] = numerator % sum
		given += shares[i]
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if remainders[ia] != remainders[ib] {
			return remainders[ia] > remainders[ib]
		}
		return before(items[ia], items[ib])
	})
	for k := 0; given < total; k++ {
		shares[order[k%len(order)]]++
		given++
	}
	return shares
}
