package qualify

import (
	"fmt"
	"strings"
)

// MissingAllocationError is returned when the results contain an age group
// that the slot allocation table knows nothing about. This means whatever
// produced the allocation table is incomplete.
type MissingAllocationError struct {
	AgeGroup string
}

func (e *MissingAllocationError) Error() string {
	return fmt.Sprintf("no slot allocation for age group %q", e.AgeGroup)
}

// InvalidRankError is returned when the finisher ranks of an age group are
// not exactly 1..n.
type InvalidRankError struct {
	AgeGroup string
	// finisher ranks in ascending order, 0 marks a finisher without a rank
	Ranks []int
}

func (e *InvalidRankError) Error() string {
	ranks := make([]string, len(e.Ranks))
	for i, r := range e.Ranks {
		ranks[i] = fmt.Sprint(r)
	}
	return fmt.Sprintf(
		"age group %q has non-dense finisher ranks [%s]",
		e.AgeGroup, strings.Join(ranks, ","),
	)
}
