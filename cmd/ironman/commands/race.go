package commands

import (
	"errors"
	"fmt"
	"strconv"

	"ironman-results/lib/ironman"
	"ironman-results/lib/qualify"
	"ironman-results/lib/resultstore"
	"ironman-results/lib/slotstore"
)

// resolveRaceFile accepts a file name, a path or the index printed by `list`.
func resolveRaceFile(store resultstore.Store, arg string) (string, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}
	names, err := store.List()
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(names) {
		return "", fmt.Errorf("there is no result file #%d (found %d)", index, len(names))
	}
	return names[index-1], nil
}

func loadRace(arg string) (ironman.Race, error) {
	store := resultstore.NewStore(cfg.ResultsDir)
	name, err := resolveRaceFile(store, arg)
	if err != nil {
		return ironman.Race{}, err
	}
	return store.Load(name)
}

type raceOutcome struct {
	// the slots file entry that was used
	SlotsName string
	Outcome   qualify.Outcome
}

// qualifyRace computes the qualifiers of a race using the slots file, only
// results in the configured age groups take part.
func qualifyRace(race ironman.Race) (raceOutcome, error) {
	slots, err := slotstore.Read(cfg.SlotsFile)
	if err != nil {
		return raceOutcome{}, fmt.Errorf("read slots file: %w", err)
	}
	name, entry, err := slots.Lookup(race.Event.Name)
	if err != nil {
		return raceOutcome{}, err
	}

	results := qualify.FilterAgeGroups(race.Results, cfg.AgeGroups)
	allocation := entry.Allocation(results, cfg.AgeGroups)
	outcome, err := qualify.AllocateAndQualify(results, allocation, qualify.Options{
		SplitByDivision: true,
	})
	if err != nil {
		return raceOutcome{SlotsName: name}, err
	}
	return raceOutcome{SlotsName: name, Outcome: outcome}, nil
}

// describeQualifyError names the age group an allocation error is about.
func describeQualifyError(err error) string {
	var missing *qualify.MissingAllocationError
	var invalid *qualify.InvalidRankError
	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("age group %s: no slot allocation entry", missing.AgeGroup)
	case errors.As(err, &invalid):
		return fmt.Sprintf("age group %s: finisher ranks %v are not 1..n", invalid.AgeGroup, invalid.Ranks)
	case errors.Is(err, slotstore.ErrRaceNotFound):
		return "race is not listed in the slots file"
	}
	return err.Error()
}
