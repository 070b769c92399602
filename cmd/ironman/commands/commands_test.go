package commands

import (
	"errors"
	"path/filepath"
	"testing"

	"ironman-results/lib/ironman"
	"ironman-results/lib/qualify"
	"ironman-results/lib/resultstore"
	"ironman-results/lib/slotstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/require"
)

func TestOptionRows(t *testing.T) {
	rows := optionRows([]string{"a", "b", "c"}, []string{"x"})
	require.Equal(t, []table.Row{
		{"a", "x"},
		{"b", nil},
		{"c", nil},
	}, rows)
}

func TestResolveRaceFile(t *testing.T) {
	store := resultstore.NewStore(t.TempDir())
	for _, id := range []string{"b", "a"} {
		_, err := store.Save(ironman.Event{ID: id, Name: "Race"}, nil)
		require.NoError(t, err)
	}

	name, err := resolveRaceFile(store, "2")
	require.NoError(t, err)
	require.Equal(t, "Race_b.json", name)

	name, err = resolveRaceFile(store, "Race_a.json")
	require.NoError(t, err)
	require.Equal(t, "Race_a.json", name)

	_, err = resolveRaceFile(store, "3")
	require.Error(t, err)
}

func TestQualifyRace(t *testing.T) {
	dir := t.TempDir()
	cfg.SlotsFile = filepath.Join(dir, "slots.json")
	cfg.AgeGroups = []string{"M30-34", "F30-34"}
	t.Cleanup(func() {
		cfg.SlotsFile = ""
		cfg.AgeGroups = nil
	})

	race := ironman.Race{
		Event: ironman.Event{Name: "2024 IRONMAN Texas"},
		Results: []ironman.RaceResult{
			{Name: "A", AgeGroup: "M30-34", Status: ironman.StatusFinished, AgeGroupRank: 1},
			{Name: "B", AgeGroup: "M30-34", Status: ironman.StatusFinished, AgeGroupRank: 2},
			{Name: "C", AgeGroup: "F30-34", Status: ironman.StatusFinished, AgeGroupRank: 1},
			{Name: "Pro", AgeGroup: "MPRO", Status: ironman.StatusFinished, AgeGroupRank: 1},
		},
	}

	_, err := qualifyRace(race)
	require.Error(t, err)

	file := slotstore.NewFile()
	file.Put("IRONMAN Texas", slotstore.Race{MenSlots: 1, WomenSlots: 1})
	require.NoError(t, file.Write(cfg.SlotsFile))

	res, err := qualifyRace(race)
	require.NoError(t, err)
	require.Equal(t, "IRONMAN Texas", res.SlotsName)
	require.Equal(t, 2, res.Outcome.QualifierCount())
	require.True(t, res.Outcome.IsQualifier(race.Results[0]))
	require.False(t, res.Outcome.IsQualifier(race.Results[1]))

	// an explicit table without the women's group cannot be used
	file.Put("IRONMAN Texas", slotstore.Race{AgeGroups: qualify.Allocation{"M30-34": {Slots: 2}}})
	require.NoError(t, file.Write(cfg.SlotsFile))
	_, err = qualifyRace(race)
	var missing *qualify.MissingAllocationError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "age group F30-34: no slot allocation entry", describeQualifyError(err))
}

func TestDescribeQualifyError(t *testing.T) {
	err := &qualify.InvalidRankError{AgeGroup: "M30-34", Ranks: []int{1, 2, 4}}
	require.Equal(t, "age group M30-34: finisher ranks [1 2 4] are not 1..n", describeQualifyError(err))
	require.Equal(t, "race is not listed in the slots file", describeQualifyError(slotstore.ErrRaceNotFound))
	require.Equal(t, "boom", describeQualifyError(errors.New("boom")))
}
