// Package slotstore reads and writes the qualifying slots file, a json
// object keyed by race name as published on the qualifying events pages.
package slotstore

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ironman-results/lib/ironman"
	"ironman-results/lib/qualify"
	"ironman-results/lib/textutil"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var Schema []byte

var ErrRaceNotFound = errors.New("race not found in slots file")

// MatchThreshold is the minimum Jaro-Winkler similarity for a fuzzy race
// name match.
const MatchThreshold = 0.9

type Race struct {
	Date       string `json:"date,omitempty"`
	Location   string `json:"location,omitempty"`
	MenSlots   int    `json:"men_slots"`
	WomenSlots int    `json:"women_slots"`
	// AgeGroups is an explicit per age group table, when present it is used
	// as is instead of being derived from the division totals.
	AgeGroups qualify.Allocation `json:"age_groups,omitempty"`
}

func (r Race) Totals() qualify.Totals {
	return qualify.Totals{"M": r.MenSlots, "F": r.WomenSlots}
}

// Allocation returns the allocation table of the race for the given results.
func (r Race) Allocation(results []ironman.RaceResult, ageGroups []string) qualify.Allocation {
	if len(r.AgeGroups) > 0 {
		return r.AgeGroups
	}
	return qualify.AllocateFromTotals(results, r.Totals(), ageGroups)
}

type File struct {
	Slots map[string]Race `json:"slots"`
}

func NewFile() File {
	return File{Slots: make(map[string]Race)}
}

type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s does not match the slots schema: %s", e.Path, strings.Join(e.Errors, "; "))
}

func Validate(path string, contents []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(Schema),
		gojsonschema.NewBytesLoader(contents),
	)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &ValidationError{Path: path, Errors: errs}
	}
	return nil
}

func Read(path string) (File, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	err = Validate(path, contents)
	if err != nil {
		return File{}, err
	}
	file := NewFile()
	err = json.Unmarshal(contents, &file)
	if err != nil {
		return File{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if file.Slots == nil {
		file.Slots = make(map[string]Race)
	}
	return file, nil
}

// ReadOrNew is Read, except that a missing file yields an empty File.
func ReadOrNew(path string) (File, error) {
	file, err := Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewFile(), nil
	}
	return file, err
}

func (f File) Write(path string) error {
	contents, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		err = os.MkdirAll(dir, 0777)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, contents, 0644)
}

// Put adds or replaces a race, an explicit age group table already on file
// is kept when the new entry has none.
func (f *File) Put(name string, race Race) {
	if f.Slots == nil {
		f.Slots = make(map[string]Race)
	}
	if existing, ok := f.Slots[name]; ok && len(race.AgeGroups) == 0 {
		race.AgeGroups = existing.AgeGroups
	}
	f.Slots[name] = race
}

func (f *File) Merge(other File) {
	for _, name := range other.Names() {
		f.Put(name, other.Slots[name])
	}
}

func (f File) Names() []string {
	names := make([]string, 0, len(f.Slots))
	for name := range f.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds the entry of a race. Exact names win, then names that are
// equal once the leading year is dropped and normalized, then the closest
// name by Jaro-Winkler similarity above MatchThreshold.
func (f File) Lookup(name string) (string, Race, error) {
	if race, ok := f.Slots[name]; ok {
		return name, race, nil
	}
	trimmed := ironman.TrimEventYear(name)
	if race, ok := f.Slots[trimmed]; ok {
		return trimmed, race, nil
	}

	names := f.Names()
	normalized := textutil.NormalizeName(trimmed)
	for _, candidate := range names {
		if textutil.NormalizeName(candidate) == normalized {
			return candidate, f.Slots[candidate], nil
		}
	}

	match, ok := textutil.BestMatch(trimmed, names, MatchThreshold)
	if !ok {
		return "", Race{}, fmt.Errorf("%w: %q", ErrRaceNotFound, name)
	}
	return match.Candidate, f.Slots[match.Candidate], nil
}
