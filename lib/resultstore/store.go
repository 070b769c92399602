package resultstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"ironman-results/lib/ironman"
)

// Store keeps one json file per scraped subevent in a directory.
type Store struct {
	Dir string
}

func NewStore(dir string) Store {
	return Store{Dir: dir}
}

// SanitizeName turns an event name into a file name component: spaces
// become underscores and non ascii characters are dropped.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r == '/' || r == '\\' || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
}

func (s Store) FileName(event ironman.Event) string {
	name := SanitizeName(event.Name)
	if name == "" {
		return event.ID + ".json"
	}
	return name + "_" + event.ID + ".json"
}

func (s Store) Save(event ironman.Event, rows []ironman.Row) (string, error) {
	err := os.MkdirAll(s.Dir, 0777)
	if err != nil {
		return "", err
	}
	contents, err := json.MarshalIndent(ironman.NewFile(event, rows), "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, s.FileName(event))
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}

// List returns the json file names in the directory, sorted.
func (s Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Path resolves a file name from List, or returns name as is when it
// already points to a file.
func (s Store) Path(name string) string {
	if _, err := os.Stat(name); err == nil && strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

func (s Store) Load(name string) (ironman.Race, error) {
	return ironman.ReadRaceFile(s.Path(name))
}
