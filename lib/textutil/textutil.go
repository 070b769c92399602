package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9.]+`)

// NormalizeName lowercases a race name and reduces everything that is not a
// letter, digit or dot to single spaces, "IRONMAN 70.3 Coeur d'Alene" and
// "Ironman 70.3 Coeur D Alene" normalize to the same string.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = nonAlnum.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

type Match struct {
	Candidate  string
	Similarity float64
}

// BestMatch returns the candidate most similar to name by Jaro-Winkler
// distance over normalized names. ok is false when no candidate reaches
// threshold.
func BestMatch(name string, candidates []string, threshold float64) (Match, bool) {
	target := NormalizeName(name)

	var best Match
	for _, c := range candidates {
		similarity := matchr.JaroWinkler(target, NormalizeName(c), false)
		if similarity > best.Similarity ||
			(similarity == best.Similarity && best.Candidate != "" && c < best.Candidate) {
			best = Match{Candidate: c, Similarity: similarity}
		}
	}
	if best.Candidate == "" || best.Similarity < threshold {
		return best, false
	}
	return best, true
}
