package ironman

import (
	"fmt"
	"strings"
	"time"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusFinished
	StatusDidNotFinish
	StatusDidNotStart
)

func (s Status) String() string {
	switch s {
	case StatusFinished:
		return "FIN"
	case StatusDidNotFinish:
		return "DNF"
	case StatusDidNotStart:
		return "DNS"
	}
	return "?"
}

// Started is true for athletes who crossed the start line, whether or not they finished.
func (s Status) Started() bool {
	return s == StatusFinished || s == StatusDidNotFinish
}

// NoRank marks a result that has no rank (non-finishers, or a rank the source omitted).
const NoRank = 0

// Duration is an optional race time, Valid is false when the source had no value.
type Duration struct {
	Value time.Duration
	Valid bool
}

func NewDuration(d time.Duration) Duration {
	return Duration{Value: d, Valid: true}
}

func (d Duration) String() string {
	if !d.Valid {
		return ""
	}
	total := int64(d.Value / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

type Splits struct {
	Swim Duration
	T1   Duration
	Bike Duration
	T2   Duration
	Run  Duration
}

type RaceResult struct {
	AthleteID    string
	Name         string
	AgeGroup     string
	Country      string
	Status       Status
	FinishTime   Duration
	Splits       Splits
	OverallRank  int
	AgeGroupRank int
	// 1-based position in the source file, 0 when unknown
	Row int
}

// Key identifies an athlete within a race, the athlete id is preferred when present.
// Without an id the source row tells apart athletes sharing a name.
func (r RaceResult) Key() string {
	if r.AthleteID != "" {
		return r.AthleteID
	}
	if r.Row > 0 {
		return fmt.Sprintf("%s/%s/%d", r.AgeGroup, r.Name, r.Row)
	}
	return r.AgeGroup + "/" + r.Name
}

type Event struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
}

type Race struct {
	Event   Event
	Results []RaceResult
}

// SlotsName is the race name as published on the qualifying events tables,
// which is the event name without its leading year.
func (r Race) SlotsName() string {
	return TrimEventYear(r.Event.Name)
}

func TrimEventYear(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 1 && isYear(fields[0]) {
		return strings.Join(fields[1:], " ")
	}
	return strings.Join(fields, " ")
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Division returns the leading letter of an age group ("M" for "M30-34").
func Division(ageGroup string) string {
	if ageGroup == "" {
		return ""
	}
	return ageGroup[:1]
}

// AgeGroups returns the distinct age groups in the order they first appear.
func AgeGroups(results []RaceResult) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range results {
		if _, ok := seen[r.AgeGroup]; ok {
			continue
		}
		seen[r.AgeGroup] = struct{}{}
		out = append(out, r.AgeGroup)
	}
	return out
}

// DefaultAgeGroups is the age group list used for slot allocation when no
// configuration overrides it.
var DefaultAgeGroups = []string{
	"M18-24", "M25-29", "M30-34", "M35-39", "M40-44", "M45-49", "M50-54",
	"M55-59", "M60-64", "M65-69", "M70-74", "M75-79", "M80-84", "M85-89",
	"F18-24", "F25-29", "F30-34", "F35-39", "F40-44", "F45-49", "F50-54",
	"F55-59", "F60-64", "F65-69", "F70-74", "F75-79", "F80-84", "F85-89",
}
